// backend/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type ServerConfig struct {
	Port string `yaml:"port"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
}

type FeedConfig struct {
	// SnapshotCSVURL is the export URL of the scraping source, used by the
	// feed-pull import endpoint.
	SnapshotCSVURL string `yaml:"snapshot_csv_url"`
	// TempDir is where downloaded snapshots are staged before parsing.
	TempDir string `yaml:"temp_dir"`
}

type SyncConfig struct {
	// LockWaitSeconds is how long a sync invocation waits for the advisory
	// lock before giving up. 0 means fail immediately when another import
	// is running.
	LockWaitSeconds int `yaml:"lock_wait_seconds"`
}

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Feed     FeedConfig     `yaml:"feed"`
	Sync     SyncConfig     `yaml:"sync"`
}

var AppConfig Config

// LoadConfig reads configuration from the yaml file at configPath, then
// applies environment overrides (a local .env file is honored when present,
// so credentials stay out of the yaml).
func LoadConfig(configPath string) error {
	file, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(file, &AppConfig); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// .env is optional; system environment still applies without it.
	_ = godotenv.Load()

	AppConfig.Database.Host = envOrDefault("DB_HOST", AppConfig.Database.Host)
	AppConfig.Database.Port = envOrDefault("DB_PORT", AppConfig.Database.Port)
	AppConfig.Database.User = envOrDefault("DB_USER", AppConfig.Database.User)
	AppConfig.Database.Password = envOrDefault("DB_PASSWORD", AppConfig.Database.Password)
	AppConfig.Database.DBName = envOrDefault("DB_NAME", AppConfig.Database.DBName)
	AppConfig.Server.Port = envOrDefault("SERVER_PORT", AppConfig.Server.Port)
	AppConfig.Feed.SnapshotCSVURL = envOrDefault("FEED_SNAPSHOT_CSV_URL", AppConfig.Feed.SnapshotCSVURL)
	AppConfig.Sync.LockWaitSeconds = envOrDefaultInt("SYNC_LOCK_WAIT_SECONDS", AppConfig.Sync.LockWaitSeconds)

	if AppConfig.Server.Port == "" {
		AppConfig.Server.Port = "8080"
	}
	if AppConfig.Feed.TempDir == "" {
		AppConfig.Feed.TempDir = os.TempDir()
	}

	return nil
}

func envOrDefault(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func envOrDefaultInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return fallback
}
