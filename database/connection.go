// backend/database/connection.go
package database

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/pwalczak/automarket/backend/config"
	_ "github.com/go-sql-driver/mysql" // MariaDB driver
)

var DB *sql.DB

// InitDB initializes the database connection pool.
func InitDB(cfg config.DatabaseConfig) error {
	var err error
	// DSN: username:password@protocol(address)/dbname?param=value
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
	)

	DB, err = sql.Open("mysql", dsn)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}

	DB.SetMaxOpenConns(25)
	DB.SetMaxIdleConns(25)
	DB.SetConnMaxLifetime(5 * time.Minute)

	err = DB.Ping()
	if err != nil {
		DB.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Successfully connected to the database!")
	return nil
}

// CloseDB closes the database connection pool.
// Typically called on application shutdown.
func CloseDB() {
	if DB != nil {
		DB.Close()
		log.Println("Database connection closed.")
	}
}

// Migrate creates the application tables if they do not exist yet.
// The driver does not allow multi-statement Exec by default, so each DDL
// statement runs on its own.
func Migrate() error {
	if DB == nil {
		return fmt.Errorf("database connection is not initialized")
	}

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS dealers (
			id            BIGINT AUTO_INCREMENT PRIMARY KEY,
			name          VARCHAR(255) NOT NULL,
			address_line1 VARCHAR(255) NOT NULL,
			address_line2 VARCHAR(255) NOT NULL DEFAULT '',
			address_line3 VARCHAR(255) NOT NULL DEFAULT '',
			city          VARCHAR(128) NOT NULL DEFAULT '',
			contact_phone VARCHAR(64)  NOT NULL DEFAULT '',
			google_rating DECIMAL(3,2) NULL,
			review_count  INT          NULL,
			google_link   TEXT,
			created_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE KEY uq_dealers_name_addr (name, address_line1)
		)`,
		`CREATE TABLE IF NOT EXISTS listings (
			id                      BIGINT AUTO_INCREMENT PRIMARY KEY,
			external_id             VARCHAR(128) NOT NULL DEFAULT '',
			vin                     VARCHAR(64)  NOT NULL DEFAULT '',
			listing_url             TEXT,
			marketplace             VARCHAR(32)  NOT NULL DEFAULT '',
			scraped_at              VARCHAR(64)  NOT NULL DEFAULT '',
			price_pln               INT          NOT NULL DEFAULT 0,
			price_display           VARCHAR(128) NOT NULL DEFAULT '',
			omnibus_lowest_30d_pln  INT          NULL,
			omnibus_text            TEXT,
			make                    VARCHAR(128) NOT NULL DEFAULT '',
			model                   VARCHAR(128) NOT NULL DEFAULT '',
			version                 VARCHAR(255) NOT NULL DEFAULT '',
			production_year         INT          NOT NULL DEFAULT 0,
			mileage_km              INT          NOT NULL DEFAULT 0,
			fuel_type               VARCHAR(64)  NOT NULL DEFAULT '',
			transmission            VARCHAR(64)  NOT NULL DEFAULT '',
			engine_power_hp         INT          NULL,
			engine_capacity_cm3     INT          NULL,
			drive                   VARCHAR(64)  NOT NULL DEFAULT '',
			body_type               VARCHAR(64)  NOT NULL DEFAULT '',
			doors                   INT          NULL,
			seats                   INT          NULL,
			color                   VARCHAR(64)  NOT NULL DEFAULT '',
			paint_type              VARCHAR(64)  NOT NULL DEFAULT '',
			registration_number     VARCHAR(32)  NOT NULL DEFAULT '',
			first_registration_date VARCHAR(64)  NOT NULL DEFAULT '',
			primary_image_url       TEXT,
			image_count             INT          NULL,
			image_urls_json         MEDIUMTEXT,
			equipment_audio_multimedia_json TEXT,
			equipment_safety_json           TEXT,
			equipment_comfort_extras_json   TEXT,
			equipment_other_json            TEXT,
			additional_info_header  TEXT,
			additional_info_content MEDIUMTEXT,
			specs_json              MEDIUMTEXT,
			is_archived             BOOLEAN      NOT NULL DEFAULT FALSE,
			archived_at             TIMESTAMP    NULL,
			archived_reason         VARCHAR(255) NOT NULL DEFAULT '',
			dealer_id               BIGINT       NULL,
			created_at              TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at              TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			KEY idx_listings_is_archived (is_archived),
			KEY idx_listings_vin (vin),
			KEY idx_listings_external_id (external_id),
			KEY idx_listings_dealer_id (dealer_id),
			CONSTRAINT fk_listings_dealer FOREIGN KEY (dealer_id) REFERENCES dealers (id)
		)`,
		`CREATE TABLE IF NOT EXISTS price_history (
			id          BIGINT AUTO_INCREMENT PRIMARY KEY,
			listing_id  BIGINT    NOT NULL,
			price_pln   INT       NOT NULL,
			observed_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			KEY idx_price_history_listing (listing_id, observed_at),
			CONSTRAINT fk_price_history_listing FOREIGN KEY (listing_id) REFERENCES listings (id)
		)`,
		`CREATE TABLE IF NOT EXISTS import_logs (
			id             BIGINT AUTO_INCREMENT PRIMARY KEY,
			user_id        BIGINT       NOT NULL DEFAULT 0,
			source_label   VARCHAR(255) NOT NULL DEFAULT '',
			total_rows     INT          NOT NULL DEFAULT 0,
			inserted_count INT          NOT NULL DEFAULT 0,
			updated_count  INT          NOT NULL DEFAULT 0,
			archived_count INT          NOT NULL DEFAULT 0,
			failed_count   INT          NOT NULL DEFAULT 0,
			status         VARCHAR(16)  NOT NULL DEFAULT '',
			duration_ms    BIGINT       NOT NULL DEFAULT 0,
			created_at     TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			KEY idx_import_logs_created_at (created_at)
		)`,
	}

	for _, stmt := range stmts {
		if _, err := DB.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	log.Println("Database migrations applied.")
	return nil
}
