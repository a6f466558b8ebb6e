// backend/main.go
package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/pwalczak/automarket/backend/config"
	"github.com/pwalczak/automarket/backend/database"
	"github.com/pwalczak/automarket/backend/handlers"
)

func main() {
	log.Println("Starting Automarket Sync Backend...")

	configPath := "config/config.yaml"
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		configPath = "backend/config/config.yaml"
		if _, errFallback := os.Stat(configPath); os.IsNotExist(errFallback) {
			log.Fatalf("Config file not found at default paths. Error: %v", errFallback)
		}
	}

	err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}
	log.Printf("Configuration loaded. Server port: %s, DB name: %s",
		config.AppConfig.Server.Port, config.AppConfig.Database.DBName)

	err = database.InitDB(config.AppConfig.Database)
	if err != nil {
		log.Fatalf("Error initializing database: %v", err)
	}
	defer database.CloseDB()

	if err := database.Migrate(); err != nil {
		log.Fatalf("Error running database migrations: %v", err)
	}

	// --- Setup HTTP routes ---
	http.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := database.DB.Ping(); err != nil {
			http.Error(w, `{"status": "error", "message": "database connection error"}`, http.StatusInternalServerError)
			log.Printf("Health check failed: DB ping error: %v", err)
			return
		}
		fmt.Fprintln(w, `{"status": "ok", "message": "automarket backend is healthy"}`)
	})

	// Admin routes: import pipeline and its history
	http.HandleFunc("/api/admin/import", handlers.ImportListingsFileHandler)
	http.HandleFunc("/api/admin/import-json", handlers.ImportListingsJSONHandler)
	http.HandleFunc("/api/admin/import-feed", handlers.ImportFromFeedHandler)
	http.HandleFunc("/api/admin/imports", handlers.GetImportHistoryHandler)
	http.HandleFunc("/api/admin/listings/", handlers.ArchiveListingHandler) // Path ends with / to catch sub-paths

	// Public read routes
	http.HandleFunc("/api/listings", handlers.GetListingsHandler)
	http.HandleFunc("/api/listings/", handlers.ListingDetailHandler) // Path ends with / to catch sub-paths

	serverAddr := ":" + config.AppConfig.Server.Port
	log.Printf("Server starting on http://localhost%s\n", serverAddr)
	err = http.ListenAndServe(serverAddr, nil)
	if err != nil {
		log.Fatalf("Error starting server: %v", err)
	}
}
