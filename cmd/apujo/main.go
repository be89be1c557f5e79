package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/apujo-dev/apujo/db"
	"github.com/apujo-dev/apujo/internal/auth"
	"github.com/apujo-dev/apujo/internal/config"
	"github.com/apujo-dev/apujo/internal/router"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	cfg := config.Load()

	if err := auth.Init(cfg); err != nil {
		log.Fatalf("Failed to initialize auth: %v", err)
	}

	if err := db.ConnectDatabase(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.MigrateDatabase(); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	ensureUploadDirs(cfg)

	if err := auth.EnsureAdminUser(cfg.AdminUsername, cfg.AdminPassword); err != nil {
		// A missing admin account only blocks logins, not serving content.
		log.Printf("Failed to ensure admin user: %v", err)
	}

	r := router.New(cfg)

	addr := fmt.Sprintf(":%d", cfg.Port)

	if err := r.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func ensureUploadDirs(cfg *config.Config) {
	for _, category := range []string{"thoughts", "works", "analytics"} {
		dir := filepath.Join(cfg.UploadsRoot(), category)

		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Printf("Failed to create upload directory %s: %v", dir, err)
		}
	}
}
