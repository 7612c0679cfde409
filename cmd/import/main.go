package main

// One-shot legacy record import:
//   LEGACY_EXPORT_URL=http://legacy-host go run ./cmd/import

import (
	"context"
	"log"
	"os"

	"resume-tracker/internal/legacyimport"
	"resume-tracker/internal/shared/config"
	"resume-tracker/internal/shared/storage/db"
	"resume-tracker/internal/submissions"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	if cfg.LegacyExportURL == "" {
		log.Printf("LEGACY_EXPORT_URL is required")
		os.Exit(1)
	}

	conn, err := db.Connect(ctx, db.Settings{
		Driver:      cfg.StoreDriver,
		SQLitePath:  cfg.SQLitePath,
		DatabaseURL: cfg.DatabaseURL,
	})
	if err != nil {
		log.Printf("failed to connect database: %v", err)
		os.Exit(1)
	}
	defer conn.Close()

	if err := db.RunMigrations(ctx, conn, cfg.StoreDriver); err != nil {
		log.Printf("failed to run migrations: %v", err)
		os.Exit(1)
	}

	var repo submissions.Repo
	if cfg.StoreDriver == "postgres" {
		repo = &submissions.PGRepo{DB: conn}
	} else {
		repo = &submissions.SQLiteRepo{DB: conn}
	}

	importer := &legacyimport.Importer{
		Client: legacyimport.NewClient(cfg.LegacyExportURL),
		Repo:   repo,
	}

	imported, skipped, err := importer.Run(ctx)
	if err != nil {
		log.Printf("import failed: %v", err)
		os.Exit(1)
	}
	log.Printf("import complete imported=%d skipped=%d", imported, skipped)
}
