package main

import (
	"context"
	"flag"
	"log"

	"drive/internal/config"
	"drive/internal/repository/postgres"
	"drive/internal/seed"
	"drive/internal/server"

	"github.com/joho/godotenv"
)

func main() {
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed data")
	clearData := flag.Bool("clear-data", false, "Erase the owner's folders, files and blobs (keep schema)")
	owner := flag.String("owner", "", "Owner id to seed (defaults to DEV_USER_ID)")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && (*dropTables || *clearData) {
		log.Fatalf("BLOCKED: cannot run --drop-tables or --clear-data in production")
	}

	logger, closeLog, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to setup logging: %v", err)
	}
	defer func() { _ = closeLog() }()

	ownerID := *owner
	if ownerID == "" {
		ownerID = cfg.DevUserID
	}

	ctx := context.Background()

	if *dropTables {
		if cfg.MetadataDriver != "postgres" {
			log.Fatalf("--drop-tables requires METADATA_DRIVER=postgres")
		}
		pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		log.Println("Dropping all tables...")
		if err := postgres.DropSchema(ctx, pool, postgres.NewTableNames(cfg.TablePrefix)); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		pool.Close()
		log.Println("Tables dropped")
	}

	// Opening the backends ensures the schema exists
	backends, err := server.OpenBackends(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to open backends: %v", err)
	}
	defer backends.Close()
	log.Printf("Schema ready (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)

	if *schemaOnly {
		return
	}

	seeder := seed.NewSeeder(backends.Services(cfg, logger), logger)

	if *clearData {
		if err := seeder.ClearOwner(ctx, ownerID); err != nil {
			log.Fatalf("Failed to clear data: %v", err)
		}
		log.Printf("Cleared data for owner %s", ownerID)
		return
	}

	summary, err := seeder.SeedDemoData(ctx, ownerID)
	if err != nil {
		log.Fatalf("Failed to seed: %v", err)
	}
	log.Printf("Seeding complete: %d folders, %d files, %d starred, %d trashed",
		summary.Folders, summary.Files, summary.Starred, summary.Trashed)
}
