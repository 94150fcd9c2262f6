package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"growthcheck/internal/config"
	"growthcheck/internal/database"
	"growthcheck/internal/repository"
	"growthcheck/internal/service"
)

func main() {
	// Define subcommands
	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	importCmd := flag.NewFlagSet("import", flag.ExitOnError)

	// Export flags
	exportDir := exportCmd.String("dir", "", "Bundle directory (default: bundle_YYYYMMDD_HHMMSS)")

	// Import flags
	importDir := importCmd.String("dir", "", "Bundle directory (required)")
	importClear := importCmd.Bool("clear", false, "Clear existing children and measurements before import (WARNING: destructive)")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run migrations to ensure schema is up to date
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Create backup service
	backupService := service.NewBackupService(
		repository.NewChildRepository(db),
		repository.NewMeasurementRepository(db),
	)

	switch os.Args[1] {
	case "export":
		exportCmd.Parse(os.Args[2:])
		handleExport(backupService, *exportDir)

	case "import":
		importCmd.Parse(os.Args[2:])
		if *importDir == "" {
			fmt.Println("Error: -dir flag is required")
			importCmd.PrintDefaults()
			os.Exit(1)
		}
		handleImport(backupService, db, *importDir, *importClear)

	default:
		printUsage()
		os.Exit(1)
	}
}

func handleExport(backupService *service.BackupService, dir string) {
	// Generate default directory if not provided
	if dir == "" {
		dir = fmt.Sprintf("bundle_%s", time.Now().Format("20060102_150405"))
	}

	log.Printf("Exporting to bundle: %s", dir)
	manifest, err := backupService.Export(dir)
	if err != nil {
		log.Fatalf("Export failed: %v", err)
	}

	log.Printf("Export complete! %d children, %d measurements", manifest.Children, manifest.Measurements)
}

func handleImport(backupService *service.BackupService, db *database.DB, dir string, clearData bool) {
	// Check if bundle exists
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		log.Fatalf("Bundle directory does not exist: %s", dir)
	}

	if clearData {
		fmt.Print("WARNING: This will delete all children and measurements. Type 'yes' to confirm: ")
		var confirmation string
		fmt.Scanln(&confirmation)
		if confirmation != "yes" {
			log.Println("Import cancelled")
			return
		}

		log.Println("Clearing existing data...")
		if err := clearDatabase(db); err != nil {
			log.Fatalf("Failed to clear database: %v", err)
		}
	}

	log.Printf("Importing bundle from: %s", dir)
	manifest, err := backupService.Import(dir)
	if err != nil {
		log.Fatalf("Import failed: %v", err)
	}

	log.Printf("Import complete! %d children, %d measurements (bundle version %s)", manifest.Children, manifest.Measurements, manifest.Version)
}

func clearDatabase(db *database.DB) error {
	return db.WithTx(func(tx *database.Tx) error {
		// Delete in reverse order of dependencies
		for _, table := range []string{"growth_measurements", "children"} {
			if _, err := tx.Exec(fmt.Sprintf("DELETE FROM %s", table)); err != nil {
				return fmt.Errorf("failed to clear table %s: %w", table, err)
			}
			log.Printf("Cleared table: %s", table)
		}
		return nil
	})
}

func printUsage() {
	fmt.Println("GrowthCheck Bundle Tool")
	fmt.Println()
	fmt.Println("Moves children and growth measurements between the database and an")
	fmt.Println("on-device bundle directory (one JSON array per store).")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  backup export [options]    Export database to a bundle directory")
	fmt.Println("  backup import [options]    Import a bundle directory into the database")
	fmt.Println()
	fmt.Println("Export Options:")
	fmt.Println("  -dir <path>       Bundle directory (default: bundle_YYYYMMDD_HHMMSS)")
	fmt.Println()
	fmt.Println("Import Options:")
	fmt.Println("  -dir <path>       Bundle directory (required)")
	fmt.Println("  -clear            Clear existing children and measurements first (WARNING: destructive)")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  DB_TYPE          Database type: sqlite, postgres, or mysql (default: sqlite)")
	fmt.Println("  DB_PATH          SQLite database path (default: ./growthcheck.db)")
	fmt.Println("  DATABASE_URL     PostgreSQL or MySQL connection URL")
}
