package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"safetywatch/internal/model"
	"safetywatch/internal/repository/sqlite"
	"safetywatch/internal/service/storage"
)

// Imports an existing screenshot directory into the events database by
// parsing violation screenshot filenames.
func main() {
	screenshotDir := flag.String("screenshots", "screenshots", "Directory containing violation screenshots")
	dbPath := flag.String("db", filepath.Join("data", "events.db"), "Database path")
	flag.Parse()

	fmt.Printf("Migrating screenshots from %s to database %s\n", *screenshotDir, *dbPath)

	if err := os.MkdirAll(filepath.Dir(*dbPath), 0755); err != nil {
		log.Fatalf("Failed to create database directory: %v", err)
	}

	db, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	eventRepo := sqlite.NewEventRepository(db, *screenshotDir)

	files, err := os.ReadDir(*screenshotDir)
	if err != nil {
		log.Fatalf("Failed to read screenshot directory: %v", err)
	}

	migrated := 0
	skipped := 0
	for _, file := range files {
		if file.IsDir() || filepath.Ext(file.Name()) != ".jpg" {
			continue
		}

		timestamp, err := storage.ParseScreenshotFilename(file.Name())
		if err != nil {
			log.Printf("⚠️  Skipping %s: %v", file.Name(), err)
			skipped++
			continue
		}

		_, err = eventRepo.Insert(&model.Event{
			EventID:    uuid.New().String(),
			Timestamp:  timestamp,
			Screenshot: filepath.Join(*screenshotDir, file.Name()),
		})
		if err != nil {
			log.Printf("⚠️  Failed to insert %s: %v", file.Name(), err)
			skipped++
			continue
		}
		migrated++
	}

	fmt.Printf("✅ Migrated %d screenshots\n", migrated)
	if skipped > 0 {
		fmt.Printf("⚠️  Skipped %d files (invalid format or errors)\n", skipped)
	}
}
