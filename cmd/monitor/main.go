package main

import (
	"log"

	"github.com/joho/godotenv"

	"safetywatch/internal/app"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	application, err := app.NewApp()
	if err != nil {
		log.Fatalf("Failed to start monitoring: %v", err)
	}

	if err := application.Run(); err != nil {
		log.Fatalf("Monitoring failed: %v", err)
	}
}
