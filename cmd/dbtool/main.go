package main

import (
	"context"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"visit-route-service/internal/adapters/repositories"
	"visit-route-service/internal/config"
	"visit-route-service/internal/platform/db"
)

// dbtool migrates the database schema and optionally seeds demo users and
// stores, for local development and demos.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	database, err := db.Open(context.Background(), databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer database.Close()

	log.Println("Applying migrations...")
	if err := repositories.Migrate(database); err != nil {
		log.Fatalf("migrations failed: %v", err)
	}
	log.Println("Schema ready.")

	seedPath := config.Get("SEED_PATH", "data/seeds/demo.json")
	log.Printf("Seeding from %s...", seedPath)
	if err := repositories.SeedFromJSON(database, seedPath); err != nil {
		log.Fatalf("seeding failed: %v", err)
	}
	log.Println("Seeding complete.")
}
