package main

import (
	"log"
	"os"

	"hr-faq-be/internal/model"
	"hr-faq-be/pkg/database"

	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	// 2. Connect to Database using existing GORM helpers
	db, err := database.NewGormDBFromDSN(dsn, database.PoolConfig{}, false)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Starting GORM Migration...")

	// 3. Pre-Migration: pgvector must exist before the questions table.
	log.Println("Step 1: Setting up Extensions...")
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS vector;`).Error; err != nil {
		log.Fatalf("Error: Failed to create vector extension: %v", err)
	}

	// 4. AutoMigrate
	models := []interface{}{
		&model.Department{},
		&model.Employee{},
		&model.Question{},
		&model.Feedback{},
		&model.InteractionLog{},
	}
	log.Printf("Step 2: Running AutoMigrate for %d Tables...", len(models))

	if err := db.AutoMigrate(models...); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	// 5. Post-Migration: ANN index for the similarity cache.
	log.Println("Step 3: Creating vector index...")
	indexSQL := `CREATE INDEX IF NOT EXISTS idx_questions_embedding ON questions USING hnsw (embedding vector_cosine_ops);`
	if err := db.Exec(indexSQL).Error; err != nil {
		log.Printf("Warn: Failed to create vector index: %v. Continuing...", err)
	}

	log.Println("Migration completed successfully!")
}
