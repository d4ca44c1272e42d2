package main

import (
	"context"
	"database/sql"
	"log"
	"time"

	"cashierku_backend/internals/configs"
	database "cashierku_backend/internals/databases"
	"cashierku_backend/internals/databases/migrations"

	_ "github.com/lib/pq"
)

func main() {
	configs.LoadEnv()

	database.ConnectDB()
	if err := database.AutoMigrate(database.DB); err != nil {
		log.Fatalf("❌ auto-migrate failed: %v", err)
	}

	db, err := sql.Open("postgres", configs.PostgresDSN())
	if err != nil {
		log.Fatalf("❌ open: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	applied, err := migrations.Run(ctx, db)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	if len(applied) == 0 {
		log.Println("ℹ️ schema already up to date")
	}
}
