package main

import (
	"flag"
	"log"

	"cashierku_backend/internals/configs"
	database "cashierku_backend/internals/databases"
	"cashierku_backend/internals/seeds"
)

func main() {
	dir := flag.String("dir", seeds.DefaultDataDir, "directory holding the data_*.json files")
	flag.Parse()

	configs.LoadEnv()
	db := configs.InitSeederDB()
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("❌ auto-migrate failed: %v", err)
	}
	if err := seeds.RunAllSeeds(db, *dir); err != nil {
		log.Fatalf("❌ seeding failed: %v", err)
	}
}
