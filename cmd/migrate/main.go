package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/pageza/foodtrove/config"
	"github.com/pageza/foodtrove/internal/database"
	"github.com/pageza/foodtrove/internal/storage"
)

func main() {
	// Parse command line flags
	prune := flag.Duration("prune", 0, "Also delete device storage entries untouched for this long (e.g. 2160h)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("failed to apply migrations: %v", err)
	}
	fmt.Println("All migrations applied successfully.")

	if *prune <= 0 {
		return
	}
	n, err := storage.New(db).PruneBefore(context.Background(), time.Now().Add(-*prune))
	if err != nil {
		log.Fatalf("failed to prune device storage: %v", err)
	}
	fmt.Printf("Successfully pruned %d device storage entries\n", n)
}
