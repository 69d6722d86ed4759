// seed-stores populates the database with the default store catalog:
// online marketplaces plus the Brevard County thrift stores.
//
// Usage: go run ./cmd/seed-stores -db=<path> [-list]
//
// Seeding is idempotent: stores already present (matched by name,
// case-insensitively) are skipped.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/hardysdecor/antique-tracker/internal/database"
	"github.com/hardysdecor/antique-tracker/internal/services"
)

func main() {
	dbPath := flag.String("db", "./antique_tracker.db", "path to the SQLite database")
	list := flag.Bool("list", false, "print the seed catalog without writing")
	flag.Parse()

	stores := services.DefaultStores()

	if *list {
		for _, s := range stores {
			if s.Address != "" {
				fmt.Printf("%-45s %s, %s\n", s.Name, s.Address, s.City)
			} else {
				fmt.Printf("%-45s %s\n", s.Name, s.City)
			}
		}
		fmt.Printf("%d stores total\n", len(stores))
		return
	}

	if err := database.Initialize(*dbPath); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	added, err := services.SeedDefaultStores(database.GetDB())
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	fmt.Printf("Added %d of %d stores (%d already present)\n", added, len(stores), len(stores)-added)
}
