// Command seed loads the sample vehicle catalog into Neo4j. It is meant for
// local development and integration environments; running it twice is safe
// because vehicles and listings are merged by ID.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/RedlineAI/redline/engine/catalog"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	neo4jURL := flag.String("neo4j", envOr("NEO4J_URL", "neo4j://localhost:7687"), "Neo4j URL")
	neo4jUser := flag.String("user", envOr("NEO4J_USER", "neo4j"), "Neo4j user")
	neo4jPass := flag.String("pass", envOr("NEO4J_PASS", "password"), "Neo4j password")
	flag.Parse()

	driver, err := neo4j.NewDriverWithContext(*neo4jURL, neo4j.BasicAuth(*neo4jUser, *neo4jPass, ""))
	if err != nil {
		log.Fatalf("neo4j connect: %v", err)
	}
	defer driver.Close(ctx)

	store := catalog.New(driver)
	if err := store.Seed(ctx, catalog.SampleVehicles); err != nil {
		log.Fatalf("seed: %v", err)
	}

	listings := 0
	for _, s := range catalog.SampleVehicles {
		listings += s.Listings
	}
	log.Printf("Seeded %d vehicles and %d listings", len(catalog.SampleVehicles), listings)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
