// Command seed populates the database with demo data.
package main

import (
	"flag"
	"log"

	"chronicle/internal/config"
	"chronicle/internal/database"
	"chronicle/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 5, "number of users to create")
	numPosts := flag.Int("posts", 20, "number of posts to create")
	clean := flag.Bool("clean", false, "clear existing data before seeding")
	fixture := flag.String("fixture", "", "optional YAML file with category/tag names")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := seed.Seed(db, seed.Options{
		NumUsers:    *numUsers,
		NumPosts:    *numPosts,
		ShouldClean: *clean,
		FixturePath: *fixture,
	}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
}
