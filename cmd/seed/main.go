// Command main runs the database seeder for the community API.
package main

import (
	"context"
	"flag"
	"log"

	"communityapi/internal/config"
	"communityapi/internal/database"
	"communityapi/internal/seed"
)

func main() {
	numCustomers := flag.Int("customers", 50, "Number of customers to create")
	numPosts := flag.Int("posts", 200, "Number of posts to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	log.Println("Database Seeder")
	log.Printf("Target: %d customers, %d posts, clean=%v\n", *numCustomers, *numPosts, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	s := seed.NewSeeder(db)
	ctx := context.Background()

	if *shouldClean {
		if err := s.ClearAll(); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	communities, err := s.Communities()
	if err != nil {
		log.Fatalf("Community seeding failed: %v", err)
	}
	customers, err := s.Customers(*numCustomers)
	if err != nil {
		log.Fatalf("Customer seeding failed: %v", err)
	}
	if err := s.Mesh(ctx, customers, communities, *numPosts); err != nil {
		log.Fatalf("Post seeding failed: %v", err)
	}

	log.Printf("Done. All seeded accounts use the password %q.", seed.Password)
}
