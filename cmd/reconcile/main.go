// Command main rebuilds denormalized post reaction counters from the
// reaction records. Intended to run as a periodic job to repair drift left
// behind by crashes between a record write and its counter update.
package main

import (
	"context"
	"log"
	"time"

	"communityapi/internal/config"
	"communityapi/internal/database"
	"communityapi/internal/repository"
	"communityapi/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	svc := service.NewReconcileService(
		repository.NewPostRepository(db),
		repository.NewReactionRepository(db),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	repaired, err := svc.ReconcileAll(ctx)
	if err != nil {
		log.Fatalf("Reconciliation failed after repairing %d posts: %v", repaired, err)
	}
	log.Printf("Reconciliation complete: %d posts repaired.", repaired)
}
