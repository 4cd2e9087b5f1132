package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"faculty-connect/internal/catalog"
	"faculty-connect/internal/config"
	"faculty-connect/internal/infrastructure/database"
	"faculty-connect/internal/infrastructure/repository"
	domain "faculty-connect/internal/domain/selection"
	"faculty-connect/pkg/logger"

	"github.com/spf13/cobra"
)

// seedCmd writes a full-capacity counter row for every valid
// (faculty, subject) pair so a fresh deployment has a complete mirror
// before the first submission arrives.
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the slot counter mirror to full capacity",
	Run:   runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, args []string) {
	cfg := config.Get()

	cat, err := catalog.New(cfg.Catalog)
	if err != nil {
		logger.Error("Invalid catalog configuration: %v", err)
		os.Exit(1)
	}

	db, err := database.NewConnection(database.ConfigFromApp(&cfg.Database))
	if err != nil {
		logger.Error("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	counterRepo := repository.NewSlotCounterRepository(db)

	pairs := cat.Pairs()
	counters := make([]*domain.SlotCounter, 0, len(pairs))
	for _, pair := range pairs {
		counters = append(counters, &domain.SlotCounter{
			Key:       catalog.SlotKey(pair.FacultyID, pair.SubjectID),
			FacultyID: pair.FacultyID,
			SubjectID: pair.SubjectID,
			Remaining: pair.Capacity,
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := counterRepo.ReplaceAll(ctx, counters); err != nil {
		logger.Error("Failed to seed slot counters: %v", err)
		os.Exit(1)
	}

	fmt.Printf("Seeded %d slot counters to full capacity\n", len(counters))
}
