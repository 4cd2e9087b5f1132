package cmd

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"faculty-connect/internal/catalog"
	"faculty-connect/internal/config"
	"faculty-connect/internal/infrastructure/slotstore"
	interfaces "faculty-connect/internal/interfaces/infrastructure"
	"faculty-connect/pkg/logger"

	"github.com/spf13/cobra"
)

var slotsCmd = &cobra.Command{
	Use:   "slots",
	Short: "Slot counter management",
	Long:  "Inspect and reset the live slot counters",
}

var slotsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print current slot availability",
	Run:   runSlotsShow,
}

var slotsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset every slot counter to full capacity",
	Long: `Reset every slot counter to the owning faculty's capacity.
Existing submissions are not touched, so only use this between
selection rounds.`,
	Run: runSlotsReset,
}

func init() {
	rootCmd.AddCommand(slotsCmd)
	slotsCmd.AddCommand(slotsShowCmd)
	slotsCmd.AddCommand(slotsResetCmd)
}

func buildSlotStore() interfaces.SlotStore {
	cfg := config.Get()

	cat, err := catalog.New(cfg.Catalog)
	if err != nil {
		logger.Error("Invalid catalog configuration: %v", err)
		os.Exit(1)
	}

	if cfg.Store.Type == "memory" {
		return slotstore.NewMemorySlotStore(cat)
	}
	return slotstore.NewRedisSlotStoreWithConfig(&cfg.Cache, cat)
}

func runSlotsShow(cmd *cobra.Command, args []string) {
	slots := buildSlotStore()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	values, err := slots.GetAll(ctx)
	if err != nil {
		logger.Error("Failed to read slot counters: %v", err)
		os.Exit(1)
	}

	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	fmt.Println("Slot Availability:")
	fmt.Println("==================")
	for _, key := range keys {
		fmt.Printf("%-12s %d\n", key, values[key])
	}
}

func runSlotsReset(cmd *cobra.Command, args []string) {
	slots := buildSlotStore()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := slots.ResetAll(ctx); err != nil {
		logger.Error("Failed to reset slot counters: %v", err)
		os.Exit(1)
	}

	fmt.Println("All slot counters reset to full capacity")
}
