package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/andy/scootrent/internal/config"
	"github.com/andy/scootrent/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var scootersCmd = &cobra.Command{
	Use:   "scooters",
	Short: "Manage the configured fleet",
	Long: `List, add, and remove the scooters registered from the config file at
startup.`,
}

var scootersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all scooters",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		out := cmd.OutOrStdout()

		scooters, err := appInstance.ScooterService.GetScooters(ctx)
		if err != nil {
			return fmt.Errorf("failed to list scooters: %w", err)
		}

		if len(scooters) == 0 {
			fmt.Fprintln(out, "No scooters found")
			return nil
		}

		// Print table header
		fmt.Fprintf(out, "%-38s %-12s %-10s\n", "ID", "Per Minute", "Status")
		fmt.Fprintln(out, "--------------------------------------------------------------")

		for _, s := range scooters {
			status := "Available"
			if s.IsRented {
				status = "Rented"
			}
			fmt.Fprintf(out, "%-38s %-12s %-10s\n",
				truncate(s.ID, 38),
				s.PricePerMinute.String(),
				status,
			)
		}

		fmt.Fprintf(out, "\nTotal: %d scooter(s)\n", len(scooters))
		return nil
	},
}

var scootersAddCmd = &cobra.Command{
	Use:   "add [id]",
	Short: "Add a scooter to the fleet",
	Long:  `Add a scooter to the config file. Without an id a random one is generated.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		id := domain.NewScooterID()
		if len(args) == 1 {
			id = args[0]
		}

		price := appInstance.Config.Pricing.PerMinuteRate
		if cmd.Flags().Changed("price") {
			priceStr, _ := cmd.Flags().GetString("price")
			p, err := decimal.NewFromString(priceStr)
			if err != nil {
				return fmt.Errorf("invalid price %q: %w", priceStr, err)
			}
			price = p
		}

		// The registry enforces the id and price rules
		scooter, err := appInstance.ScooterService.AddScooter(ctx, id, price)
		if err != nil {
			return fmt.Errorf("failed to add scooter: %w", err)
		}

		appInstance.Config.Fleet = append(appInstance.Config.Fleet, config.ScooterConfig{
			ID:             scooter.ID,
			PricePerMinute: scooter.PricePerMinute,
		})
		if err := appInstance.SaveConfig(); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✓ Scooter added: %s (%s/min)\n", scooter.ID, scooter.PricePerMinute)
		return nil
	},
}

var scootersRemoveCmd = &cobra.Command{
	Use:   "remove [id]",
	Short: "Remove a scooter from the fleet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		id := strings.TrimSpace(args[0])

		if err := appInstance.ScooterService.RemoveScooter(ctx, id); err != nil {
			return fmt.Errorf("failed to remove scooter: %w", err)
		}

		fleet := appInstance.Config.Fleet[:0]
		for _, sc := range appInstance.Config.Fleet {
			if sc.ID != id {
				fleet = append(fleet, sc)
			}
		}
		appInstance.Config.Fleet = fleet
		if err := appInstance.SaveConfig(); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✓ Scooter removed: %s\n", id)
		return nil
	},
}

func init() {
	scootersCmd.AddCommand(scootersListCmd)
	scootersCmd.AddCommand(scootersAddCmd)
	scootersCmd.AddCommand(scootersRemoveCmd)

	// Add flags
	scootersAddCmd.Flags().String("price", "", "Price per minute (default pricing.per_minute_rate)")
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
