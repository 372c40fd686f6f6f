package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Price a rental span",
	Long: `Price a rental from --from to --to with the configured tariff.

Examples:
  scootrent quote --from "2023-11-10 23:58" --to "2023-11-12 00:02"
  scootrent quote --from 2020-01-01 --to 2023-01-01`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fromStr, _ := cmd.Flags().GetString("from")
		toStr, _ := cmd.Flags().GetString("to")

		from, err := parseTimestamp(fromStr)
		if err != nil {
			return err
		}
		to, err := parseTimestamp(toStr)
		if err != nil {
			return err
		}

		price, err := appInstance.Calculator.CalculateRentalPrice(from, to)
		if err != nil {
			return fmt.Errorf("failed to price rental: %w", err)
		}

		rates := appInstance.Calculator.Rates()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "From:   %s\n", from)
		fmt.Fprintf(out, "To:     %s\n", to)
		fmt.Fprintf(out, "Tariff: %s/min, capped at %s per day\n", rates.PerMinute, rates.DailyCap)
		fmt.Fprintf(out, "Price:  %s\n", price.StringFixed(2))
		return nil
	},
}

func init() {
	quoteCmd.Flags().String("from", "", "Rental start (required)")
	quoteCmd.Flags().String("to", "", "Rental end (required)")
	quoteCmd.MarkFlagRequired("from")
	quoteCmd.MarkFlagRequired("to")
}
