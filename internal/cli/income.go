package cli

import (
	"fmt"
	"time"

	"github.com/andy/scootrent/internal/repository"
	"github.com/spf13/cobra"
)

var incomeCmd = &cobra.Command{
	Use:   "income",
	Short: "Report income from a rental records file",
	Long: `Sum the income of the rentals in a records file, such as one exported
from the TUI rentals screen.

Completed rentals are filtered by the year they ended in. With
--include-open, every open rental is priced as if it ended at --now (default
the current time) and added regardless of --year.

Examples:
  scootrent income --records records.yaml
  scootrent income --records records.yaml --year 2023 --by-month
  scootrent income --records records.yaml --include-open --now "2024-01-01 12:00"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("records")
		includeOpen, _ := cmd.Flags().GetBool("include-open")
		byMonth, _ := cmd.Flags().GetBool("by-month")

		records, err := repository.LoadRecordsFile(path)
		if err != nil {
			return fmt.Errorf("failed to load records: %w", err)
		}

		var year *int
		if cmd.Flags().Changed("year") {
			y, _ := cmd.Flags().GetInt("year")
			year = &y
		}
		if byMonth && year == nil {
			return fmt.Errorf("--by-month needs --year")
		}

		now := appInstance.Clock.Now()
		if cmd.Flags().Changed("now") {
			nowStr, _ := cmd.Flags().GetString("now")
			if now, err = parseTimestamp(nowStr); err != nil {
				return err
			}
		}

		total, err := appInstance.Aggregator.CalculateIncome(records, year, includeOpen, now)
		if err != nil {
			return fmt.Errorf("failed to calculate income: %w", err)
		}

		out := cmd.OutOrStdout()
		if byMonth {
			monthly, err := appInstance.Aggregator.IncomeByMonth(records, *year)
			if err != nil {
				return fmt.Errorf("failed to calculate monthly income: %w", err)
			}
			fmt.Fprintf(out, "%-10s %12s\n", "Month", "Income")
			fmt.Fprintln(out, "-----------------------")
			for m := time.January; m <= time.December; m++ {
				fmt.Fprintf(out, "%-10s %12s\n", m.String()[:3], monthly[m].StringFixed(2))
			}
			fmt.Fprintln(out)
		}

		period := "all years"
		if year != nil {
			period = fmt.Sprintf("%d", *year)
		}
		fmt.Fprintf(out, "Records: %d\n", len(records))
		fmt.Fprintf(out, "Period:  %s\n", period)
		if includeOpen {
			fmt.Fprintf(out, "Open rentals priced up to %s\n", now)
		}
		fmt.Fprintf(out, "Income:  %s\n", total.StringFixed(2))
		return nil
	},
}

func init() {
	incomeCmd.Flags().String("records", "", "Rental records YAML file (required)")
	incomeCmd.MarkFlagRequired("records")
	incomeCmd.Flags().Int("year", 0, "Only count rentals that ended in this year")
	incomeCmd.Flags().Bool("include-open", false, "Add open rentals priced up to --now")
	incomeCmd.Flags().String("now", "", "Pricing time for open rentals (default current time)")
	incomeCmd.Flags().Bool("by-month", false, "Print a monthly breakdown of completed rentals (needs --year)")
}
