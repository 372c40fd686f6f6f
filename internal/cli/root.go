package cli

import (
	"os"

	"github.com/andy/scootrent/internal/app"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var appInstance *app.App

var rootCmd = &cobra.Command{
	Use:   "scootrent",
	Short: "A scooter rental tracker with capped per-minute pricing",
	Long: `Scootrent tracks a scooter fleet, prices rentals per minute with a daily
cap, and reports company income.

By default, running scootrent without arguments in a terminal launches the
interactive TUI. Use subcommands for CLI operations.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: launch TUI when attached to a terminal
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			return cmd.Help()
		}
		return launchTUI(cmd, args)
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetApp sets the app instance for commands to use
func SetApp(a *app.App) {
	appInstance = a
}

// IsInteractive reports whether args will hand the terminal to the TUI
func IsInteractive(args []string) bool {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return false
	}
	return len(args) == 0 || args[0] == tuiCmd.Name()
}

func init() {
	// Add all subcommands
	rootCmd.AddCommand(quoteCmd)
	rootCmd.AddCommand(incomeCmd)
	rootCmd.AddCommand(scootersCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(tuiCmd)
}
