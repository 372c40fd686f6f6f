package cli

import (
	"errors"

	"github.com/andy/scootrent/internal/tui"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the terminal UI",
	Long:  `Launch the interactive terminal user interface for scootrent.`,
	RunE:  launchTUI,
}

func launchTUI(cmd *cobra.Command, args []string) error {
	if appInstance == nil {
		return errors.New("app is not initialized")
	}
	return tui.Run(appInstance)
}
