package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/andy/scootrent/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or create the config file",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "# %s\n", appInstance.ConfigPath())

		data, err := yaml.Marshal(appInstance.Config)
		if err != nil {
			return err
		}
		_, err = out.Write(data)
		return err
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := appInstance.ConfigPath()
		force, _ := cmd.Flags().GetBool("force")

		if _, err := os.Stat(path); err == nil && !force {
			if !confirmPrompt(cmd.InOrStdin(), cmd.OutOrStdout(),
				fmt.Sprintf("%s already exists. Overwrite with defaults?", path)) {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
				return nil
			}
		}

		if err := config.DefaultConfig().Save(path); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✓ Config written to %s\n", path)
		return nil
	},
}

func confirmPrompt(in io.Reader, out io.Writer, message string) bool {
	fmt.Fprintf(out, "%s [y/N] ", message)
	reader := bufio.NewReader(in)
	input, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)

	configInitCmd.Flags().Bool("force", false, "Overwrite an existing config without asking")
}
