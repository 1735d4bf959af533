package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var showConfigCmd = &cobra.Command{
	Use:   "show-config",
	Short: "Display current environment configuration",
	Long:  `Shows the configuration loaded from environment variables and the env file. Secrets are masked.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, cfg, err := loadConfig(opts.envFile, opts.verbose, cmd.ErrOrStderr())
		if err != nil {
			return fmt.Errorf("failed to show config: %w", err)
		}

		_, err = fmt.Fprintln(cmd.OutOrStdout(), cfg.String())

		return err
	},
}

func init() {
	rootCmd.AddCommand(showConfigCmd)
}
