package cmd

import (
	"errors"
	"fmt"

	"github.com/agiulucom42-del/synthetic-scout/internal/testing/report"
	"github.com/agiulucom42-del/synthetic-scout/pkg/interactive"
	"github.com/spf13/cobra"
)

var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Launch the interactive menu",
	Long:  `Presents a menu to run tests by tag, list tests or show the configuration.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), "synthetic-scout - Interactive Mode")
		fmt.Fprintln(cmd.OutOrStdout(), "==================================")

		for {
			options := []interactive.MenuOption{
				{
					Name:        "Run tests",
					Description: "Pick tags and run the matching tests",
					Action: func() error {
						runOpts := opts
						runOpts.interactive = true
						runOpts.format = report.FormatAll

						reportMenuError(cmd, run(cmd.Context(), runOpts, cmd.OutOrStdout(), cmd.ErrOrStderr()))
						interactive.PauseForEnter()

						return nil
					},
				},
				{
					Name:        "List tests",
					Description: "Show registered tests and their tags",
					Action: func() error {
						listOpts := opts
						listOpts.list = true

						reportMenuError(cmd, run(cmd.Context(), listOpts, cmd.OutOrStdout(), cmd.ErrOrStderr()))
						interactive.PauseForEnter()

						return nil
					},
				},
				{
					Name:        "Show config",
					Description: "Display current environment configuration",
					Action: func() error {
						reportMenuError(cmd, showConfigCmd.RunE(cmd, nil))
						interactive.PauseForEnter()

						return nil
					},
				},
			}

			if err := interactive.ShowMainMenu(options); err != nil {
				if errors.Is(err, interactive.ErrExit) {
					fmt.Fprintln(cmd.OutOrStdout(), "Goodbye!")

					return nil
				}

				return err
			}

			fmt.Fprintln(cmd.OutOrStdout())
		}
	},
}

func init() {
	rootCmd.AddCommand(interactiveCmd)
}

// reportMenuError prints err unless it only signals failed tests or an
// interrupted prompt.
func reportMenuError(cmd *cobra.Command, err error) {
	if err == nil || errors.Is(err, errTestsFailed) || errors.Is(err, interactive.ErrExit) {
		return
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "\n❌ Error: %v\n", err)
}
