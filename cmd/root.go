// Package cmd contains CLI command definitions
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/agiulucom42-del/synthetic-scout/internal/testing/report"
	"github.com/spf13/cobra"
)

// Exit codes returned by Execute.
const (
	ExitOK     = 0
	ExitFailed = 1
	ExitUsage  = 2
)

var (
	opts runOptions

	rootCmd = &cobra.Command{
		Use:   "synthetic-scout",
		Short: "synthetic-scout - integration checks for APIs and infrastructure",
		Long: `synthetic-scout runs tagged integration checks against a target environment
(HTTP APIs, TLS endpoints, databases) and writes JSON, JUnit and HTML reports.

Run without a subcommand to execute the selected tests. The summary is printed
as JSON on stdout and the exit code is 1 when any test failed or errored.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
)

// Execute runs the root command and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)

	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, errTestsFailed):
		return ExitFailed
	case errors.Is(err, errUsage):
		fmt.Fprintln(os.Stderr, "Error:", err)
		fmt.Fprintln(os.Stderr, rootCmd.UsageString())

		return ExitUsage
	default:
		fmt.Fprintln(os.Stderr, "Error:", err)

		return ExitFailed
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&opts.envFile, "env", "", "Env file to load (defaults to ./.env when present)")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Debug logging and per-test output")

	rootCmd.Flags().BoolVar(&opts.list, "list", false, "List registered tests as JSON and exit")
	rootCmd.Flags().StringArrayVar(&opts.tags, "tag", nil, "Run tests carrying this tag (repeatable, OR semantics)")
	rootCmd.Flags().StringArrayVar(&opts.excludeTags, "exclude-tag", nil, "Skip tests carrying this tag (repeatable, wins over --tag)")
	rootCmd.Flags().StringVar(&opts.format, "format", report.FormatAll, "Report format: json, junit, html or all")
	rootCmd.Flags().IntVar(&opts.maxWorkers, "max-workers", 0, "Concurrent tests (defaults to MAX_WORKERS)")
	rootCmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "Pick tags from a prompt")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", errUsage, err)
	})
}
