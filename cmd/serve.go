package cmd

import (
	"github.com/agiulucom42-del/synthetic-scout/internal/dashboard"
	"github.com/spf13/cobra"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the results dashboard",
	Long: `Serves a read-only dashboard over the latest reports/summary.json.

Routes:
  GET /             HTML report, or a placeholder before the first run
  GET /api/summary  summary JSON (404 before the first run)
  GET /healthz      liveness`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		log, cfg, err := loadConfig(opts.envFile, opts.verbose, cmd.ErrOrStderr())
		if err != nil {
			return err
		}

		return dashboard.New(log, cfg.ReportsDir).ListenAndServe(cmd.Context(), serveAddr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8000", "Listen address")
	rootCmd.AddCommand(serveCmd)
}
