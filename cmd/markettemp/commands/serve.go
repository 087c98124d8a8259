package commands

import (
	"fmt"

	"MarketTemp/internal/di"

	"github.com/spf13/cobra"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start the REST API server.

Endpoints:
  GET  /api/market-data   - live snapshot (apiKey query or x-api-key header)
  POST /api/calculate     - recommendation for given inputs
  GET  /api/config        - thresholds and allocation matrix
  GET  /api/health        - liveness
  GET  /metrics           - Prometheus metrics (when enabled)`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntVar(&servePort, "port", 0, "override the configured port")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if servePort > 0 {
		cfg.Server.Port = servePort
	}

	app, cleanup, err := di.InitializeApp(cfg)
	if err != nil {
		return fmt.Errorf("app initialization failed: %w", err)
	}
	defer cleanup()

	return app.Run(cmd.Context())
}
