package commands

import (
	"context"
	"fmt"

	"MarketTemp/internal/di"
	"MarketTemp/internal/domain/models"

	"github.com/spf13/cobra"
)

var snapshotAPIKey string

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Fetch one market snapshot and print the recommendation",
	Long: `Run the four provider chains once, print the snapshot with its provenance
and, when every input is available, the resulting recommendation.`,
	RunE: runSnapshot,
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
	snapshotCmd.Flags().StringVar(&snapshotAPIKey, "api-key", "", "Finnhub API key (defaults to the configured key)")
}

type snapshotOutput struct {
	Snapshot       *models.MarketSnapshot `json:"snapshot"`
	Recommendation *models.Recommendation `json:"recommendation,omitempty"`
	Missing        []string               `json:"missing,omitempty"`
}

func runSnapshot(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	svc, cleanup, err := di.InitializeServices(cfg)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}
	defer cleanup()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	snap, err := svc.Aggregator.GetSnapshot(ctx, svc.Prices.ForKey(snapshotAPIKey))
	if err != nil {
		return err
	}

	out := snapshotOutput{Snapshot: snap, Missing: snap.Missing()}
	if snap.Complete() {
		rec, err := svc.Engine.EvaluateSnapshot(snap)
		if err != nil {
			return err
		}
		out.Recommendation = &rec
	}
	return printJSON(cmd.OutOrStdout(), out)
}
