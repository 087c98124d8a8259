package commands

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"MarketTemp/internal/di"
	"MarketTemp/internal/domain/service"
	"MarketTemp/internal/service/finnhub"
	"MarketTemp/internal/usecase"
	xutil "MarketTemp/pkg/util"

	"github.com/spf13/cobra"
)

var (
	probeSources string
	probeAPIKey  string
	probeJSON    bool
)

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Check every data source",
	Long: `Fetch every metric each source supports and report the outcome and latency.
Rate limits still apply, so slow providers are spaced out.

Example:
  markettemp probe
  markettemp probe --sources yahoo,xueqiu --json`,
	RunE: runProbe,
}

func init() {
	rootCmd.AddCommand(probeCmd)
	probeCmd.Flags().StringVar(&probeSources, "sources", "", "comma separated source names (default all)")
	probeCmd.Flags().StringVar(&probeAPIKey, "api-key", "", "Finnhub API key (defaults to the configured key)")
	probeCmd.Flags().BoolVar(&probeJSON, "json", false, "print JSON instead of a table")
}

func runProbe(cmd *cobra.Command, _ []string) error {
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

	overrides := map[string]service.MetricSource{finnhub.Name: svc.Prices.ForKey(probeAPIKey)}
	results, err := usecase.Probe(ctx, svc.Registry, xutil.SplitList(probeSources), overrides)
	if err != nil {
		return err
	}

	if probeJSON {
		return printJSON(cmd.OutOrStdout(), results)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SOURCE\tMETRIC\tOUTCOME\tVALUE\tELAPSED\tREASON")
	for _, r := range results {
		value := "-"
		if r.Value != nil {
			value = fmt.Sprintf("%.2f", *r.Value)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", r.Source, r.Metric, r.Outcome, value, r.Elapsed.Round(time.Millisecond), r.Reason)
	}
	return w.Flush()
}
