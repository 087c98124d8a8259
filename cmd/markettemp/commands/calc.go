package commands

import (
	"fmt"

	"MarketTemp/internal/domain/models"
	"MarketTemp/internal/services/decision"

	"github.com/spf13/cobra"
)

var calcInputs models.DecisionInputs

var calcCmd = &cobra.Command{
	Use:   "calc",
	Short: "Compute a recommendation from manual inputs",
	Long: `Run the decision engine on the given inputs with the configured thresholds
and matrix. No provider is contacted.

Example:
  markettemp calc --pe 32 --vix 20 --price 300 --high 350`,
	RunE: runCalc,
}

func init() {
	rootCmd.AddCommand(calcCmd)
	calcCmd.Flags().Float64Var(&calcInputs.ValuationRatio, "pe", 0, "valuation ratio")
	calcCmd.Flags().Float64Var(&calcInputs.VolatilityIndex, "vix", 0, "volatility index")
	calcCmd.Flags().Float64Var(&calcInputs.Price, "price", 0, "current price")
	calcCmd.Flags().Float64Var(&calcInputs.High52Week, "high", 0, "52-week high")
	for _, name := range []string{"pe", "vix", "price", "high"} {
		_ = calcCmd.MarkFlagRequired(name)
	}
}

func runCalc(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	engine, err := decision.NewEngine(cfg.Calculation.ThresholdConfig, cfg.Calculation.DecisionMatrix())
	if err != nil {
		return fmt.Errorf("decision engine: %w", err)
	}
	return printJSON(cmd.OutOrStdout(), engine.Evaluate(calcInputs))
}
