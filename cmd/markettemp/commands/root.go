package commands

import (
	"fmt"

	"MarketTemp/pkg/config"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile string
	logLevel   string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "markettemp",
	Short: "Index fund buy recommender",
	Long: `MarketTemp combines the fund price, its 52-week high, a volatility index
and a valuation ratio into a daily allocation recommendation.

Examples:
  markettemp serve
  markettemp snapshot --api-key $FINNHUB_API_KEY
  markettemp probe --sources yahoo,xueqiu
  markettemp calc --pe 32 --vix 20 --price 300 --high 350`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "config/config.yaml", "config file path (empty for defaults)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override the configured log level")
}

// loadConfig reads the config file, .env and environment, then applies global flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadWithEnv(configFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	return cfg, nil
}
