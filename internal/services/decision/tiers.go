package decision

import "MarketTemp/internal/domain/models"

// Drawdown returns the percentage drop of price below high. A missing or zero high yields 0;
// a price above the high yields a negative drawdown.
func Drawdown(price, high float64) float64 {
	if high == 0 {
		return 0
	}
	return (high - price) * 100 / high
}

// ValuationTier maps a valuation ratio to 0 (bubble) .. 3 (cheap). Boundaries resolve to the cheaper tier.
func ValuationTier(ratio float64, t models.ValuationThresholds) int {
	switch {
	case ratio <= t.Reasonable:
		return 3
	case ratio <= t.Expensive:
		return 2
	case ratio <= t.Bubble:
		return 1
	default:
		return 0
	}
}

// VolatilityTier maps a volatility index to 0 (greed) .. 3 (extreme fear). Boundaries resolve to the more fearful tier.
func VolatilityTier(vix float64, t models.VolatilityThresholds) int {
	switch {
	case vix >= t.Fear:
		return 3
	case vix >= t.Calm:
		return 2
	case vix >= t.Greed:
		return 1
	default:
		return 0
	}
}

// DrawdownTier maps a drawdown percent to 0 (near the high) .. 3 (super discount).
// Comparisons are strict: a drawdown equal to a threshold stays in the shallower tier.
func DrawdownTier(drawdown float64, t models.DrawdownThresholds) int {
	switch {
	case drawdown > t.Super:
		return 3
	case drawdown > t.High:
		return 2
	case drawdown > t.Medium:
		return 1
	default:
		return 0
	}
}

var (
	valuationLabels  = [models.TierCount]string{"Bubble", "Expensive", "Fair", "Undervalued"}
	volatilityLabels = [models.TierCount]string{"Greed", "Calm", "Fear", "Extreme fear"}
	drawdownLabels   = [models.TierCount]string{"Near high", "Small pullback", "Discount", "Super discount"}
)

func labels(valuation, volatility, drawdown int) models.Labels {
	return models.Labels{
		Valuation:  models.Label{Text: valuationLabels[valuation], Level: valuation},
		Volatility: models.Label{Text: volatilityLabels[volatility], Level: volatility},
		Drawdown:   models.Label{Text: drawdownLabels[drawdown], Level: drawdown},
	}
}
