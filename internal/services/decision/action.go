package decision

import "MarketTemp/internal/domain/models"

// band is one row of the action table. Bands are checked in order; the first with min <= units wins.
type band struct {
	min      float64
	title    string
	discount string
	plain    string
}

var bands = []band{
	{15, "All in", "Rare opportunity, deep discount", "Once-in-a-decade setup, build a heavy position"},
	{10, "Strong buy", "Golden opportunity, drawdown boost", "Quality entry, allocate aggressively"},
	{5, "Active buy", "Good opportunity with a discount bonus", "Good value, step up purchases"},
	{2, "Steady buy", "Fair opportunity with a discount bonus", "Fair timing, keep averaging in"},
	{1, "Cautious buy", "Small probe, discount included", "Small probe, stay conservative"},
}

// action picks the recommendation text. It never changes the numbers.
func action(units float64, valuationTier, volatilityTier, drawdownTier int) models.Action {
	discounted := drawdownTier >= 2

	if units == 0 {
		switch {
		case valuationTier == 0 && volatilityTier == 0:
			return models.Action{Title: "Stay out", Subtitle: "Bubble valuation and greedy market, risk is extreme"}
		case valuationTier == 0:
			return models.Action{Title: "Wait", Subtitle: "Valuation too high, wait for a pullback"}
		case volatilityTier == 0:
			return models.Action{Title: "Wait", Subtitle: "Market is greedy, be patient"}
		default:
			return models.Action{Title: "Wait", Subtitle: "No edge at these levels, be patient"}
		}
	}

	for _, b := range bands {
		if units < b.min {
			continue
		}
		if b.min >= 15 && drawdownTier == 3 {
			return models.Action{Title: b.title, Subtitle: "Historic opportunity, super discount"}
		}
		if b.min == 1 && valuationTier == 0 && volatilityTier == 3 {
			if discounted {
				return models.Action{Title: "Bottom probe", Subtitle: "Extreme fear plus discount, test with a small amount"}
			}
			return models.Action{Title: "Bottom probe", Subtitle: "Extreme fear, probe carefully"}
		}
		if discounted {
			return models.Action{Title: b.title, Subtitle: b.discount}
		}
		return models.Action{Title: b.title, Subtitle: b.plain}
	}

	return models.Action{Title: "Light buy", Subtitle: "Small position, keep watching"}
}
