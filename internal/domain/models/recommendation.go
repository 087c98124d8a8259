package models

// Label is a human-readable tier description. Level is the tier it describes.
type Label struct {
	Text  string `json:"text"`
	Level int    `json:"level"`
}

// Labels describe the three tiers of a recommendation.
type Labels struct {
	Valuation  Label `json:"pe"`
	Volatility Label `json:"vix"`
	Drawdown   Label `json:"drawdown"`
}

// Action is the recommended action text.
type Action struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
}

// DecisionInputs are the four numeric inputs of a decision.
type DecisionInputs struct {
	ValuationRatio  float64 `json:"pe"`
	VolatilityIndex float64 `json:"vix"`
	Price           float64 `json:"currentPrice"`
	High52Week      float64 `json:"high52Week"`
}

// Recommendation is the output of the decision engine.
type Recommendation struct {
	Inputs          DecisionInputs `json:"inputs"`
	DrawdownPercent float64        `json:"drawdownPercent"`
	ValuationTier   int            `json:"valuationTier"`
	VolatilityTier  int            `json:"volatilityTier"`
	DrawdownTier    int            `json:"drawdownTier"`
	DrawdownLevel   DrawdownLevel  `json:"drawdownLevel"`
	AllocationUnits float64        `json:"allocationUnits"`
	Labels          Labels         `json:"labels"`
	Action          Action         `json:"action"`
}
