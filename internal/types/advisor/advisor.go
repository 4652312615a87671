package advisor

// QuizOption is one of the four A-D choices of a quiz question.
type QuizOption struct {
	Label string `json:"label"`
	Text  string `json:"text"`
}

type QuizQuestion struct {
	Question string       `json:"q"`
	Options  []QuizOption `json:"options"`
	Answer   string       `json:"answer"`
}

type QuizScoreRequest struct {
	Questions []QuizQuestion    `json:"questions"`
	Answers   map[string]string `json:"answers"` // question index -> chosen label
}

type QuizScoreResponse struct {
	Score int `json:"score"`
	Total int `json:"total"`
}

// DecisionResult is the recycle-or-reuse verdict for a single item.
type DecisionResult struct {
	Decision string `json:"decision"` // "Recycle" or "Reuse"
	Reason   string `json:"reason"`
}

type ReuseRequest struct {
	Model     string  `json:"model"`
	Condition string  `json:"condition"`
	Age       string  `json:"age"`
	Lat       *float64 `json:"lat,omitempty"`
	Lng       *float64 `json:"lng,omitempty"`
}

type RepairShop struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Rating  string `json:"rating"`
}

type ReuseResult struct {
	Recommendation string       `json:"recommendation"` // Sell, Donate, Repair or Recycle
	Reasoning      string       `json:"reasoning"`
	Shops          []RepairShop `json:"shops,omitempty"`
	NeedsLocation  bool         `json:"needs_location"`
}

type ValueEstimateRequest struct {
	Model string  `json:"model"`
	Age   float64 `json:"age"`
}

// ValueEstimate breaks an urban-mining payout into recoverable metal
// grams, per-gram INR prices and an age-depreciated total.
type ValueEstimate struct {
	Model           string             `json:"model"`
	AgeYears        float64            `json:"age_years"`
	Metals          map[string]float64 `json:"metals"` // grams by metal
	Prices          map[string]float64 `json:"prices"` // INR per gram
	BaseValue       float64            `json:"base_value"`
	EstimatedPayout float64            `json:"estimated_payout"`
}
