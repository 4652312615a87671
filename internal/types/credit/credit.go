package credit

type UserCredit struct {
	UserID string `db:"user_id" json:"user_id"`
	Points int    `db:"points"  json:"points"`
}

type EstimateRequest struct {
	DeviceModel string `json:"device_model"`
}

// EstimateResult echoes the matched device and the points it is worth.
// Saved is false for anonymous visitors: the points are shown but not
// persisted, mirroring "login to save your points".
type EstimateResult struct {
	ModelName     string `json:"model_name"`
	MetalValue    float64 `json:"metal_value"`
	PointsAwarded int    `json:"points_awarded"`
	Saved         bool   `json:"saved"`
	Balance       *int   `json:"balance,omitempty"`
}
