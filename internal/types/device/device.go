package device

type Device struct {
	ID        string `db:"id"         json:"id"`
	ModelName string `db:"model_name" json:"model_name"`
	// Approx. grams of recoverable metal
	MetalValue float64 `db:"metal_value" json:"metal_value"`
}

type CreateDeviceRequest struct {
	ModelName  string  `json:"model_name"`
	MetalValue float64 `json:"metal_value"`
}
