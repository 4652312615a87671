package center

type RecyclingCenter struct {
	ID        string  `db:"id"        json:"id"`
	Name      string  `db:"name"      json:"name"`
	Address   string  `db:"address"   json:"address"`
	Latitude  float64 `db:"latitude"  json:"latitude"`
	Longitude float64 `db:"longitude" json:"longitude"`
}

type CreateCenterRequest struct {
	Name      string  `json:"name"`
	Address   string  `json:"address"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// NearbyCenter is a search hit from an external places provider.
type NearbyCenter struct {
	Name            string   `json:"name"`
	Address         string   `json:"address"`
	Latitude        float64  `json:"latitude"`
	Longitude       float64  `json:"longitude"`
	Source          string   `json:"source"`
	Types           []string `json:"types,omitempty"`
	Rating          float64  `json:"rating,omitempty"`
	UserRatingCount int      `json:"userRatingCount,omitempty"`
	Phone           string   `json:"phone,omitempty"`
	Website         string   `json:"website,omitempty"`
}

type NearbyResponse struct {
	Centers  []NearbyCenter `json:"centers"`
	Provider string         `json:"provider,omitempty"`
}
