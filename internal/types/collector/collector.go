package collector

import "time"

// Collector is an informal e-waste collector listed in the directory.
type Collector struct {
	Name     string `json:"name"`
	City     string `json:"city"`
	Phone    string `json:"phone"`
	Verified bool   `json:"verified"`
}

type Nomination struct {
	ID        string    `db:"id"         json:"id"`
	Name      string    `db:"name"       json:"name"`
	City      string    `db:"city"       json:"city"`
	Phone     string    `db:"phone"      json:"phone"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type NominateRequest struct {
	Name  string `json:"nominee_name"`
	City  string `json:"nominee_city"`
	Phone string `json:"nominee_phone"`
}

type DirectoryResponse struct {
	Collectors []Collector `json:"collectors"`
	Cities     []string    `json:"cities"`
	Insight    string      `json:"insight,omitempty"`
}
