package pickup

import "time"

type DriveType string

const (
	DriveSinglePickup   DriveType = "single_pickup"
	DriveCommunityDrive DriveType = "community_drive"
)

func (d DriveType) Valid() bool {
	return d == DriveSinglePickup || d == DriveCommunityDrive
}

type Pickup struct {
	ID         string    `db:"id"          json:"id"`
	Name       string    `db:"name"        json:"name"`
	Email      string    `db:"email"       json:"email"`
	Phone      string    `db:"phone"       json:"phone"`
	Address    string    `db:"address"     json:"address"`
	WasteType  string    `db:"waste_type"  json:"waste_type"`
	DriveType  DriveType `db:"drive_type"  json:"drive_type"`
	PickupDate time.Time `db:"pickup_date" json:"pickup_date"`
	PickupTime string    `db:"pickup_time" json:"pickup_time"`
	CreatedAt  time.Time `db:"created_at"  json:"created_at"`
}

type CreatePickupRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	WasteType  string `json:"waste_type"`
	DriveType  string `json:"drive_type"`
	PickupDate string `json:"pickup_date"` // YYYY-MM-DD
	PickupTime string `json:"pickup_time"` // HH:MM
}
