package challenge

import "time"

// Challenge is an admin-defined eco-action users can mark complete.
// Identity is immutable once created; is_active and display_order may
// change over its lifetime.
type Challenge struct {
	ID           int       `db:"id"            json:"db_id"`
	Title        string    `db:"title"         json:"title"`
	CO2Saved     float64   `db:"co2_saved"     json:"co2_saved"`
	IsActive     bool      `db:"is_active"     json:"is_active"`
	DisplayOrder int       `db:"display_order" json:"display_order"`
	CreatedAt    time.Time `db:"created_at"    json:"created_at"`
}

// Completion pairs a user with a challenge. At most one row exists per
// (user, challenge); rows are never updated or deleted in normal operation.
type Completion struct {
	ID          string    `db:"id"           json:"id"`
	UserID      string    `db:"user_id"      json:"user_id"`
	ChallengeID int       `db:"challenge_id" json:"challenge_id"`
	CompletedAt time.Time `db:"completed_at" json:"completed_at"`
}

// View is a challenge as shown on the board, with its session-stable
// "ch{id}" key and completion state for the requesting identity.
type View struct {
	Key       string  `json:"id"`
	DBID      int     `json:"db_id"`
	Title     string  `json:"title"`
	CO2Saved  float64 `json:"co2_saved"`
	Completed bool    `json:"completed"`
}

// Board is the full challenge page payload.
type Board struct {
	Challenges []View   `json:"challenges"`
	Completed  []string `json:"completed"`
	TotalCO2   float64  `json:"total_co2"`
	Progress   int      `json:"progress"`
	Badge      string   `json:"badge,omitempty"`
	BadgeName  string   `json:"badge_name,omitempty"`
}

type CompleteRequest struct {
	ChallengeID string `json:"challenge_id"` // "ch{id}" key
}

// MergeResult reports one reconciliation pass over an anonymous
// completion set.
type MergeResult struct {
	// MergedCount is the number of completion rows actually created.
	// Duplicates and dropped keys are excluded.
	MergedCount int
	// Retained holds keys whose write failed transiently. They stay in
	// the session so a later reconciliation can retry them.
	Retained []string
	// Dropped holds keys that can never become valid: unparsable, or
	// referencing a challenge that does not exist.
	Dropped []string
}
