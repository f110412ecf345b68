package entities

import (
	"github.com/google/uuid"
	"time"
)

// MeatRecord is one scanned item tracked in the user's storage. The verdict
// columns are always written together; a refinement replaces them wholesale.
type MeatRecord struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID         uuid.UUID `json:"user_id"`
	MeatType       string    `json:"meat_type"`
	FreshnessScore int       `json:"freshness_score"`
	FreshnessLevel int       `json:"freshness_level"`
	SafetyStatus   string    `json:"safety_status"`
	Observations   string    `json:"observations,omitempty" gorm:"type:text"` // JSON array of cues
	Summary        string    `json:"summary,omitempty" gorm:"type:text"`
	ImageURL       string    `json:"image_url,omitempty"`
	ScanTime       time.Time `json:"scan_time"` // expiry clock anchor, never moves on refinement
	Deadline       time.Time `json:"deadline"`
	Environment    string    `json:"environment"`
	Container      string    `json:"container"`
	Status         string    `json:"status"` // "storing", "cooked", "discarded", "expired"

	User *User `gorm:"foreignKey:UserID"`
	Timestamp
}
