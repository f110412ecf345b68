package entities

import (
	"github.com/google/uuid"
)

type Transaction struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID   uuid.UUID `json:"user_id"`
	OrderID  string    `gorm:"uniqueIndex" json:"order_id"`
	Amount   int64     `json:"amount"`
	Plan     string    `json:"plan"`   // "premium_monthly", "premium_yearly"
	Status   string    `json:"status"` // "pending", "paid", "challenge", "failed"
	SnapURL  string    `json:"snap_url,omitempty"`
	Currency string    `json:"currency"`

	User *User `gorm:"foreignKey:UserID"`
	Timestamp
}
