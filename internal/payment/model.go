package payment

import (
	"time"

	"github.com/google/uuid"
)

// Payment represents a row in the payments table.
type Payment struct {
	ID        uuid.UUID
	ClientID  uuid.UUID
	Amount    float64
	Method    string // e.g. "bank_transfer", "cash", "card"
	Status    string // "pending", "paid" or "overdue"
	PaidAt    *time.Time
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
