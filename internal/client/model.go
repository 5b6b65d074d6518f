package client

import (
	"time"

	"github.com/google/uuid"
)

// Client represents a row in the clients table.
type Client struct {
	ID           uuid.UUID
	BusinessName string
	ContactName  string
	Email        string
	Phone        string
	Industry     string
	Status       string // "active", "paused" or "ended"
	MonthlyFee   float64
	StartedAt    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TeamMember is a user assigned to work a client.
type TeamMember struct {
	UserID     uuid.UUID
	UserName   string
	Role       string
	AssignedAt time.Time
}
