package client

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrClientNotFound is returned when a client record is not found.
var ErrClientNotFound = errors.New("client not found")

// ErrDuplicateBusinessName is returned when a client with the same business name already exists.
var ErrDuplicateBusinessName = errors.New("client business name already exists")

// ErrUnknownTeamMember is returned when a team assignment references a user
// that does not exist.
var ErrUnknownTeamMember = errors.New("team member user not found")

// UpdateFields carries the mutable client fields for a partial update.
// Nil pointers leave the current value untouched.
type UpdateFields struct {
	ContactName *string
	Email       *string
	Phone       *string
	Industry    *string
	Status      *string
	MonthlyFee  *float64
}

// Repository provides operations on the clients and client_team tables.
type Repository interface {
	Create(ctx context.Context, c *Client) error
	GetByID(ctx context.Context, id uuid.UUID) (*Client, error)
	List(ctx context.Context) ([]Client, error)
	Update(ctx context.Context, id uuid.UUID, fields UpdateFields) (*Client, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SetTeam(ctx context.Context, clientID uuid.UUID, userIDs []uuid.UUID) error
	GetTeam(ctx context.Context, clientID uuid.UUID) ([]TeamMember, error)
}
