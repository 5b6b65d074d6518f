package payment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrPaymentNotFound is returned when a payment record is not found.
var ErrPaymentNotFound = errors.New("payment not found")

// ErrUnknownClient is returned when a payment references a client that does not exist.
var ErrUnknownClient = errors.New("client not found")

// UpdateFields carries the mutable payment fields for a partial update.
type UpdateFields struct {
	Amount *float64
	Method *string
	Status *string
	PaidAt *time.Time
	Notes  *string
}

// Repository provides operations on the payments table.
type Repository interface {
	Create(ctx context.Context, p *Payment) error
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]Payment, error)
	Update(ctx context.Context, id uuid.UUID, fields UpdateFields) (*Payment, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
