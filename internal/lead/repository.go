package lead

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrLeadNotFound is returned when a lead record is not found.
var ErrLeadNotFound = errors.New("lead not found")

// ErrDuplicateLeadID is returned when a caller-supplied lead id already exists.
var ErrDuplicateLeadID = errors.New("lead id already exists")

// ErrUnknownStatus is returned when a status update names a label outside the
// pipeline stage set.
var ErrUnknownStatus = errors.New("unknown lead status")

// ListFilter narrows a lead listing. A nil AssignedTo means all leads.
type ListFilter struct {
	AssignedTo *uuid.UUID
}

// Repository provides operations on the leads table. CreateAssigned is the
// assignment engine: it selects the next sales agent in rotation and persists
// the lead with that assignment in one transaction.
type Repository interface {
	CreateAssigned(ctx context.Context, fields Fields) (*Lead, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Lead, error)
	List(ctx context.Context, filter ListFilter) ([]Lead, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*Lead, error)
}
