package lead

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNoteNotFound is returned when a note record is not found.
var ErrNoteNotFound = errors.New("note not found")

// Note represents a row in the lead_notes table: a free-text annotation tied
// to one lead and the user who wrote it.
type Note struct {
	ID        uuid.UUID
	LeadID    uuid.UUID
	AuthorID  uuid.UUID
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NoteRepository provides operations on the lead_notes table.
type NoteRepository interface {
	Create(ctx context.Context, n *Note) error
	GetByID(ctx context.Context, id uuid.UUID) (*Note, error)
	ListByLead(ctx context.Context, leadID uuid.UUID) ([]Note, error)
	Update(ctx context.Context, id uuid.UUID, content string) (*Note, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
