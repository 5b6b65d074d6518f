package production

import (
	"time"

	"github.com/google/uuid"
)

// Script is a piece of written content for a client, moving from draft to
// approved before filming.
type Script struct {
	ID        uuid.UUID
	ClientID  uuid.UUID
	Title     string
	Content   string
	Status    string // "draft", "review" or "approved"
	DueDate   *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Shoot is a scheduled filming session, optionally tied to a script.
type Shoot struct {
	ID          uuid.UUID
	ClientID    uuid.UUID
	ScriptID    *uuid.UUID
	Location    string
	ScheduledAt *time.Time
	Status      string // "scheduled", "done" or "cancelled"
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Edit is a post-production job, optionally tied to a shoot and an editor.
type Edit struct {
	ID          uuid.UUID
	ClientID    uuid.UUID
	ShootID     *uuid.UUID
	EditorID    *uuid.UUID
	Status      string // "in_progress", "review" or "delivered"
	DueDate     *time.Time
	DeliveredAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Publish is a released deliverable on a platform.
type Publish struct {
	ID          uuid.UUID
	ClientID    uuid.UUID
	EditID      *uuid.UUID
	Platform    string
	URL         string
	PublishedAt time.Time
	CreatedAt   time.Time
}
