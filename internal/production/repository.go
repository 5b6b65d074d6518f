package production

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a production record is not found.
var ErrNotFound = errors.New("production record not found")

// ErrUnknownClient is returned when a record references a client that does not exist.
var ErrUnknownClient = errors.New("client not found")

// ScriptUpdate carries the mutable script fields for a partial update.
type ScriptUpdate struct {
	Title   *string
	Content *string
	Status  *string
	DueDate *time.Time
}

// ShootUpdate carries the mutable shoot fields for a partial update.
type ShootUpdate struct {
	Location    *string
	ScheduledAt *time.Time
	Status      *string
}

// EditUpdate carries the mutable edit fields for a partial update.
type EditUpdate struct {
	EditorID    *uuid.UUID
	Status      *string
	DueDate     *time.Time
	DeliveredAt *time.Time
}

// Repository provides operations on the scripts, shoots, edits and publishes tables.
type Repository interface {
	CreateScript(ctx context.Context, s *Script) error
	ListScripts(ctx context.Context, clientID uuid.UUID) ([]Script, error)
	UpdateScript(ctx context.Context, id uuid.UUID, fields ScriptUpdate) (*Script, error)
	DeleteScript(ctx context.Context, id uuid.UUID) error

	CreateShoot(ctx context.Context, s *Shoot) error
	ListShoots(ctx context.Context, clientID uuid.UUID) ([]Shoot, error)
	UpdateShoot(ctx context.Context, id uuid.UUID, fields ShootUpdate) (*Shoot, error)
	DeleteShoot(ctx context.Context, id uuid.UUID) error

	CreateEdit(ctx context.Context, e *Edit) error
	ListEdits(ctx context.Context, clientID uuid.UUID) ([]Edit, error)
	UpdateEdit(ctx context.Context, id uuid.UUID, fields EditUpdate) (*Edit, error)
	DeleteEdit(ctx context.Context, id uuid.UUID) error

	CreatePublish(ctx context.Context, p *Publish) error
	ListPublishes(ctx context.Context, clientID uuid.UUID) ([]Publish, error)
	DeletePublish(ctx context.Context, id uuid.UUID) error
}
