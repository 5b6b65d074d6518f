package analytics

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrUnknownClient is returned when metrics reference a client that does not exist.
var ErrUnknownClient = errors.New("client not found")

// Repository provides operations on the daily_analytics table.
type Repository interface {
	Upsert(ctx context.Context, m *DailyMetrics) error
	ListByClient(ctx context.Context, clientID uuid.UUID, from, to time.Time) ([]DailyMetrics, error)
	Summarize(ctx context.Context, clientID uuid.UUID, from, to time.Time) (*Summary, error)
}
