package analytics

import (
	"time"

	"github.com/google/uuid"
)

// DailyMetrics represents a row in the daily_analytics table: one day of
// platform metrics for a client. Rows are upserted keyed on
// (client, day, platform).
type DailyMetrics struct {
	ID        uuid.UUID
	ClientID  uuid.UUID
	Day       time.Time
	Platform  string
	Views     int64
	Likes     int64
	Comments  int64
	Shares    int64
	Followers int64
	CreatedAt time.Time
}

// PlatformTotals aggregates one platform's metrics over a date range.
// Followers is the latest recorded value, not a sum.
type PlatformTotals struct {
	Platform  string `json:"platform"`
	Views     int64  `json:"views"`
	Likes     int64  `json:"likes"`
	Comments  int64  `json:"comments"`
	Shares    int64  `json:"shares"`
	Followers int64  `json:"followers"`
}

// Summary is the aggregated analytics for a client over a date range.
type Summary struct {
	ClientID  uuid.UUID        `json:"clientId"`
	From      string           `json:"from"`
	To        string           `json:"to"`
	Platforms []PlatformTotals `json:"platforms"`
}
