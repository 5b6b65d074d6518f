package analytics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository implements Repository using pgxpool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new Repository backed by the given connection pool.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &PostgresRepository{pool: pool}
}

// Upsert inserts or overwrites the metrics row for (client, day, platform).
func (r *PostgresRepository) Upsert(ctx context.Context, m *DailyMetrics) error {
	query := `
		INSERT INTO daily_analytics (client_id, day, platform, views, likes, comments, shares, followers)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (client_id, day, platform) DO UPDATE SET
			views = EXCLUDED.views,
			likes = EXCLUDED.likes,
			comments = EXCLUDED.comments,
			shares = EXCLUDED.shares,
			followers = EXCLUDED.followers
		RETURNING id, created_at`

	err := r.pool.QueryRow(ctx, query,
		m.ClientID, m.Day, m.Platform,
		m.Views, m.Likes, m.Comments, m.Shares, m.Followers,
	).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return ErrUnknownClient
		}
		return fmt.Errorf("upserting daily metrics: %w", err)
	}

	return nil
}

// ListByClient retrieves raw metric rows for a client in [from, to], oldest first.
func (r *PostgresRepository) ListByClient(ctx context.Context, clientID uuid.UUID, from, to time.Time) ([]DailyMetrics, error) {
	query := `
		SELECT id, client_id, day, platform, views, likes, comments, shares, followers, created_at
		FROM daily_analytics
		WHERE client_id = $1 AND day BETWEEN $2 AND $3
		ORDER BY day ASC, platform ASC`

	rows, err := r.pool.Query(ctx, query, clientID, from, to)
	if err != nil {
		return nil, fmt.Errorf("listing daily metrics: %w", err)
	}
	defer rows.Close()

	metrics := []DailyMetrics{}
	for rows.Next() {
		var m DailyMetrics
		err := rows.Scan(&m.ID, &m.ClientID, &m.Day, &m.Platform,
			&m.Views, &m.Likes, &m.Comments, &m.Shares, &m.Followers, &m.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning metrics row: %w", err)
		}
		metrics = append(metrics, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating metrics rows: %w", err)
	}

	return metrics, nil
}

// Summarize aggregates per-platform totals for a client in [from, to].
// Followers comes from the most recent day in range, not a sum.
func (r *PostgresRepository) Summarize(ctx context.Context, clientID uuid.UUID, from, to time.Time) (*Summary, error) {
	query := `
		SELECT platform,
		       SUM(views), SUM(likes), SUM(comments), SUM(shares),
		       (ARRAY_AGG(followers ORDER BY day DESC))[1]
		FROM daily_analytics
		WHERE client_id = $1 AND day BETWEEN $2 AND $3
		GROUP BY platform
		ORDER BY platform ASC`

	rows, err := r.pool.Query(ctx, query, clientID, from, to)
	if err != nil {
		return nil, fmt.Errorf("summarizing metrics: %w", err)
	}
	defer rows.Close()

	summary := &Summary{
		ClientID:  clientID,
		From:      from.Format("2006-01-02"),
		To:        to.Format("2006-01-02"),
		Platforms: []PlatformTotals{},
	}

	for rows.Next() {
		var t PlatformTotals
		err := rows.Scan(&t.Platform, &t.Views, &t.Likes, &t.Comments, &t.Shares, &t.Followers)
		if err != nil {
			return nil, fmt.Errorf("scanning summary row: %w", err)
		}
		summary.Platforms = append(summary.Platforms, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating summary rows: %w", err)
	}

	return summary, nil
}
