package lead

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const leadColumns = `id, business_name, name, email, phone, government, budget,
	has_website, message, status, assigned_to, created_at, updated_at`

// PostgresRepository implements Repository using pgxpool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new Repository backed by the given connection pool.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &PostgresRepository{pool: pool}
}

// CreateAssigned inserts a new lead assigned to the next sales agent in
// rotation. The rotation cursor row is locked FOR UPDATE, so concurrent
// submissions serialize on it and the round-robin order holds even under
// concurrent writes. Cursor update and lead insert commit together.
func (r *PostgresRepository) CreateAssigned(ctx context.Context, fields Fields) (*Lead, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var last *uuid.UUID
	err = tx.QueryRow(ctx, `SELECT last_agent_id FROM lead_rotation WHERE id = 1 FOR UPDATE`).Scan(&last)
	if err != nil {
		return nil, fmt.Errorf("locking rotation cursor: %w", err)
	}

	agents, err := activeSalesAgents(ctx, tx)
	if err != nil {
		return nil, err
	}

	agent, err := NextAgent(agents, last)
	if err != nil {
		return nil, err
	}

	id := uuid.New()
	if fields.ID != nil {
		id = *fields.ID
	}

	query := `
		INSERT INTO leads (id, business_name, name, email, phone, government,
			budget, has_website, message, assigned_to)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + leadColumns

	var l Lead
	err = tx.QueryRow(ctx, query,
		id,
		fields.BusinessName,
		fields.Name,
		fields.Email,
		fields.Phone,
		fields.Government,
		fields.Budget,
		fields.HasWebsite,
		fields.Message,
		agent,
	).Scan(
		&l.ID, &l.BusinessName, &l.Name, &l.Email, &l.Phone, &l.Government,
		&l.Budget, &l.HasWebsite, &l.Message, &l.Status, &l.AssignedTo,
		&l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicateLeadID
		}
		return nil, fmt.Errorf("inserting lead: %w", err)
	}

	_, err = tx.Exec(ctx, `UPDATE lead_rotation SET last_agent_id = $1 WHERE id = 1`, agent)
	if err != nil {
		return nil, fmt.Errorf("advancing rotation cursor: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing lead: %w", err)
	}

	return &l, nil
}

// activeSalesAgents returns the rotation roster: non-revoked sales users in
// creation order, ties broken by id for a stable ordering.
func activeSalesAgents(ctx context.Context, tx pgx.Tx) ([]uuid.UUID, error) {
	rows, err := tx.Query(ctx, `
		SELECT id FROM users
		WHERE role = 'sales' AND revoked_at IS NULL
		ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying sales roster: %w", err)
	}
	defer rows.Close()

	var agents []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning agent id: %w", err)
		}
		agents = append(agents, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating agent rows: %w", err)
	}

	return agents, nil
}

// GetByID retrieves a single lead by its UUID.
func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE id = $1`

	var l Lead
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&l.ID, &l.BusinessName, &l.Name, &l.Email, &l.Phone, &l.Government,
		&l.Budget, &l.HasWebsite, &l.Message, &l.Status, &l.AssignedTo,
		&l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("querying lead: %w", err)
	}

	return &l, nil
}

// List retrieves leads newest first, optionally filtered by assignee.
func (r *PostgresRepository) List(ctx context.Context, filter ListFilter) ([]Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads`
	var args []any
	if filter.AssignedTo != nil {
		query += ` WHERE assigned_to = $1`
		args = append(args, *filter.AssignedTo)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing leads: %w", err)
	}
	defer rows.Close()

	var leads []Lead
	for rows.Next() {
		var l Lead
		err := rows.Scan(
			&l.ID, &l.BusinessName, &l.Name, &l.Email, &l.Phone, &l.Government,
			&l.Budget, &l.HasWebsite, &l.Message, &l.Status, &l.AssignedTo,
			&l.CreatedAt, &l.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning lead row: %w", err)
		}
		leads = append(leads, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating lead rows: %w", err)
	}

	if leads == nil {
		leads = []Lead{}
	}

	return leads, nil
}

// UpdateStatus overwrites a lead's pipeline stage. The label must be a member
// of the known status set; transitions between members are unrestricted.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*Lead, error) {
	if !ValidStatus(status) {
		return nil, ErrUnknownStatus
	}

	query := `
		UPDATE leads
		SET status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + leadColumns

	var l Lead
	err := r.pool.QueryRow(ctx, query, id, status).Scan(
		&l.ID, &l.BusinessName, &l.Name, &l.Email, &l.Phone, &l.Government,
		&l.Budget, &l.HasWebsite, &l.Message, &l.Status, &l.AssignedTo,
		&l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("updating lead status: %w", err)
	}

	return &l, nil
}
