package client

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const clientColumns = `id, business_name, contact_name, email, phone, industry,
	status, monthly_fee, started_at, created_at, updated_at`

// PostgresRepository implements Repository using pgxpool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new Repository backed by the given connection pool.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &PostgresRepository{pool: pool}
}

func scanClient(row pgx.Row, c *Client) error {
	return row.Scan(
		&c.ID, &c.BusinessName, &c.ContactName, &c.Email, &c.Phone, &c.Industry,
		&c.Status, &c.MonthlyFee, &c.StartedAt, &c.CreatedAt, &c.UpdatedAt,
	)
}

// Create inserts a new client record.
func (r *PostgresRepository) Create(ctx context.Context, c *Client) error {
	if c.Status == "" {
		c.Status = "active"
	}

	query := `
		INSERT INTO clients (business_name, contact_name, email, phone, industry,
			status, monthly_fee, started_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		c.BusinessName, c.ContactName, c.Email, c.Phone, c.Industry,
		c.Status, c.MonthlyFee, c.StartedAt,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateBusinessName
		}
		return fmt.Errorf("inserting client: %w", err)
	}

	return nil
}

// GetByID retrieves a single client by its UUID.
func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE id = $1`

	var c Client
	if err := scanClient(r.pool.QueryRow(ctx, query, id), &c); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("querying client: %w", err)
	}

	return &c, nil
}

// List retrieves all clients ordered by creation time.
func (r *PostgresRepository) List(ctx context.Context) ([]Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing clients: %w", err)
	}
	defer rows.Close()

	var clients []Client
	for rows.Next() {
		var c Client
		if err := scanClient(rows, &c); err != nil {
			return nil, fmt.Errorf("scanning client row: %w", err)
		}
		clients = append(clients, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating client rows: %w", err)
	}

	if clients == nil {
		clients = []Client{}
	}

	return clients, nil
}

// Update applies the non-nil fields and returns the updated client.
func (r *PostgresRepository) Update(ctx context.Context, id uuid.UUID, fields UpdateFields) (*Client, error) {
	var sets []string
	var args []any
	args = append(args, id)

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if fields.ContactName != nil {
		add("contact_name", *fields.ContactName)
	}
	if fields.Email != nil {
		add("email", *fields.Email)
	}
	if fields.Phone != nil {
		add("phone", *fields.Phone)
	}
	if fields.Industry != nil {
		add("industry", *fields.Industry)
	}
	if fields.Status != nil {
		add("status", *fields.Status)
	}
	if fields.MonthlyFee != nil {
		add("monthly_fee", *fields.MonthlyFee)
	}

	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}

	query := `UPDATE clients SET ` + strings.Join(sets, ", ") + `, updated_at = NOW()
		WHERE id = $1 RETURNING ` + clientColumns

	var c Client
	if err := scanClient(r.pool.QueryRow(ctx, query, args...), &c); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("updating client: %w", err)
	}

	return &c, nil
}

// Delete removes a client and, via FK cascade, its production records,
// payments, analytics and team assignments.
func (r *PostgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting client: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrClientNotFound
	}

	return nil
}

// SetTeam replaces the set of users assigned to a client.
func (r *PostgresRepository) SetTeam(ctx context.Context, clientID uuid.UUID, userIDs []uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var exists bool
	err = tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM clients WHERE id = $1)`, clientID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("checking client existence: %w", err)
	}
	if !exists {
		return ErrClientNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM client_team WHERE client_id = $1`, clientID); err != nil {
		return fmt.Errorf("clearing client team: %w", err)
	}

	for _, userID := range userIDs {
		_, err := tx.Exec(ctx,
			`INSERT INTO client_team (client_id, user_id) VALUES ($1, $2)
			 ON CONFLICT (client_id, user_id) DO NOTHING`,
			clientID, userID)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23503" {
				return ErrUnknownTeamMember
			}
			return fmt.Errorf("assigning team member: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing team assignment: %w", err)
	}

	return nil
}

// GetTeam retrieves the users assigned to a client with their roles.
func (r *PostgresRepository) GetTeam(ctx context.Context, clientID uuid.UUID) ([]TeamMember, error) {
	query := `
		SELECT ct.user_id, u.name, u.role, ct.assigned_at
		FROM client_team ct
		JOIN users u ON u.id = ct.user_id
		WHERE ct.client_id = $1
		ORDER BY ct.assigned_at ASC`

	rows, err := r.pool.Query(ctx, query, clientID)
	if err != nil {
		return nil, fmt.Errorf("listing client team: %w", err)
	}
	defer rows.Close()

	var members []TeamMember
	for rows.Next() {
		var m TeamMember
		if err := rows.Scan(&m.UserID, &m.UserName, &m.Role, &m.AssignedAt); err != nil {
			return nil, fmt.Errorf("scanning team member row: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating team member rows: %w", err)
	}

	if members == nil {
		members = []TeamMember{}
	}

	return members, nil
}
