package payment

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

const paymentColumns = `id, client_id, amount, method, status, paid_at, notes, created_at, updated_at`

// PostgresRepository implements Repository using pgxpool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new Repository backed by the given connection pool.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &PostgresRepository{pool: pool}
}

func scanPayment(row pgx.Row, p *Payment) error {
	return row.Scan(&p.ID, &p.ClientID, &p.Amount, &p.Method, &p.Status, &p.PaidAt, &p.Notes, &p.CreatedAt, &p.UpdatedAt)
}

// Create inserts a new payment record.
func (r *PostgresRepository) Create(ctx context.Context, p *Payment) error {
	if p.Status == "" {
		p.Status = "pending"
	}

	query := `
		INSERT INTO payments (client_id, amount, method, status, paid_at, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query, p.ClientID, p.Amount, p.Method, p.Status, p.PaidAt, p.Notes).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return ErrUnknownClient
		}
		return fmt.Errorf("inserting payment: %w", err)
	}

	return nil
}

// ListByClient retrieves a client's payments, newest first.
func (r *PostgresRepository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE client_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, clientID)
	if err != nil {
		return nil, fmt.Errorf("listing payments: %w", err)
	}
	defer rows.Close()

	payments := []Payment{}
	for rows.Next() {
		var p Payment
		if err := scanPayment(rows, &p); err != nil {
			return nil, fmt.Errorf("scanning payment row: %w", err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating payment rows: %w", err)
	}

	return payments, nil
}

// Update applies the non-nil fields and returns the updated payment.
func (r *PostgresRepository) Update(ctx context.Context, id uuid.UUID, fields UpdateFields) (*Payment, error) {
	var sets []string
	args := []any{id}

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if fields.Amount != nil {
		add("amount", *fields.Amount)
	}
	if fields.Method != nil {
		add("method", *fields.Method)
	}
	if fields.Status != nil {
		add("status", *fields.Status)
	}
	if fields.PaidAt != nil {
		add("paid_at", *fields.PaidAt)
	}
	if fields.Notes != nil {
		add("notes", *fields.Notes)
	}

	query := `UPDATE payments SET `
	if len(sets) > 0 {
		query += strings.Join(sets, ", ") + `, `
	}
	query += `updated_at = NOW() WHERE id = $1 RETURNING ` + paymentColumns

	var p Payment
	if err := scanPayment(r.pool.QueryRow(ctx, query, args...), &p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("updating payment: %w", err)
	}

	return &p, nil
}

// Delete removes a payment by its UUID.
func (r *PostgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM payments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting payment: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrPaymentNotFound
	}

	return nil
}
