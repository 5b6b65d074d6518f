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

// PostgresNoteRepository implements NoteRepository using pgxpool.
type PostgresNoteRepository struct {
	pool *pgxpool.Pool
}

// NewNoteRepository creates a new NoteRepository backed by the given connection pool.
func NewNoteRepository(pool *pgxpool.Pool) NoteRepository {
	return &PostgresNoteRepository{pool: pool}
}

// Create inserts a new note record. Returns ErrLeadNotFound if the referenced
// lead does not exist (FK violation).
func (r *PostgresNoteRepository) Create(ctx context.Context, n *Note) error {
	query := `
		INSERT INTO lead_notes (lead_id, author_id, content)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query, n.LeadID, n.AuthorID, n.Content).
		Scan(&n.ID, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return ErrLeadNotFound
		}
		return fmt.Errorf("inserting note: %w", err)
	}

	return nil
}

// GetByID retrieves a single note by its UUID.
func (r *PostgresNoteRepository) GetByID(ctx context.Context, id uuid.UUID) (*Note, error) {
	query := `
		SELECT id, lead_id, author_id, content, created_at, updated_at
		FROM lead_notes
		WHERE id = $1`

	var n Note
	err := r.pool.QueryRow(ctx, query, id).
		Scan(&n.ID, &n.LeadID, &n.AuthorID, &n.Content, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoteNotFound
		}
		return nil, fmt.Errorf("getting note: %w", err)
	}

	return &n, nil
}

// ListByLead retrieves all notes for a lead, oldest first.
func (r *PostgresNoteRepository) ListByLead(ctx context.Context, leadID uuid.UUID) ([]Note, error) {
	query := `
		SELECT id, lead_id, author_id, content, created_at, updated_at
		FROM lead_notes
		WHERE lead_id = $1
		ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query, leadID)
	if err != nil {
		return nil, fmt.Errorf("listing notes: %w", err)
	}
	defer rows.Close()

	var notes []Note
	for rows.Next() {
		var n Note
		err := rows.Scan(&n.ID, &n.LeadID, &n.AuthorID, &n.Content, &n.CreatedAt, &n.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning note row: %w", err)
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating note rows: %w", err)
	}

	if notes == nil {
		notes = []Note{}
	}

	return notes, nil
}

// Update overwrites a note's content.
func (r *PostgresNoteRepository) Update(ctx context.Context, id uuid.UUID, content string) (*Note, error) {
	query := `
		UPDATE lead_notes
		SET content = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING id, lead_id, author_id, content, created_at, updated_at`

	var n Note
	err := r.pool.QueryRow(ctx, query, id, content).
		Scan(&n.ID, &n.LeadID, &n.AuthorID, &n.Content, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoteNotFound
		}
		return nil, fmt.Errorf("updating note: %w", err)
	}

	return &n, nil
}

// Delete removes a note by its UUID.
func (r *PostgresNoteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM lead_notes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting note: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrNoteNotFound
	}

	return nil
}
