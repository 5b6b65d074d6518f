package production

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

// PostgresRepository implements Repository using pgxpool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new Repository backed by the given connection pool.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &PostgresRepository{pool: pool}
}

func mapInsertErr(err error, what string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" {
		return ErrUnknownClient
	}
	return fmt.Errorf("inserting %s: %w", what, err)
}

// partialUpdate builds and runs an UPDATE ... SET for the given column/value
// pairs (nil values are skipped) and scans the returned row via scan.
func (r *PostgresRepository) partialUpdate(ctx context.Context, table, returning string, id uuid.UUID, columns []string, values []any, scan func(pgx.Row) error) error {
	var sets []string
	args := []any{id}

	for i, col := range columns {
		if values[i] == nil {
			continue
		}
		args = append(args, values[i])
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	query := `UPDATE ` + table + ` SET `
	if len(sets) > 0 {
		query += strings.Join(sets, ", ") + `, `
	}
	query += `updated_at = NOW() WHERE id = $1 RETURNING ` + returning

	if err := scan(r.pool.QueryRow(ctx, query, args...)); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("updating %s: %w", table, err)
	}

	return nil
}

func (r *PostgresRepository) deleteRow(ctx context.Context, table string, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM `+table+` WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting from %s: %w", table, err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Scripts ---

const scriptColumns = `id, client_id, title, content, status, due_date, created_at, updated_at`

func scanScript(row pgx.Row, s *Script) error {
	return row.Scan(&s.ID, &s.ClientID, &s.Title, &s.Content, &s.Status, &s.DueDate, &s.CreatedAt, &s.UpdatedAt)
}

// CreateScript inserts a new script record.
func (r *PostgresRepository) CreateScript(ctx context.Context, s *Script) error {
	if s.Status == "" {
		s.Status = "draft"
	}

	query := `
		INSERT INTO scripts (client_id, title, content, status, due_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query, s.ClientID, s.Title, s.Content, s.Status, s.DueDate).
		Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return mapInsertErr(err, "script")
	}

	return nil
}

// ListScripts retrieves a client's scripts, newest first.
func (r *PostgresRepository) ListScripts(ctx context.Context, clientID uuid.UUID) ([]Script, error) {
	query := `SELECT ` + scriptColumns + ` FROM scripts WHERE client_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, clientID)
	if err != nil {
		return nil, fmt.Errorf("listing scripts: %w", err)
	}
	defer rows.Close()

	scripts := []Script{}
	for rows.Next() {
		var s Script
		if err := scanScript(rows, &s); err != nil {
			return nil, fmt.Errorf("scanning script row: %w", err)
		}
		scripts = append(scripts, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating script rows: %w", err)
	}

	return scripts, nil
}

// UpdateScript applies the non-nil fields and returns the updated script.
func (r *PostgresRepository) UpdateScript(ctx context.Context, id uuid.UUID, fields ScriptUpdate) (*Script, error) {
	columns := []string{"title", "content", "status", "due_date"}
	values := make([]any, len(columns))
	if fields.Title != nil {
		values[0] = *fields.Title
	}
	if fields.Content != nil {
		values[1] = *fields.Content
	}
	if fields.Status != nil {
		values[2] = *fields.Status
	}
	if fields.DueDate != nil {
		values[3] = *fields.DueDate
	}

	var s Script
	err := r.partialUpdate(ctx, "scripts", scriptColumns, id, columns, values, func(row pgx.Row) error {
		return scanScript(row, &s)
	})
	if err != nil {
		return nil, err
	}

	return &s, nil
}

// DeleteScript removes a script by its UUID.
func (r *PostgresRepository) DeleteScript(ctx context.Context, id uuid.UUID) error {
	return r.deleteRow(ctx, "scripts", id)
}

// --- Shoots ---

const shootColumns = `id, client_id, script_id, location, scheduled_at, status, created_at, updated_at`

func scanShoot(row pgx.Row, s *Shoot) error {
	return row.Scan(&s.ID, &s.ClientID, &s.ScriptID, &s.Location, &s.ScheduledAt, &s.Status, &s.CreatedAt, &s.UpdatedAt)
}

// CreateShoot inserts a new shoot record.
func (r *PostgresRepository) CreateShoot(ctx context.Context, s *Shoot) error {
	if s.Status == "" {
		s.Status = "scheduled"
	}

	query := `
		INSERT INTO shoots (client_id, script_id, location, scheduled_at, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query, s.ClientID, s.ScriptID, s.Location, s.ScheduledAt, s.Status).
		Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return mapInsertErr(err, "shoot")
	}

	return nil
}

// ListShoots retrieves a client's shoots, newest first.
func (r *PostgresRepository) ListShoots(ctx context.Context, clientID uuid.UUID) ([]Shoot, error) {
	query := `SELECT ` + shootColumns + ` FROM shoots WHERE client_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, clientID)
	if err != nil {
		return nil, fmt.Errorf("listing shoots: %w", err)
	}
	defer rows.Close()

	shoots := []Shoot{}
	for rows.Next() {
		var s Shoot
		if err := scanShoot(rows, &s); err != nil {
			return nil, fmt.Errorf("scanning shoot row: %w", err)
		}
		shoots = append(shoots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating shoot rows: %w", err)
	}

	return shoots, nil
}

// UpdateShoot applies the non-nil fields and returns the updated shoot.
func (r *PostgresRepository) UpdateShoot(ctx context.Context, id uuid.UUID, fields ShootUpdate) (*Shoot, error) {
	columns := []string{"location", "scheduled_at", "status"}
	values := make([]any, len(columns))
	if fields.Location != nil {
		values[0] = *fields.Location
	}
	if fields.ScheduledAt != nil {
		values[1] = *fields.ScheduledAt
	}
	if fields.Status != nil {
		values[2] = *fields.Status
	}

	var s Shoot
	err := r.partialUpdate(ctx, "shoots", shootColumns, id, columns, values, func(row pgx.Row) error {
		return scanShoot(row, &s)
	})
	if err != nil {
		return nil, err
	}

	return &s, nil
}

// DeleteShoot removes a shoot by its UUID.
func (r *PostgresRepository) DeleteShoot(ctx context.Context, id uuid.UUID) error {
	return r.deleteRow(ctx, "shoots", id)
}

// --- Edits ---

const editColumns = `id, client_id, shoot_id, editor_id, status, due_date, delivered_at, created_at, updated_at`

func scanEdit(row pgx.Row, e *Edit) error {
	return row.Scan(&e.ID, &e.ClientID, &e.ShootID, &e.EditorID, &e.Status, &e.DueDate, &e.DeliveredAt, &e.CreatedAt, &e.UpdatedAt)
}

// CreateEdit inserts a new edit record.
func (r *PostgresRepository) CreateEdit(ctx context.Context, e *Edit) error {
	if e.Status == "" {
		e.Status = "in_progress"
	}

	query := `
		INSERT INTO edits (client_id, shoot_id, editor_id, status, due_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query, e.ClientID, e.ShootID, e.EditorID, e.Status, e.DueDate).
		Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return mapInsertErr(err, "edit")
	}

	return nil
}

// ListEdits retrieves a client's edits, newest first.
func (r *PostgresRepository) ListEdits(ctx context.Context, clientID uuid.UUID) ([]Edit, error) {
	query := `SELECT ` + editColumns + ` FROM edits WHERE client_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, clientID)
	if err != nil {
		return nil, fmt.Errorf("listing edits: %w", err)
	}
	defer rows.Close()

	edits := []Edit{}
	for rows.Next() {
		var e Edit
		if err := scanEdit(rows, &e); err != nil {
			return nil, fmt.Errorf("scanning edit row: %w", err)
		}
		edits = append(edits, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating edit rows: %w", err)
	}

	return edits, nil
}

// UpdateEdit applies the non-nil fields and returns the updated edit.
func (r *PostgresRepository) UpdateEdit(ctx context.Context, id uuid.UUID, fields EditUpdate) (*Edit, error) {
	columns := []string{"editor_id", "status", "due_date", "delivered_at"}
	values := make([]any, len(columns))
	if fields.EditorID != nil {
		values[0] = *fields.EditorID
	}
	if fields.Status != nil {
		values[1] = *fields.Status
	}
	if fields.DueDate != nil {
		values[2] = *fields.DueDate
	}
	if fields.DeliveredAt != nil {
		values[3] = *fields.DeliveredAt
	}

	var e Edit
	err := r.partialUpdate(ctx, "edits", editColumns, id, columns, values, func(row pgx.Row) error {
		return scanEdit(row, &e)
	})
	if err != nil {
		return nil, err
	}

	return &e, nil
}

// DeleteEdit removes an edit by its UUID.
func (r *PostgresRepository) DeleteEdit(ctx context.Context, id uuid.UUID) error {
	return r.deleteRow(ctx, "edits", id)
}

// --- Publishes ---

const publishColumns = `id, client_id, edit_id, platform, url, published_at, created_at`

// CreatePublish inserts a new publish record.
func (r *PostgresRepository) CreatePublish(ctx context.Context, p *Publish) error {
	query := `
		INSERT INTO publishes (client_id, edit_id, platform, url, published_at)
		VALUES ($1, $2, $3, $4, COALESCE($5, NOW()))
		RETURNING id, published_at, created_at`

	var publishedAt any
	if !p.PublishedAt.IsZero() {
		publishedAt = p.PublishedAt
	}

	err := r.pool.QueryRow(ctx, query, p.ClientID, p.EditID, p.Platform, p.URL, publishedAt).
		Scan(&p.ID, &p.PublishedAt, &p.CreatedAt)
	if err != nil {
		return mapInsertErr(err, "publish")
	}

	return nil
}

// ListPublishes retrieves a client's publishes, newest first.
func (r *PostgresRepository) ListPublishes(ctx context.Context, clientID uuid.UUID) ([]Publish, error) {
	query := `SELECT ` + publishColumns + ` FROM publishes WHERE client_id = $1 ORDER BY published_at DESC`

	rows, err := r.pool.Query(ctx, query, clientID)
	if err != nil {
		return nil, fmt.Errorf("listing publishes: %w", err)
	}
	defer rows.Close()

	publishes := []Publish{}
	for rows.Next() {
		var p Publish
		err := rows.Scan(&p.ID, &p.ClientID, &p.EditID, &p.Platform, &p.URL, &p.PublishedAt, &p.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning publish row: %w", err)
		}
		publishes = append(publishes, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating publish rows: %w", err)
	}

	return publishes, nil
}

// DeletePublish removes a publish by its UUID.
func (r *PostgresRepository) DeletePublish(ctx context.Context, id uuid.UUID) error {
	return r.deleteRow(ctx, "publishes", id)
}
