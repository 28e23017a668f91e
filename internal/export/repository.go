package export

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists export rows and their status transitions.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const exportColumns = `id, document_id, template_id, status, COALESCE(file_path,''), file_size,
COALESCE(error_message,''), generated_at, created_at, updated_at`

// Insert stores a new pending export request.
func (r *Repository) Insert(ctx context.Context, exp Export) error {
	if r == nil || r.pool == nil {
		return fmt.Errorf("export: repository not initialised")
	}
	_, err := r.pool.Exec(ctx, `INSERT INTO exports (id, document_id, template_id, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $5)`,
		exp.ID, exp.DocumentID, exp.TemplateID, string(exp.Status), exp.CreatedAt)
	return err
}

// Get loads an export row by id.
func (r *Repository) Get(ctx context.Context, id string) (Export, error) {
	if r == nil || r.pool == nil {
		return Export{}, fmt.Errorf("export: repository not initialised")
	}
	row := r.pool.QueryRow(ctx, `SELECT `+exportColumns+` FROM exports WHERE id = $1`, id)
	exp, err := scanExport(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Export{}, ErrExportNotFound
		}
		return Export{}, err
	}
	return exp, nil
}

// ListByDocument returns the newest exports for a document.
func (r *Repository) ListByDocument(ctx context.Context, documentID string, limit int) ([]Export, error) {
	if r == nil || r.pool == nil {
		return nil, fmt.Errorf("export: repository not initialised")
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	rows, err := r.pool.Query(ctx, `SELECT `+exportColumns+` FROM exports
WHERE document_id = $1
ORDER BY created_at DESC
LIMIT $2`, documentID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var exports []Export
	for rows.Next() {
		exp, err := scanExport(rows)
		if err != nil {
			return nil, err
		}
		exports = append(exports, exp)
	}
	return exports, rows.Err()
}

// MarkInProgress transitions a pending export to in-progress.
func (r *Repository) MarkInProgress(ctx context.Context, id string) error {
	if r == nil || r.pool == nil {
		return fmt.Errorf("export: repository not initialised")
	}
	cmd, err := r.pool.Exec(ctx, `UPDATE exports
SET status = 'IN_PROGRESS', error_message = NULL, updated_at = NOW()
WHERE id = $1 AND status = 'PENDING'`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrInvalidStatus
	}
	return nil
}

// MarkReady stores the artefact path and size and marks the export ready.
func (r *Repository) MarkReady(ctx context.Context, id, filePath string, fileSize int64, generatedAt time.Time) error {
	if r == nil || r.pool == nil {
		return fmt.Errorf("export: repository not initialised")
	}
	cmd, err := r.pool.Exec(ctx, `UPDATE exports
SET status = 'READY', file_path = $2, file_size = $3, generated_at = $4, updated_at = NOW()
WHERE id = $1`, id, filePath, fileSize, generatedAt)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrExportNotFound
	}
	return nil
}

// MarkFailed captures the error message and switches the status to failed.
func (r *Repository) MarkFailed(ctx context.Context, id, msg string) error {
	if r == nil || r.pool == nil {
		return fmt.Errorf("export: repository not initialised")
	}
	cmd, err := r.pool.Exec(ctx, `UPDATE exports
SET status = 'FAILED', error_message = $2, updated_at = NOW()
WHERE id = $1`, id, truncateError(msg))
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrExportNotFound
	}
	return nil
}

func scanExport(row interface{ Scan(dest ...any) error }) (Export, error) {
	var exp Export
	var status string
	var fileSize sql.NullInt64
	var generatedAt sql.NullTime
	if err := row.Scan(
		&exp.ID,
		&exp.DocumentID,
		&exp.TemplateID,
		&status,
		&exp.FilePath,
		&fileSize,
		&exp.ErrorMessage,
		&generatedAt,
		&exp.CreatedAt,
		&exp.UpdatedAt,
	); err != nil {
		return Export{}, err
	}
	exp.Status = Status(status)
	if fileSize.Valid {
		v := fileSize.Int64
		exp.FileSize = &v
	}
	if generatedAt.Valid {
		t := generatedAt.Time
		exp.GeneratedAt = &t
	}
	return exp, nil
}

func truncateError(msg string) string {
	msg = strings.TrimSpace(msg)
	if len(msg) > 500 {
		return msg[:500]
	}
	return msg
}
