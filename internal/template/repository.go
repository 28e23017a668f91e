package template

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrTemplateNotFound = errors.New("template not found")

// Repository persists templates. Sections and style are stored as a jsonb
// definition document; the relational columns carry only what queries
// filter or sort on.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type definition struct {
	Sections []TemplateSection `json:"sections"`
	Style    TemplateStyle     `json:"style"`
}

const templateColumns = `id, name, COALESCE(description,''), is_public, is_default, owner_id,
definition, usage_count, created_at, updated_at`

// Get loads a template by id.
func (r *Repository) Get(ctx context.Context, id string) (InvoiceTemplate, error) {
	if r == nil || r.pool == nil {
		return InvoiceTemplate{}, fmt.Errorf("template: repository not initialised")
	}
	row := r.pool.QueryRow(ctx, `SELECT `+templateColumns+` FROM templates WHERE id = $1`, id)
	tpl, err := scanTemplate(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return InvoiceTemplate{}, ErrTemplateNotFound
		}
		return InvoiceTemplate{}, err
	}
	return tpl, nil
}

// List returns public templates plus the owner's private ones, default
// first.
func (r *Repository) List(ctx context.Context, ownerID string) ([]InvoiceTemplate, error) {
	if r == nil || r.pool == nil {
		return nil, fmt.Errorf("template: repository not initialised")
	}
	rows, err := r.pool.Query(ctx, `SELECT `+templateColumns+` FROM templates
WHERE is_public OR ($1 <> '' AND owner_id = $1)
ORDER BY is_default DESC, usage_count DESC, name`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var templates []InvoiceTemplate
	for rows.Next() {
		tpl, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, tpl)
	}
	return templates, rows.Err()
}

// Insert stores a new template.
func (r *Repository) Insert(ctx context.Context, tpl InvoiceTemplate) error {
	if r == nil || r.pool == nil {
		return fmt.Errorf("template: repository not initialised")
	}
	def, err := json.Marshal(definition{Sections: tpl.Sections, Style: tpl.Style})
	if err != nil {
		return err
	}
	var owner any
	if tpl.OwnerID != nil {
		owner = *tpl.OwnerID
	}
	_, err = r.pool.Exec(ctx, `INSERT INTO templates
(id, name, description, is_public, is_default, owner_id, definition, usage_count, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		tpl.ID, tpl.Name, tpl.Description, tpl.IsPublic, tpl.IsDefault, owner, def,
		tpl.UsageCount, tpl.CreatedAt, tpl.UpdatedAt)
	return err
}

// Update replaces the stored template wholesale. Template editing is
// last-write-wins; concurrent editors resolve here, not in the model.
func (r *Repository) Update(ctx context.Context, tpl InvoiceTemplate) error {
	if r == nil || r.pool == nil {
		return fmt.Errorf("template: repository not initialised")
	}
	def, err := json.Marshal(definition{Sections: tpl.Sections, Style: tpl.Style})
	if err != nil {
		return err
	}
	cmd, err := r.pool.Exec(ctx, `UPDATE templates
SET name = $2, description = $3, is_public = $4, definition = $5, updated_at = NOW()
WHERE id = $1`, tpl.ID, tpl.Name, tpl.Description, tpl.IsPublic, def)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrTemplateNotFound
	}
	return nil
}

// Delete removes a template. The seeded default is protected by the
// service, not here.
func (r *Repository) Delete(ctx context.Context, id string) error {
	if r == nil || r.pool == nil {
		return fmt.Errorf("template: repository not initialised")
	}
	cmd, err := r.pool.Exec(ctx, `DELETE FROM templates WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrTemplateNotFound
	}
	return nil
}

// IncrementUsage bumps the usage counter when a template is exported with.
func (r *Repository) IncrementUsage(ctx context.Context, id string) error {
	if r == nil || r.pool == nil {
		return fmt.Errorf("template: repository not initialised")
	}
	cmd, err := r.pool.Exec(ctx, `UPDATE templates
SET usage_count = usage_count + 1, updated_at = NOW()
WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrTemplateNotFound
	}
	return nil
}

func scanTemplate(row interface{ Scan(dest ...any) error }) (InvoiceTemplate, error) {
	var tpl InvoiceTemplate
	var owner sql.NullString
	var def []byte
	if err := row.Scan(
		&tpl.ID,
		&tpl.Name,
		&tpl.Description,
		&tpl.IsPublic,
		&tpl.IsDefault,
		&owner,
		&def,
		&tpl.UsageCount,
		&tpl.CreatedAt,
		&tpl.UpdatedAt,
	); err != nil {
		return InvoiceTemplate{}, err
	}
	if owner.Valid {
		v := owner.String
		tpl.OwnerID = &v
	}
	if len(def) > 0 {
		var d definition
		if err := json.Unmarshal(def, &d); err != nil {
			return InvoiceTemplate{}, fmt.Errorf("template %s: decode definition: %w", tpl.ID, err)
		}
		tpl.Sections = d.Sections
		tpl.Style = d.Style
	}
	return tpl, nil
}
