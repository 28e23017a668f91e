package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/billmitra/billmitra/internal/platform/db"
)

var ErrNotFound = errors.New("document not found")

type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error
	Get(ctx context.Context, id string) (*InvoiceDocument, error)
	List(ctx context.Context, req ListDocumentsRequest) ([]InvoiceDocument, int, error)
	Create(ctx context.Context, doc InvoiceDocument) error
	Update(ctx context.Context, doc InvoiceDocument) error
	UpdateStatus(ctx context.Context, id string, status DocumentStatus) error
	Delete(ctx context.Context, id string) error
	NextDocNumber(ctx context.Context, kind DocumentKind, year int) (string, error)
}

type dbtx interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

type repository struct {
	db   dbtx
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool, pool: pool}
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &repository{db: tx, pool: r.pool})
	})
}

const documentColumns = `id, kind, doc_number, biller_info, client, shipping_address,
	payment_info, is_inter_state, sub_total, total_cgst, total_sgst, total_igst,
	grand_total, status, notes, terms, issue_date, due_date, created_at, updated_at`

func (r *repository) Get(ctx context.Context, id string) (*InvoiceDocument, error) {
	row := r.db.QueryRow(ctx, `SELECT `+documentColumns+` FROM documents WHERE id = $1`, id)
	doc, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, product_name, quantity, rate, discount_percentage, tax_rate,
		       amount, cgst, sgst, igst, total_amount
		FROM document_lines WHERE document_id = $1 ORDER BY line_order`, id)
	if err != nil {
		return nil, fmt.Errorf("billing: query lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var li LineItem
		if err := rows.Scan(&li.ID, &li.ProductName, &li.Quantity, &li.Rate,
			&li.DiscountPercentage, &li.TaxRate, &li.Amount, &li.CGST, &li.SGST,
			&li.IGST, &li.TotalAmount); err != nil {
			return nil, fmt.Errorf("billing: scan line: %w", err)
		}
		doc.LineItems = append(doc.LineItems, li)
	}
	return doc, rows.Err()
}

func (r *repository) List(ctx context.Context, req ListDocumentsRequest) ([]InvoiceDocument, int, error) {
	where := " WHERE 1=1"
	args := []interface{}{}
	argPos := 1
	if req.Kind != nil {
		where += fmt.Sprintf(" AND kind = $%d", argPos)
		args = append(args, *req.Kind)
		argPos++
	}
	if req.Status != nil {
		where += fmt.Sprintf(" AND status = $%d", argPos)
		args = append(args, *req.Status)
		argPos++
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM documents`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("billing: count documents: %w", err)
	}

	limit := req.Limit
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT ` + documentColumns + ` FROM documents` + where +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argPos, argPos+1)
	args = append(args, limit, req.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("billing: list documents: %w", err)
	}
	defer rows.Close()

	var docs []InvoiceDocument
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, 0, err
		}
		docs = append(docs, *doc)
	}
	return docs, total, rows.Err()
}

func (r *repository) Create(ctx context.Context, doc InvoiceDocument) error {
	biller, client, shipping, payment, err := marshalParties(doc)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO documents (`+documentColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20)`,
		doc.ID, doc.Kind, doc.DocNumber, biller, client, shipping, payment,
		doc.IsInterState, doc.SubTotal, doc.TotalCGST, doc.TotalSGST, doc.TotalIGST,
		doc.GrandTotal, doc.Status, doc.Notes, doc.Terms, doc.IssueDate, doc.DueDate,
		doc.CreatedAt, doc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("billing: insert document: %w", err)
	}
	return r.insertLines(ctx, doc)
}

func (r *repository) Update(ctx context.Context, doc InvoiceDocument) error {
	biller, client, shipping, payment, err := marshalParties(doc)
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, `
		UPDATE documents SET biller_info=$2, client=$3, shipping_address=$4,
			payment_info=$5, is_inter_state=$6, sub_total=$7, total_cgst=$8,
			total_sgst=$9, total_igst=$10, grand_total=$11, notes=$12, terms=$13,
			issue_date=$14, due_date=$15, updated_at=$16
		WHERE id = $1`,
		doc.ID, biller, client, shipping, payment, doc.IsInterState, doc.SubTotal,
		doc.TotalCGST, doc.TotalSGST, doc.TotalIGST, doc.GrandTotal,
		doc.Notes, doc.Terms, doc.IssueDate, doc.DueDate, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("billing: update document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	if _, err := r.db.Exec(ctx, `DELETE FROM document_lines WHERE document_id = $1`, doc.ID); err != nil {
		return fmt.Errorf("billing: delete lines: %w", err)
	}
	return r.insertLines(ctx, doc)
}

func (r *repository) insertLines(ctx context.Context, doc InvoiceDocument) error {
	for i, li := range doc.LineItems {
		_, err := r.db.Exec(ctx, `
			INSERT INTO document_lines (id, document_id, line_order, product_name,
				quantity, rate, discount_percentage, tax_rate, amount, cgst, sgst,
				igst, total_amount)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
			li.ID, doc.ID, i+1, li.ProductName, li.Quantity, li.Rate,
			li.DiscountPercentage, li.TaxRate, li.Amount, li.CGST, li.SGST,
			li.IGST, li.TotalAmount)
		if err != nil {
			return fmt.Errorf("billing: insert line %d: %w", i+1, err)
		}
	}
	return nil
}

func (r *repository) UpdateStatus(ctx context.Context, id string, status DocumentStatus) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE documents SET status = $2, updated_at = $3 WHERE id = $1`,
		id, status, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("billing: update status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("billing: delete document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// NextDocNumber issues INV-2026-0007 style numbers from a per-kind,
// per-year counter row.
func (r *repository) NextDocNumber(ctx context.Context, kind DocumentKind, year int) (string, error) {
	prefix := "INV"
	if kind == KindQuotation {
		prefix = "QUO"
	}
	var seq int
	err := r.db.QueryRow(ctx, `
		INSERT INTO document_counters (kind, year, counter)
		VALUES ($1, $2, 1)
		ON CONFLICT (kind, year) DO UPDATE SET counter = document_counters.counter + 1
		RETURNING counter`, kind, year).Scan(&seq)
	if err != nil {
		return "", fmt.Errorf("billing: next doc number: %w", err)
	}
	return fmt.Sprintf("%s-%d-%04d", prefix, year, seq), nil
}

func marshalParties(doc InvoiceDocument) (biller, client, shipping, payment []byte, err error) {
	biller, err = json.Marshal(doc.BillerInfo)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("billing: marshal biller: %w", err)
	}
	client, err = json.Marshal(doc.Client)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("billing: marshal client: %w", err)
	}
	if doc.ShippingAddress != nil {
		shipping, err = json.Marshal(doc.ShippingAddress)
		if err != nil {
			return nil, nil, nil, nil, fmt.Errorf("billing: marshal shipping: %w", err)
		}
	}
	if doc.PaymentInfo != nil {
		payment, err = json.Marshal(doc.PaymentInfo)
		if err != nil {
			return nil, nil, nil, nil, fmt.Errorf("billing: marshal payment: %w", err)
		}
	}
	return biller, client, shipping, payment, nil
}

func scanDocument(row pgx.Row) (*InvoiceDocument, error) {
	var doc InvoiceDocument
	var biller, client, shipping, payment []byte
	err := row.Scan(&doc.ID, &doc.Kind, &doc.DocNumber, &biller, &client, &shipping,
		&payment, &doc.IsInterState, &doc.SubTotal, &doc.TotalCGST, &doc.TotalSGST,
		&doc.TotalIGST, &doc.GrandTotal, &doc.Status, &doc.Notes, &doc.Terms,
		&doc.IssueDate, &doc.DueDate, &doc.CreatedAt, &doc.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(biller, &doc.BillerInfo); err != nil {
		return nil, fmt.Errorf("billing: unmarshal biller: %w", err)
	}
	if err := json.Unmarshal(client, &doc.Client); err != nil {
		return nil, fmt.Errorf("billing: unmarshal client: %w", err)
	}
	if len(shipping) > 0 {
		doc.ShippingAddress = &Party{}
		if err := json.Unmarshal(shipping, doc.ShippingAddress); err != nil {
			return nil, fmt.Errorf("billing: unmarshal shipping: %w", err)
		}
	}
	if len(payment) > 0 {
		doc.PaymentInfo = &PaymentDetails{}
		if err := json.Unmarshal(payment, doc.PaymentInfo); err != nil {
			return nil, fmt.Errorf("billing: unmarshal payment: %w", err)
		}
	}
	return &doc, nil
}
