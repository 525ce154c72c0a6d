package postgres

import (
	"context"
	"database/sql"
	"time"

	"coursepay/internal/domain"
	"coursepay/internal/repository"
)

// InvoiceRepository is a PostgreSQL implementation of repository.InvoiceRepository.
type InvoiceRepository struct {
	q Querier
}

// NewInvoiceRepository creates a new PostgreSQL invoice repository.
func NewInvoiceRepository(db *sql.DB) *InvoiceRepository {
	return &InvoiceRepository{q: db}
}

// NewInvoiceRepositoryWithTx creates an invoice repository using a transaction.
func NewInvoiceRepositoryWithTx(tx *sql.Tx) *InvoiceRepository {
	return &InvoiceRepository{q: tx}
}

var _ repository.InvoiceRepository = (*InvoiceRepository)(nil)

// Create persists a new invoice together with its items.
// Callers wanting the invoice and items to land atomically pass a transaction-scoped repository.
func (r *InvoiceRepository) Create(ctx context.Context, invoice *domain.Invoice) error {
	query := `
		INSERT INTO invoices (id, invoice_number, user_id, status, subtotal, tax, total, paid_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`

	err := r.q.QueryRowContext(ctx, query,
		invoice.ID,
		invoice.InvoiceNumber,
		invoice.UserID,
		invoice.Status,
		invoice.Subtotal,
		invoice.Tax,
		invoice.Total,
		invoice.PaidAt,
	).Scan(&invoice.CreatedAt, &invoice.UpdatedAt)
	if err != nil {
		return translateError(err)
	}

	itemQuery := `
		INSERT INTO invoice_items (id, invoice_id, course_id, description, quantity, unit_price, total, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	for i := range invoice.Items {
		item := &invoice.Items[i]
		item.InvoiceID = invoice.ID
		if _, err := r.q.ExecContext(ctx, itemQuery,
			item.ID,
			item.InvoiceID,
			item.CourseID,
			item.Description,
			item.Quantity,
			item.UnitPrice,
			item.Total,
			i,
		); err != nil {
			return translateError(err)
		}
	}

	return nil
}

// GetByID retrieves an invoice and its items.
func (r *InvoiceRepository) GetByID(ctx context.Context, id string) (*domain.Invoice, error) {
	return r.get(ctx, `WHERE id = $1`, id)
}

// GetByNumber retrieves an invoice and its items by invoice number.
func (r *InvoiceRepository) GetByNumber(ctx context.Context, number string) (*domain.Invoice, error) {
	return r.get(ctx, `WHERE invoice_number = $1`, number)
}

func (r *InvoiceRepository) get(ctx context.Context, where string, arg string) (*domain.Invoice, error) {
	query := `
		SELECT id, invoice_number, user_id, status, subtotal, tax, total, paid_at, created_at, updated_at
		FROM invoices ` + where

	var invoice domain.Invoice
	err := r.q.QueryRowContext(ctx, query, arg).Scan(
		&invoice.ID,
		&invoice.InvoiceNumber,
		&invoice.UserID,
		&invoice.Status,
		&invoice.Subtotal,
		&invoice.Tax,
		&invoice.Total,
		&invoice.PaidAt,
		&invoice.CreatedAt,
		&invoice.UpdatedAt,
	)
	if err != nil {
		return nil, translateError(err)
	}

	items, err := r.listItems(ctx, invoice.ID)
	if err != nil {
		return nil, err
	}
	invoice.Items = items

	return &invoice, nil
}

func (r *InvoiceRepository) listItems(ctx context.Context, invoiceID string) ([]domain.InvoiceItem, error) {
	query := `
		SELECT id, invoice_id, course_id, description, quantity, unit_price, total
		FROM invoice_items WHERE invoice_id = $1 ORDER BY position, id
	`

	rows, err := r.q.QueryContext(ctx, query, invoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.InvoiceItem
	for rows.Next() {
		var item domain.InvoiceItem
		if err := rows.Scan(
			&item.ID,
			&item.InvoiceID,
			&item.CourseID,
			&item.Description,
			&item.Quantity,
			&item.UnitPrice,
			&item.Total,
		); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// UpdateStatus sets the status of an invoice. paidAt is only written when non-nil.
func (r *InvoiceRepository) UpdateStatus(ctx context.Context, id string, status domain.InvoiceStatus, paidAt *time.Time) error {
	query := `
		UPDATE invoices
		SET status = $1, paid_at = COALESCE($2, paid_at), updated_at = NOW()
		WHERE id = $3
	`

	result, err := r.q.ExecContext(ctx, query, status, paidAt, id)
	if err != nil {
		return translateError(err)
	}

	return checkAffected(result)
}
