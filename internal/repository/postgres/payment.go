package postgres

import (
	"context"
	"database/sql"
	"errors"

	"coursepay/internal/domain"
	"coursepay/internal/repository"
)

// PaymentRepository is a PostgreSQL implementation of repository.PaymentRepository.
type PaymentRepository struct {
	q Querier
}

// NewPaymentRepository creates a new PostgreSQL payment repository.
func NewPaymentRepository(db *sql.DB) *PaymentRepository {
	return &PaymentRepository{q: db}
}

// NewPaymentRepositoryWithTx creates a payment repository using a transaction.
func NewPaymentRepositoryWithTx(tx *sql.Tx) *PaymentRepository {
	return &PaymentRepository{q: tx}
}

var _ repository.PaymentRepository = (*PaymentRepository)(nil)

const paymentColumns = `
	id, invoice_id, amount, status, payment_method, gateway_payment_id,
	gateway_reference, gateway_status, raw_payload, processed_at, created_at, updated_at
`

// Create persists a new payment.
func (r *PaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	query := `
		INSERT INTO payments (id, invoice_id, amount, status, payment_method)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`

	err := r.q.QueryRowContext(ctx, query,
		payment.ID,
		payment.InvoiceID,
		payment.Amount,
		payment.Status,
		payment.PaymentMethod,
	).Scan(&payment.CreatedAt, &payment.UpdatedAt)

	return translateError(err)
}

// GetByID retrieves a payment by ID.
func (r *PaymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`

	payment, err := scanPayment(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, translateError(err)
	}
	return payment, nil
}

// GetByGatewayPaymentID retrieves a payment by the gateway's payment identifier.
// Returns nil if no payment carries the identifier.
func (r *PaymentRepository) GetByGatewayPaymentID(ctx context.Context, gatewayPaymentID string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE gateway_payment_id = $1`

	payment, err := scanPayment(r.q.QueryRowContext(ctx, query, gatewayPaymentID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return payment, nil
}

// UpdateGatewayData writes reconciled gateway metadata onto a payment.
func (r *PaymentRepository) UpdateGatewayData(ctx context.Context, id string, update domain.GatewayUpdate) error {
	query := `
		UPDATE payments
		SET status = $1,
			gateway_payment_id = $2,
			gateway_reference = $3,
			gateway_status = $4,
			raw_payload = $5,
			processed_at = $6,
			updated_at = NOW()
		WHERE id = $7
	`

	result, err := r.q.ExecContext(ctx, query,
		update.Status,
		update.GatewayPaymentID,
		update.GatewayReference,
		update.GatewayStatus,
		nullableJSON(update.RawPayload),
		update.ProcessedAt,
		id,
	)
	if err != nil {
		return translateError(err)
	}

	return checkAffected(result)
}

// ListByInvoiceID retrieves the payments of an invoice, newest first.
func (r *PaymentRepository) ListByInvoiceID(ctx context.Context, invoiceID string) ([]*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE invoice_id = $1 ORDER BY created_at DESC`

	rows, err := r.q.QueryContext(ctx, query, invoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*domain.Payment
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, payment)
	}
	return payments, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPayment(row rowScanner) (*domain.Payment, error) {
	var payment domain.Payment
	var raw []byte
	err := row.Scan(
		&payment.ID,
		&payment.InvoiceID,
		&payment.Amount,
		&payment.Status,
		&payment.PaymentMethod,
		&payment.GatewayPaymentID,
		&payment.GatewayReference,
		&payment.GatewayStatus,
		&raw,
		&payment.ProcessedAt,
		&payment.CreatedAt,
		&payment.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	payment.RawPayload = raw
	return &payment, nil
}
