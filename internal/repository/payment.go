package repository

import (
	"context"

	"coursepay/internal/domain"
)

// PaymentRepository defines the persistence operations for payments.
type PaymentRepository interface {
	// Create persists a new payment.
	Create(ctx context.Context, payment *domain.Payment) error

	// GetByID retrieves a payment by ID.
	GetByID(ctx context.Context, id string) (*domain.Payment, error)

	// GetByGatewayPaymentID retrieves a payment by the gateway's payment identifier.
	// Returns nil if no payment carries the identifier.
	GetByGatewayPaymentID(ctx context.Context, gatewayPaymentID string) (*domain.Payment, error)

	// UpdateGatewayData writes reconciled gateway metadata onto a payment.
	// Returns ErrDuplicate if another payment already holds the gateway identifier.
	UpdateGatewayData(ctx context.Context, id string, update domain.GatewayUpdate) error

	// ListByInvoiceID retrieves the payments of an invoice, newest first.
	ListByInvoiceID(ctx context.Context, invoiceID string) ([]*domain.Payment, error)
}
