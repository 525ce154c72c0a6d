package repository

import (
	"context"
	"time"

	"coursepay/internal/domain"
)

// InvoiceRepository defines the persistence operations for invoices.
type InvoiceRepository interface {
	// Create persists a new invoice together with its items.
	Create(ctx context.Context, invoice *domain.Invoice) error

	// GetByID retrieves an invoice and its items.
	GetByID(ctx context.Context, id string) (*domain.Invoice, error)

	// GetByNumber retrieves an invoice and its items by invoice number.
	GetByNumber(ctx context.Context, number string) (*domain.Invoice, error)

	// UpdateStatus sets the status of an invoice. paidAt is only written when non-nil.
	UpdateStatus(ctx context.Context, id string, status domain.InvoiceStatus, paidAt *time.Time) error
}
