package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus represents the current status of an invoice.
type InvoiceStatus string

const (
	InvoiceStatusPending   InvoiceStatus = "PENDING"
	InvoiceStatusPaid      InvoiceStatus = "PAID"
	InvoiceStatusCancelled InvoiceStatus = "CANCELLED"
	InvoiceStatusRefunded  InvoiceStatus = "REFUNDED"
)

// Invoice represents a bill for one or more courses.
// Total is Subtotal + Tax, fixed at creation.
type Invoice struct {
	ID            string
	InvoiceNumber string
	UserID        string
	Status        InvoiceStatus
	Subtotal      decimal.Decimal
	Tax           decimal.Decimal
	Total         decimal.Decimal
	PaidAt        *time.Time
	Items         []InvoiceItem
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// InvoiceItem is one line of an invoice.
type InvoiceItem struct {
	ID          string
	InvoiceID   string
	CourseID    string
	Description string
	Quantity    int
	UnitPrice   decimal.Decimal
	Total       decimal.Decimal
}
