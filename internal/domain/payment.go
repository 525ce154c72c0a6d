package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus represents the current status of a payment.
type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "PENDING"
	PaymentStatusProcessing PaymentStatus = "PROCESSING"
	PaymentStatusCompleted  PaymentStatus = "COMPLETED"
	PaymentStatusFailed     PaymentStatus = "FAILED"
	PaymentStatusCancelled  PaymentStatus = "CANCELLED"
)

// PaymentMethodPayFast is the only payment method recorded by this service.
const PaymentMethodPayFast = "payfast"

// Payment represents a payment attempt against an invoice.
type Payment struct {
	ID               string
	InvoiceID        string
	Amount           decimal.Decimal
	Status           PaymentStatus
	PaymentMethod    string
	GatewayPaymentID *string // Unique once set.
	GatewayReference *string
	GatewayStatus    *string
	RawPayload       json.RawMessage
	ProcessedAt      *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// GatewayUpdate carries the gateway metadata written onto a payment
// when a notification is reconciled.
type GatewayUpdate struct {
	Status           PaymentStatus
	GatewayPaymentID string
	GatewayReference *string
	GatewayStatus    string
	RawPayload       json.RawMessage
	ProcessedAt      time.Time
}
