package payfast

import "coursepay/internal/domain"

// Status is the gateway's payment status vocabulary.
type Status string

const (
	StatusComplete  Status = "COMPLETE"
	StatusFailed    Status = "FAILED"
	StatusPending   Status = "PENDING"
	StatusCancelled Status = "CANCELLED"
)

// Internal maps a gateway status onto the internal payment status.
// Unrecognised values map to PENDING.
func (s Status) Internal() domain.PaymentStatus {
	switch s {
	case StatusComplete:
		return domain.PaymentStatusCompleted
	case StatusFailed:
		return domain.PaymentStatusFailed
	case StatusPending:
		return domain.PaymentStatusPending
	case StatusCancelled:
		return domain.PaymentStatusCancelled
	default:
		return domain.PaymentStatusPending
	}
}

// IsComplete reports whether the status is the terminal success value.
func (s Status) IsComplete() bool {
	return s == StatusComplete
}
