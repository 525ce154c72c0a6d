package payfast

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"coursepay/internal/domain"
)

func TestStatus_Internal(t *testing.T) {
	tests := []struct {
		status Status
		want   domain.PaymentStatus
	}{
		{StatusComplete, domain.PaymentStatusCompleted},
		{StatusFailed, domain.PaymentStatusFailed},
		{StatusPending, domain.PaymentStatusPending},
		{StatusCancelled, domain.PaymentStatusCancelled},
		{Status("REFUNDED"), domain.PaymentStatusPending},
		{Status("complete"), domain.PaymentStatusPending},
		{Status(""), domain.PaymentStatusPending},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.status.Internal())
		})
	}
}

func TestStatus_IsComplete(t *testing.T) {
	assert.True(t, StatusComplete.IsComplete())
	assert.False(t, StatusPending.IsComplete())
	assert.False(t, Status("COMPLETED").IsComplete())
}
