package postgres

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coursepay/internal/domain"
	"coursepay/internal/repository"
)

// openTestDB connects to COURSEPAY_TEST_DSN and applies migrations, or skips.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := os.Getenv("COURSEPAY_TEST_DSN")
	if dsn == "" {
		t.Skip("COURSEPAY_TEST_DSN not set")
	}

	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.Ping())
	require.NoError(t, RunMigrations(db, ""))
	return db
}

// seedInvoice creates a user, a course and an invoice with one item.
func seedInvoice(t *testing.T, db *sql.DB) (*domain.User, *domain.Invoice) {
	t.Helper()
	ctx := context.Background()

	user, err := NewUserRepository(db).Upsert(ctx, &domain.User{
		ID:    uuid.NewString(),
		Email: uuid.NewString() + "@example.com",
	})
	require.NoError(t, err)

	course := &domain.Course{ID: "course-" + uuid.NewString(), Title: "Go", Price: decimal.RequireFromString("100.00"), IsActive: true}
	require.NoError(t, NewCourseRepository(db).Upsert(ctx, course))

	invoice := &domain.Invoice{
		ID:            uuid.NewString(),
		InvoiceNumber: "INV-" + uuid.NewString(),
		UserID:        user.ID,
		Status:        domain.InvoiceStatusPending,
		Subtotal:      decimal.RequireFromString("100.00"),
		Tax:           decimal.RequireFromString("15.00"),
		Total:         decimal.RequireFromString("115.00"),
		Items: []domain.InvoiceItem{{
			ID:        uuid.NewString(),
			CourseID:  course.ID,
			Quantity:  1,
			UnitPrice: decimal.RequireFromString("100.00"),
			Total:     decimal.RequireFromString("100.00"),
		}},
	}
	require.NoError(t, NewInvoiceRepository(db).Create(ctx, invoice))
	return user, invoice
}

func TestPaymentRepository_GatewayIDIsUnique(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	_, invoice := seedInvoice(t, db)
	payments := NewPaymentRepository(db)

	newPayment := func() *domain.Payment {
		p := &domain.Payment{
			ID:            uuid.NewString(),
			InvoiceID:     invoice.ID,
			Amount:        invoice.Total,
			Status:        domain.PaymentStatusPending,
			PaymentMethod: domain.PaymentMethodPayFast,
		}
		require.NoError(t, payments.Create(ctx, p))
		return p
	}
	first, second := newPayment(), newPayment()

	gatewayID := "PF-" + uuid.NewString()
	missing, err := payments.GetByGatewayPaymentID(ctx, gatewayID)
	require.NoError(t, err)
	assert.Nil(t, missing)

	update := domain.GatewayUpdate{
		Status:           domain.PaymentStatusCompleted,
		GatewayPaymentID: gatewayID,
		GatewayStatus:    "COMPLETE",
		RawPayload:       []byte(`{"pf_payment_id":"` + gatewayID + `"}`),
		ProcessedAt:      time.Now(),
	}
	require.NoError(t, payments.UpdateGatewayData(ctx, first.ID, update))
	assert.ErrorIs(t, payments.UpdateGatewayData(ctx, second.ID, update), repository.ErrDuplicate)
	assert.ErrorIs(t, payments.UpdateGatewayData(ctx, uuid.NewString(), update), repository.ErrNotFound)

	found, err := payments.GetByGatewayPaymentID(ctx, gatewayID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, first.ID, found.ID)
	assert.Equal(t, domain.PaymentStatusCompleted, found.Status)
	assert.JSONEq(t, string(update.RawPayload), string(found.RawPayload))

	list, err := payments.ListByInvoiceID(ctx, invoice.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestInvoiceAndEnrollmentRepositories(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	user, invoice := seedInvoice(t, db)
	invoices := NewInvoiceRepository(db)

	paidAt := time.Now()
	require.NoError(t, invoices.UpdateStatus(ctx, invoice.ID, domain.InvoiceStatusPaid, &paidAt))

	loaded, err := invoices.GetByNumber(ctx, invoice.InvoiceNumber)
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusPaid, loaded.Status)
	assert.NotNil(t, loaded.PaidAt)
	require.Len(t, loaded.Items, 1)

	_, err = invoices.GetByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, repository.ErrNotFound)

	enrollments := NewEnrollmentRepository(db)
	courseID := loaded.Items[0].CourseID
	first, err := enrollments.UpsertActive(ctx, user.ID, courseID)
	require.NoError(t, err)
	again, err := enrollments.UpsertActive(ctx, user.ID, courseID)
	require.NoError(t, err)

	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, domain.EnrollmentStatusActive, again.Status)
	assert.NotNil(t, again.EnrolledAt)

	list, err := enrollments.ListByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
