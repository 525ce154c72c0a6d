package tests

import (
	"io"
	"log/slog"

	"github.com/shopspring/decimal"

	"coursepay/internal/domain"
	"coursepay/internal/metrics"
	"coursepay/internal/payfast"
	"coursepay/internal/service"
)

const (
	testMerchantID = "10000100"
	testPassphrase = "jt7NOE43FZPn"
	testUserID     = "user-1"
	testInvoiceID  = "inv-1"
	testPaymentID  = "pay-1"
	testGatewayID  = "PF1"
	testCourseA    = "course-typescript-101"
	testCourseB    = "course-nodejs-advanced"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func seededInvoice(courseIDs ...string) *domain.Invoice {
	inv := &domain.Invoice{
		ID:            testInvoiceID,
		InvoiceNumber: "INV-1",
		UserID:        testUserID,
		Status:        domain.InvoiceStatusPending,
		Subtotal:      decimal.RequireFromString("499.99"),
		Tax:           decimal.RequireFromString("75.00"),
		Total:         decimal.RequireFromString("574.99"),
	}
	for i, courseID := range courseIDs {
		inv.Items = append(inv.Items, domain.InvoiceItem{
			ID:          "item-" + courseID,
			InvoiceID:   testInvoiceID,
			CourseID:    courseID,
			Description: "Course " + string(rune('A'+i)),
			Quantity:    1,
			UnitPrice:   decimal.RequireFromString("499.99"),
			Total:       decimal.RequireFromString("499.99"),
		})
	}
	return inv
}

func seededPayment() *domain.Payment {
	return &domain.Payment{
		ID:            testPaymentID,
		InvoiceID:     testInvoiceID,
		Amount:        decimal.RequireFromString("574.99"),
		Status:        domain.PaymentStatusPending,
		PaymentMethod: domain.PaymentMethodPayFast,
	}
}

// notification builds an unsigned notification for the seeded invoice and payment.
func notification(status payfast.Status) payfast.Notification {
	return payfast.Notification{
		payfast.FieldMerchantID:       testMerchantID,
		payfast.FieldPaymentID:        testPaymentID,
		payfast.FieldGatewayPaymentID: testGatewayID,
		payfast.FieldPaymentStatus:    string(status),
		payfast.FieldItemName:         "TypeScript 101",
		payfast.FieldItemDescription:  "Invoice INV-1",
		payfast.FieldAmountGross:      "574.99",
		payfast.FieldAmountFee:        "13.22",
		payfast.FieldAmountNet:        "561.77",
		payfast.FieldCustomStr1:       testUserID,
		payfast.FieldCustomStr2:       testInvoiceID,
		payfast.FieldEmailAddress:     "john.doe@example.com",
	}
}

func sign(n payfast.Notification) payfast.Notification {
	n[payfast.FieldSignature] = payfast.NewSigner(testPassphrase).Sign(n)
	return n
}

// pipeline wires the notification pipeline over mock repositories in sandbox mode.
type pipeline struct {
	payments    *MockPaymentRepository
	invoices    *MockInvoiceRepository
	enrollments *MockEnrollmentRepository
	locks       *MockLockStore
	counters    *metrics.Counters
	service     *service.ITNService
}

func newPipeline() *pipeline {
	p := &pipeline{
		payments:    NewMockPaymentRepository(),
		invoices:    NewMockInvoiceRepository(),
		enrollments: NewMockEnrollmentRepository(),
		locks:       NewMockLockStore(),
		counters:    metrics.NewCounters(nil),
	}

	logger := discardLogger()
	validator := payfast.NewValidator(
		payfast.NewSigner(testPassphrase),
		payfast.NewSourceAuthenticator(true, false),
		nil,
		testMerchantID,
		true,
		logger,
	)
	p.service = service.NewITNService(
		validator,
		service.NewReconciler(p.payments, p.invoices, logger),
		service.NewSettlement(p.invoices, p.enrollments, logger),
		p.locks,
		p.counters,
		logger,
	)
	return p
}
