package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"coursepay/internal/domain"
	"coursepay/internal/repository"
)

// SettlementReport lists the course ids whose enrollment was activated or failed.
type SettlementReport struct {
	InvoiceID string
	UserID    string
	Activated []string
	Failed    []string
}

// Settlement marks paid invoices and activates the enrollments they bought.
type Settlement struct {
	invoices    repository.InvoiceRepository
	enrollments repository.EnrollmentRepository
	logger      *slog.Logger
	now         func() time.Time
}

// NewSettlement creates a new Settlement.
func NewSettlement(invoices repository.InvoiceRepository, enrollments repository.EnrollmentRepository, logger *slog.Logger) *Settlement {
	if logger == nil {
		logger = slog.Default()
	}
	return &Settlement{
		invoices:    invoices,
		enrollments: enrollments,
		logger:      logger,
		now:         time.Now,
	}
}

// Settle marks the invoice PAID and activates one enrollment per line item.
// userRef overrides the invoice owner when non-empty. Only a failure to mark the
// invoice is returned; item failures are logged and listed in the report.
func (s *Settlement) Settle(ctx context.Context, invoiceID, userRef string) (*SettlementReport, error) {
	if invoiceID == "" {
		return nil, ErrInvalidInvoiceID
	}

	log := s.logger.With("invoice_id", invoiceID)
	log.Info("handling successful payment", "user_id", userRef)

	paidAt := s.now()
	if err := s.invoices.UpdateStatus(ctx, invoiceID, domain.InvoiceStatusPaid, &paidAt); err != nil {
		return nil, fmt.Errorf("mark invoice %s paid: %w", invoiceID, err)
	}
	log.Info("invoice status updated", "status", domain.InvoiceStatusPaid)

	report := &SettlementReport{InvoiceID: invoiceID, UserID: userRef}

	invoice, err := s.invoices.GetByID(ctx, invoiceID)
	if err != nil {
		log.Warn("invoice items not found", "error", err)
		return report, nil
	}

	if report.UserID == "" {
		report.UserID = invoice.UserID
	}

	for _, item := range invoice.Items {
		if err := s.activate(ctx, report.UserID, item.CourseID); err != nil {
			log.Error("failed to unlock course access", "user_id", report.UserID, "course_id", item.CourseID, "error", err)
			report.Failed = append(report.Failed, item.CourseID)
			continue
		}
		log.Info("course access unlocked", "user_id", report.UserID, "course_id", item.CourseID)
		report.Activated = append(report.Activated, item.CourseID)
	}

	return report, nil
}

// activate upserts a single enrollment, turning a panic into an error so the
// remaining items are still processed.
func (s *Settlement) activate(ctx context.Context, userID, courseID string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("enrollment activation panicked: %v", r)
		}
	}()

	_, err = s.enrollments.UpsertActive(ctx, userID, courseID)
	return err
}
