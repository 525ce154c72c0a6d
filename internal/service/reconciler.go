package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"coursepay/internal/domain"
	"coursepay/internal/payfast"
	"coursepay/internal/repository"
)

const (
	messageAlreadyProcessed  = "Payment already processed"
	messageProcessed         = "Payment processed successfully"
	messageMissingGatewayID  = "Missing gateway payment id"
	messageMissingInvoiceRef = "Missing invoice reference"
	messageInvoiceNotFound   = "Invoice not found"
	messageInvalidAmount     = "Invalid payment amount"
	messageStorageError      = "Payment could not be stored"
)

// ReconcileResult describes what the reconciler did with an accepted notification.
type ReconcileResult struct {
	Success          bool
	PaymentID        string
	GatewayPaymentID string
	Status           payfast.Status
	Message          string
	Reason           Reason
	// Duplicate is set when the gateway payment id had already been recorded.
	Duplicate bool
}

// Reconciler matches accepted notifications to payments and records the gateway data.
type Reconciler struct {
	payments repository.PaymentRepository
	invoices repository.InvoiceRepository
	logger   *slog.Logger
	now      func() time.Time
}

// NewReconciler creates a new Reconciler.
func NewReconciler(payments repository.PaymentRepository, invoices repository.InvoiceRepository, logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{
		payments: payments,
		invoices: invoices,
		logger:   logger,
		now:      time.Now,
	}
}

// Reconcile records an accepted notification against its payment. It never returns
// an error: every failure is reported through the result.
func (r *Reconciler) Reconcile(ctx context.Context, n payfast.Notification) ReconcileResult {
	result := ReconcileResult{
		PaymentID:        n.PaymentID(),
		GatewayPaymentID: n.GatewayPaymentID(),
		Status:           n.PaymentStatus(),
	}
	log := r.logger.With("pf_payment_id", n.GatewayPaymentID(), "m_payment_id", n.PaymentID())

	// An empty gateway id would match any other payment recorded without one.
	if n.GatewayPaymentID() == "" {
		log.Error("missing pf_payment_id in notification")
		return result.fail(ReasonMissingGatewayPaymentID, messageMissingGatewayID)
	}

	// Replays of an already recorded gateway payment are acknowledged without writes.
	existing, err := r.payments.GetByGatewayPaymentID(ctx, n.GatewayPaymentID())
	if err != nil {
		log.Error("failed to look up payment by gateway id", "error", err)
		return result.fail(ReasonStorageError, messageStorageError)
	}
	if existing != nil {
		log.Info("payment already processed, skipping")
		return result.duplicate(existing.ID)
	}

	invoiceID := n.InvoiceReference()
	if invoiceID == "" {
		log.Error("missing invoice reference in custom_str2")
		return result.fail(ReasonMissingInvoiceReference, messageMissingInvoiceRef)
	}

	payment, reason := r.resolvePayment(ctx, log, n, invoiceID)
	if reason != "" {
		return result.fail(reason, failureMessage(reason))
	}
	result.PaymentID = payment.ID

	status := n.PaymentStatus().Internal()
	update := domain.GatewayUpdate{
		Status:           status,
		GatewayPaymentID: n.GatewayPaymentID(),
		GatewayStatus:    string(n.PaymentStatus()),
		RawPayload:       n.JSON(),
		ProcessedAt:      r.now(),
	}
	if desc := n.ItemDescription(); desc != "" {
		update.GatewayReference = &desc
	}

	if err := r.payments.UpdateGatewayData(ctx, payment.ID, update); err != nil {
		// A concurrent first delivery committed the same gateway id first.
		if errors.Is(err, repository.ErrDuplicate) {
			log.Info("payment recorded by concurrent delivery, skipping")
			return result.duplicate(payment.ID)
		}
		log.Error("failed to update payment with gateway data", "payment_id", payment.ID, "error", err)
		return result.fail(ReasonStorageError, messageStorageError)
	}

	log.Info("payment record updated", "payment_id", payment.ID, "internal_status", status)

	result.Success = true
	result.Message = messageProcessed
	return result
}

// resolvePayment finds the payment named by m_payment_id or creates one under the
// referenced invoice. A non-empty reason means the notification cannot be reconciled.
func (r *Reconciler) resolvePayment(ctx context.Context, log *slog.Logger, n payfast.Notification, invoiceID string) (*domain.Payment, Reason) {
	if paymentID := n.PaymentID(); paymentID != "" {
		payment, err := r.payments.GetByID(ctx, paymentID)
		switch {
		case err == nil:
			return payment, ""
		case !errors.Is(err, repository.ErrNotFound):
			log.Error("failed to look up payment", "error", err)
			return nil, ReasonStorageError
		}
	}

	invoice, err := r.invoices.GetByID(ctx, invoiceID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Error("invoice not found", "invoice_id", invoiceID)
			return nil, ReasonInvoiceNotFound
		}
		log.Error("failed to look up invoice", "invoice_id", invoiceID, "error", err)
		return nil, ReasonStorageError
	}

	amount, err := decimal.NewFromString(n.AmountGross())
	if err != nil {
		log.Error("invalid amount_gross", "amount_gross", n.AmountGross(), "error", err)
		return nil, ReasonInvalidAmount
	}

	payment := &domain.Payment{
		ID:            uuid.New().String(),
		InvoiceID:     invoice.ID,
		Amount:        amount,
		Status:        domain.PaymentStatusPending,
		PaymentMethod: domain.PaymentMethodPayFast,
	}
	if err := r.payments.Create(ctx, payment); err != nil {
		log.Error("failed to create payment", "invoice_id", invoice.ID, "error", err)
		return nil, ReasonStorageError
	}

	log.Info("payment created from notification", "payment_id", payment.ID, "invoice_id", invoice.ID)
	return payment, ""
}

func (r ReconcileResult) fail(reason Reason, message string) ReconcileResult {
	r.Success = false
	r.Reason = reason
	r.Message = message
	return r
}

func (r ReconcileResult) duplicate(paymentID string) ReconcileResult {
	r.Success = true
	r.Duplicate = true
	r.PaymentID = paymentID
	r.Message = messageAlreadyProcessed
	return r
}

func failureMessage(reason Reason) string {
	switch reason {
	case ReasonInvoiceNotFound:
		return messageInvoiceNotFound
	case ReasonInvalidAmount:
		return messageInvalidAmount
	case ReasonMissingInvoiceReference:
		return messageMissingInvoiceRef
	default:
		return messageStorageError
	}
}
