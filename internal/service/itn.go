package service

import (
	"context"
	"log/slog"
	"runtime/debug"

	"github.com/newrelic/go-agent/v3/newrelic"

	"coursepay/internal/metrics"
	"coursepay/internal/payfast"
	"coursepay/internal/redis"
)

// NotificationValidator decides whether a notification is authentic.
type NotificationValidator interface {
	Validate(ctx context.Context, n payfast.Notification, sourceIP string) payfast.Result
}

var _ NotificationValidator = (*payfast.Validator)(nil)

// Outcome summarises how a single notification delivery was handled.
type Outcome struct {
	// Accepted is set once the notification passed validation.
	Accepted       bool
	Reason         string
	Reconciliation *ReconcileResult
	Settlement     *SettlementReport
}

// ITNService runs the notification pipeline: validate, claim, reconcile, settle.
type ITNService struct {
	validator  NotificationValidator
	reconciler *Reconciler
	settlement *Settlement
	locker     redis.NotificationLocker
	counters   *metrics.Counters
	logger     *slog.Logger
}

// NewITNService creates a new ITNService. locker may be nil, in which case
// concurrent deliveries rely on the storage uniqueness constraint alone.
func NewITNService(
	validator NotificationValidator,
	reconciler *Reconciler,
	settlement *Settlement,
	locker redis.NotificationLocker,
	counters *metrics.Counters,
	logger *slog.Logger,
) *ITNService {
	if counters == nil {
		counters = metrics.NewCounters(nil)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ITNService{
		validator:  validator,
		reconciler: reconciler,
		settlement: settlement,
		locker:     locker,
		counters:   counters,
		logger:     logger,
	}
}

// Stats returns the processing counters.
func (s *ITNService) Stats() metrics.Snapshot {
	return s.counters.Snapshot()
}

// Process handles one notification delivery to completion. It never fails:
// rejections, reconciliation failures and panics are all reported in the Outcome.
func (s *ITNService) Process(ctx context.Context, n payfast.Notification, sourceIP string) (out Outcome) {
	log := s.logger.With(
		"pf_payment_id", n.GatewayPaymentID(),
		"m_payment_id", n.PaymentID(),
		"status", n.PaymentStatus(),
	)

	defer func() {
		if r := recover(); r != nil {
			log.Error("panic while processing payfast webhook", "panic", r, "stack", string(debug.Stack()))
			s.counters.IncFailed()
			out = Outcome{Accepted: out.Accepted, Reason: string(ReasonInternalError)}
		}
	}()

	s.counters.IncReceived()
	log.Info("processing payfast webhook", "source_ip", sourceIP)

	seg := startSegment(ctx, "ITN/validate")
	validation := s.validator.Validate(ctx, n, sourceIP)
	seg.End()

	if !validation.Accepted {
		log.Warn("ITN validation failed", "reason", validation.Reason)
		s.counters.IncRejected()
		return Outcome{Reason: string(validation.Reason)}
	}
	out.Accepted = true

	if release, claimed := s.claim(ctx, log, n.GatewayPaymentID()); !claimed {
		s.counters.IncDuplicate()
		out.Reason = string(ReasonAlreadyProcessing)
		return out
	} else if release != nil {
		defer release()
	}

	seg = startSegment(ctx, "ITN/reconcile")
	rec := s.reconciler.Reconcile(ctx, n)
	seg.End()
	out.Reconciliation = &rec

	switch {
	case !rec.Success:
		s.counters.IncFailed()
		out.Reason = string(rec.Reason)
		return out
	case rec.Duplicate:
		s.counters.IncDuplicate()
		return out
	}
	s.counters.IncReconciled()

	if n.PaymentStatus().IsComplete() {
		seg = startSegment(ctx, "ITN/settle")
		report, err := s.settlement.Settle(ctx, n.InvoiceReference(), n.UserReference())
		seg.End()
		if err != nil {
			log.Error("failed to settle invoice", "invoice_id", n.InvoiceReference(), "error", err)
			s.counters.IncFailed()
			out.Reason = string(ReasonSettlementFailed)
			return out
		}
		out.Settlement = report
		s.counters.IncSettled()
		s.counters.AddEnrollmentFailures(len(report.Failed))
	}

	log.Info("payfast webhook processed", "payment_id", rec.PaymentID, "message", rec.Message)
	return out
}

// claim takes the Redis claim on the gateway payment id. claimed is false only
// when another delivery holds it; Redis failures fall through unclaimed.
func (s *ITNService) claim(ctx context.Context, log *slog.Logger, gatewayPaymentID string) (release func(), claimed bool) {
	if s.locker == nil || gatewayPaymentID == "" {
		return nil, true
	}

	ok, err := s.locker.AcquireNotificationLock(ctx, gatewayPaymentID, redis.NotificationLockTTL)
	if err != nil {
		log.Warn("failed to acquire notification lock, continuing without it", "error", err)
		return nil, true
	}
	if !ok {
		log.Info("notification already being processed by another delivery")
		return nil, false
	}

	return func() {
		if err := s.locker.ReleaseNotificationLock(context.WithoutCancel(ctx), gatewayPaymentID); err != nil {
			log.Warn("failed to release notification lock", "error", err)
		}
	}, true
}

func startSegment(ctx context.Context, name string) *newrelic.Segment {
	return newrelic.FromContext(ctx).StartSegment(name)
}
