package payfast

import (
	"context"
	"log/slog"
)

// Reason tags why a notification was rejected.
type Reason string

const (
	ReasonInvalidSignature       Reason = "invalid_signature"
	ReasonInvalidSource          Reason = "invalid_source"
	ReasonMerchantMismatch       Reason = "merchant_mismatch"
	ReasonRemoteValidationFailed Reason = "remote_validation_failed"
)

// Result is the outcome of validating a notification.
type Result struct {
	Accepted bool
	Reason   Reason
}

func accept() Result              { return Result{Accepted: true} }
func reject(reason Reason) Result { return Result{Reason: reason} }

// SignatureVerifier checks the signature carried by a notification.
type SignatureVerifier interface {
	Verify(n Notification) bool
}

// SourcePolicy decides whether an origin address is an accepted notifier.
type SourcePolicy interface {
	Allowed(address string) bool
}

// Attestor asks the gateway itself whether a notification is authentic.
type Attestor interface {
	Validate(ctx context.Context, n Notification) (bool, error)
}

var (
	_ SignatureVerifier = (*Signer)(nil)
	_ SourcePolicy      = (*SourceAuthenticator)(nil)
	_ Attestor          = (*ValidationClient)(nil)
)

// Validator runs the ITN gates in order: signature, source, merchant id and,
// outside sandbox mode, remote attestation. The first failing gate decides the reason.
type Validator struct {
	signatures SignatureVerifier
	sources    SourcePolicy
	attestor   Attestor
	merchantID string
	sandbox    bool
	logger     *slog.Logger
}

// NewValidator creates a Validator. attestor may be nil in sandbox mode.
func NewValidator(
	signatures SignatureVerifier,
	sources SourcePolicy,
	attestor Attestor,
	merchantID string,
	sandbox bool,
	logger *slog.Logger,
) *Validator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Validator{
		signatures: signatures,
		sources:    sources,
		attestor:   attestor,
		merchantID: merchantID,
		sandbox:    sandbox,
		logger:     logger,
	}
}

// Validate decides whether a notification from sourceIP is accepted.
func (v *Validator) Validate(ctx context.Context, n Notification, sourceIP string) Result {
	log := v.logger.With("pf_payment_id", n.GatewayPaymentID(), "m_payment_id", n.PaymentID())

	if !v.signatures.Verify(n) {
		log.Warn("payfast signature validation failed", "received", n.Signature())
		return reject(ReasonInvalidSignature)
	}

	if !v.sources.Allowed(sourceIP) {
		log.Warn("payfast source validation failed", "source_ip", sourceIP)
		return reject(ReasonInvalidSource)
	}

	if n.MerchantID() != v.merchantID {
		log.Warn("payfast merchant id mismatch", "received", n.MerchantID(), "expected", v.merchantID)
		return reject(ReasonMerchantMismatch)
	}

	if !v.sandbox {
		if v.attestor == nil {
			log.Warn("payfast remote validation unavailable")
			return reject(ReasonRemoteValidationFailed)
		}
		ok, err := v.attestor.Validate(ctx, n)
		if !ok {
			if err != nil {
				log.Warn("payfast server validation failed", "error", err)
			} else {
				log.Warn("payfast server validation failed")
			}
			return reject(ReasonRemoteValidationFailed)
		}
	}

	return accept()
}
