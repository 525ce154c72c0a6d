package service

import "errors"

// Reason tags why a notification was not fully processed. Reasons describe
// acknowledged outcomes; they are never surfaced to the gateway.
type Reason string

const (
	// ReasonMissingGatewayPaymentID is reported when pf_payment_id is empty.
	ReasonMissingGatewayPaymentID Reason = "missing_gateway_payment_id"

	// ReasonMissingInvoiceReference is reported when custom_str2 is empty.
	ReasonMissingInvoiceReference Reason = "missing_invoice_reference"

	// ReasonInvoiceNotFound is reported when no payment exists and the referenced invoice is unknown.
	ReasonInvoiceNotFound Reason = "invoice_not_found"

	// ReasonInvalidAmount is reported when a payment must be created but amount_gross does not parse.
	ReasonInvalidAmount Reason = "invalid_amount"

	// ReasonStorageError is reported when a repository call fails unexpectedly.
	ReasonStorageError Reason = "storage_error"

	// ReasonAlreadyProcessing is reported when another delivery holds the claim on the gateway payment id.
	ReasonAlreadyProcessing Reason = "already_processing"

	// ReasonSettlementFailed is reported when the invoice could not be marked paid.
	ReasonSettlementFailed Reason = "settlement_failed"

	// ReasonInternalError is reported when processing panicked.
	ReasonInternalError Reason = "internal_error"
)

// ErrInvalidInvoiceID is returned when settlement is asked for an empty invoice id.
var ErrInvalidInvoiceID = errors.New("invalid invoice id")
