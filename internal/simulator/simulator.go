// Package simulator builds signed PayFast notifications and delivers them to a
// webhook endpoint, for exercising a running server by hand.
package simulator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"coursepay/internal/payfast"
)

// DefaultFee is the gateway fee deducted from the gross amount.
var DefaultFee = decimal.RequireFromString("13.22")

// ErrUnsupportedStatus is returned for statuses the simulator does not send.
var ErrUnsupportedStatus = errors.New("status must be COMPLETE, FAILED or CANCELLED")

// Params describes the notification to simulate.
type Params struct {
	MerchantID string
	Passphrase string
	UserID     string
	InvoiceID  string
	PaymentID  string
	ItemName   string
	Amount     decimal.Decimal
	Status     payfast.Status
	// GatewayPaymentID defaults to a fresh PF-prefixed id.
	GatewayPaymentID string
}

// ParseStatus accepts the statuses a simulated delivery may carry, case-insensitively.
func ParseStatus(s string) (payfast.Status, error) {
	switch status := payfast.Status(strings.ToUpper(s)); status {
	case payfast.StatusComplete, payfast.StatusFailed, payfast.StatusCancelled:
		return status, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedStatus, s)
	}
}

// Build returns a signed notification for p.
func Build(p Params) payfast.Notification {
	gatewayID := p.GatewayPaymentID
	if gatewayID == "" {
		gatewayID = "PF" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	}

	n := payfast.Notification{
		payfast.FieldMerchantID:       p.MerchantID,
		payfast.FieldPaymentID:        p.PaymentID,
		payfast.FieldGatewayPaymentID: gatewayID,
		payfast.FieldPaymentStatus:    string(p.Status),
		payfast.FieldItemName:         p.ItemName,
		payfast.FieldAmountGross:      p.Amount.StringFixed(2),
		payfast.FieldAmountFee:        DefaultFee.StringFixed(2),
		payfast.FieldAmountNet:        p.Amount.Sub(DefaultFee).StringFixed(2),
		payfast.FieldCustomStr1:       p.UserID,
		payfast.FieldCustomStr2:       p.InvoiceID,
		payfast.FieldNameFirst:        "John",
		payfast.FieldNameLast:         "Doe",
		payfast.FieldEmailAddress:     "john.doe@example.com",
	}
	n[payfast.FieldSignature] = payfast.NewSigner(p.Passphrase).Sign(n)
	return n
}

// Response is what the webhook endpoint answered.
type Response struct {
	StatusCode int
	Body       string
}

// Client posts notifications to a webhook URL.
type Client struct {
	httpClient *http.Client
	url        string
}

// NewClient creates a Client for the given webhook URL.
func NewClient(url string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		url:        url,
	}
}

// Send delivers n form-encoded, the way the gateway does.
func (c *Client) Send(ctx context.Context, n payfast.Notification) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, strings.NewReader(n.Form().Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send webhook: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return nil, fmt.Errorf("failed to read webhook response: %w", err)
	}

	return &Response{StatusCode: resp.StatusCode, Body: string(body)}, nil
}
