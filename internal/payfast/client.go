package payfast

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/newrelic/go-agent/v3/newrelic"
	"golang.org/x/time/rate"
)

// Validate endpoints operated by PayFast.
const (
	SandboxValidateURL    = "https://sandbox.payfast.co.za/eng/query/validate"
	ProductionValidateURL = "https://www.payfast.co.za/eng/query/validate"
)

// validResponse is the literal body PayFast returns for an authentic notification.
const validResponse = "VALID"

// maxResponseBytes bounds how much of the validate response is read.
const maxResponseBytes = 1 << 10

// ValidationClient re-submits notifications to PayFast's validate endpoint.
type ValidationClient struct {
	httpClient *http.Client
	url        string
	limiter    *rate.Limiter
}

// NewValidationClient creates a ValidationClient. rps paces outbound calls;
// zero or negative means unlimited. The transport is wrapped so calls show up as
// external segments of the current New Relic transaction.
func NewValidationClient(url string, rps float64, transport http.RoundTripper) *ValidationClient {
	if transport == nil {
		transport = http.DefaultTransport
	}

	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}

	return &ValidationClient{
		httpClient: &http.Client{Transport: newrelic.NewRoundTripper(transport)},
		url:        url,
		limiter:    rate.NewLimiter(limit, 1),
	}
}

// URL returns the validate endpoint in use.
func (c *ValidationClient) URL() string {
	return c.url
}

// Validate posts every field of the notification and reports whether PayFast answered VALID.
// Any transport failure is returned as an error together with false.
func (c *ValidationClient) Validate(ctx context.Context, n Notification) (bool, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return false, fmt.Errorf("payfast: validate rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, strings.NewReader(n.Form().Encode()))
	if err != nil {
		return false, fmt.Errorf("payfast: failed to create validate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("payfast: failed to perform validate request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return false, fmt.Errorf("payfast: failed to read validate response: %w", err)
	}

	return string(body) == validResponse, nil
}
