package handler

import (
	"context"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"

	"coursepay/internal/metrics"
	"coursepay/internal/payfast"
	"coursepay/internal/service"
)

// ITNProcessor runs a decoded notification through the payment pipeline.
type ITNProcessor interface {
	Process(ctx context.Context, n payfast.Notification, sourceIP string) service.Outcome
	Stats() metrics.Snapshot
}

var _ ITNProcessor = (*service.ITNService)(nil)

// WebhookHandler handles PayFast ITN deliveries.
type WebhookHandler struct {
	processor ITNProcessor
	logger    *slog.Logger
	now       func() time.Time
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(processor ITNProcessor, logger *slog.Logger) *WebhookHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &WebhookHandler{
		processor: processor,
		logger:    logger,
		now:       time.Now,
	}
}

// WebhookHealthResponse is the body of the webhook health check.
type WebhookHealthResponse struct {
	Status    string           `json:"status"`
	Endpoint  string           `json:"endpoint"`
	Timestamp string           `json:"timestamp"`
	Stats     metrics.Snapshot `json:"stats"`
}

// PayFastITN handles POST /api/v1/webhooks/payfast
// The response is always 200 OK; outcomes are only visible in logs and metrics.
func (h *WebhookHandler) PayFastITN(c *gin.Context) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("panic in payfast webhook handler", "panic", r, "stack", string(debug.Stack()))
			acknowledge(c)
		}
	}()

	if err := c.Request.ParseForm(); err != nil {
		h.logger.Warn("malformed payfast webhook body", "error", err)
		acknowledge(c)
		return
	}

	n := payfast.NotificationFromForm(c.Request.PostForm)
	sourceIP := sourceAddress(c)

	// Client disconnects must not abort a delivery halfway through settlement.
	ctx := context.WithoutCancel(c.Request.Context())
	txn := nrgin.Transaction(c)
	if txn != nil {
		ctx = newrelic.NewContext(ctx, txn)
	}

	out := h.processor.Process(ctx, n, sourceIP)

	if txn != nil {
		txn.AddAttribute("pf_payment_id", n.GatewayPaymentID())
		txn.AddAttribute("payment_status", string(n.PaymentStatus()))
		txn.AddAttribute("itn_accepted", out.Accepted)
		if out.Reason != "" {
			txn.AddAttribute("itn_reason", out.Reason)
		}
	}

	acknowledge(c)
}

// Health handles GET /api/v1/webhooks/health
func (h *WebhookHandler) Health(c *gin.Context) {
	respondJSON(c, http.StatusOK, WebhookHealthResponse{
		Status:    "ok",
		Endpoint:  "webhooks",
		Timestamp: h.now().UTC().Format(time.RFC3339),
		Stats:     h.processor.Stats(),
	})
}

// sourceAddress returns the first X-Forwarded-For entry, falling back to the
// transport peer address.
func sourceAddress(c *gin.Context) string {
	if forwarded := c.GetHeader("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	return c.RemoteIP()
}
