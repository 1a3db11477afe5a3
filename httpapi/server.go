// Package httpapi exposes the payment processor over HTTP: the
// process-payment endpoints and the subscription webhook sink. Handlers
// are thin adapters; field-name normalization happens here and business
// rules stay in the processor.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/agentdao/subpay"
)

// Version reported by the health endpoint.
const Version = "1.0.0"

// PaymentService is the processor surface the HTTP layer depends on.
type PaymentService interface {
	ProcessPayment(ctx context.Context, req subpay.PaymentRequest) subpay.PaymentResult
	CheckSubscriptionStatus(ctx context.Context, userAddress string) (*subpay.SubscriptionStatus, error)
}

// RouterConfig configures the HTTP layer.
type RouterConfig struct {
	// Mode selects how payments accepted over HTTP execute their
	// transfer. Defaults to ModeSimulated: HTTP callers cannot supply a
	// chain signer, so on-chain mode requires a server-side signer
	// configured explicitly.
	Mode subpay.PaymentMode
}

// RouterOption customizes the router.
type RouterOption func(*RouterConfig)

// WithPaymentMode sets the transfer mode for HTTP payment requests.
func WithPaymentMode(mode subpay.PaymentMode) RouterOption {
	return func(c *RouterConfig) { c.Mode = mode }
}

// NewRouter builds the gin engine with all routes registered.
func NewRouter(service PaymentService, opts ...RouterOption) *gin.Engine {
	config := &RouterConfig{Mode: subpay.ModeSimulated}
	for _, opt := range opts {
		opt(config)
	}

	h := &handlers{service: service, mode: config.Mode}

	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", h.health)

	r.POST("/api/skills/web3-subscription/process-payment", h.processPayment)
	r.GET("/api/skills/web3-subscription/process-payment", h.paymentStatus)

	r.POST("/api/webhooks/subscription", h.webhookReceive)
	r.GET("/api/webhooks/subscription", h.webhookVerify)

	return r
}

type handlers struct {
	service PaymentService
	mode    subpay.PaymentMode
}

func (h *handlers) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": Version,
	})
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}
