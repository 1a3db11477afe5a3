package httpapi

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agentdao/subpay"
)

// webhookBody is the notification payload posted by the gateway.
type webhookBody struct {
	Event          string      `json:"event"`
	SubscriptionID string      `json:"subscriptionId"`
	UserAddress    string      `json:"userAddress"`
	PlanID         string      `json:"planId"`
	BillingCycle   string      `json:"billingCycle"`
	Amount         interface{} `json:"amount"`
	Timestamp      string      `json:"timestamp"`
}

// webhookReceive handles POST /api/webhooks/subscription. The endpoint
// is a notification sink: events are acknowledged and logged, and
// unknown event names are accepted rather than rejected so the gateway
// can add event types without breaking deliveries.
func (h *handlers) webhookReceive(c *gin.Context) {
	var body webhookBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Webhook processing failed",
			"message": err.Error(),
		})
		return
	}

	event := subpay.WebhookEvent(body.Event)
	switch event {
	case subpay.EventSubscriptionCreated:
		log.Printf("webhook: subscription created sub=%s user=%s plan=%s", body.SubscriptionID, body.UserAddress, body.PlanID)
	case subpay.EventSubscriptionRenewed:
		log.Printf("webhook: subscription renewed sub=%s user=%s", body.SubscriptionID, body.UserAddress)
	case subpay.EventSubscriptionCancelled:
		log.Printf("webhook: subscription cancelled sub=%s user=%s", body.SubscriptionID, body.UserAddress)
	case subpay.EventPaymentFailed:
		log.Printf("webhook: payment failed sub=%s user=%s amount=%v", body.SubscriptionID, body.UserAddress, body.Amount)
	case subpay.EventPaymentSucceeded:
		log.Printf("webhook: payment succeeded sub=%s user=%s amount=%v", body.SubscriptionID, body.UserAddress, body.Amount)
	default:
		log.Printf("webhook: unknown event %q sub=%s user=%s", body.Event, body.SubscriptionID, body.UserAddress)
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"message":        "Webhook processed successfully",
		"event":          body.Event,
		"subscriptionId": body.SubscriptionID,
		"timestamp":      timestamp(),
	})
}

// webhookVerify handles GET /api/webhooks/subscription. With a
// challenge parameter this is the standard webhook-verification
// handshake; without one it acts as a liveness check.
func (h *handlers) webhookVerify(c *gin.Context) {
	if challenge := c.Query("challenge"); challenge != "" {
		c.JSON(http.StatusOK, gin.H{
			"success":   true,
			"challenge": challenge,
			"message":   "Webhook endpoint is active",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "Webhook endpoint is ready",
		"timestamp": timestamp(),
	})
}
