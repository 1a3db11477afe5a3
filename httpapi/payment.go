package httpapi

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agentdao/subpay"
)

// paymentRequestBody accepts both naming conventions on the wire:
// camelCase from our own clients and snake_case as emitted by the
// AgentDAO SDK. camelCase wins when both are present.
type paymentRequestBody struct {
	UserAddress     string      `json:"userAddress"`
	PlanID          string      `json:"planId"`
	BillingCycle    string      `json:"billingCycle"`
	Amount          interface{} `json:"amount"`
	ReceiverAddress string      `json:"receiverAddress"`
	Signature       string      `json:"signature"`
	Message         string      `json:"message"`

	SnakeUserAddress   string `json:"user_address"`
	SnakePlanID        string `json:"plan_id"`
	SnakeBillingPeriod string `json:"billing_period"`

	// Correlation fields from the SDK, logged for operators only.
	AgentID         string `json:"agent_id"`
	SubscriptionID  string `json:"subscription_id"`
	PlanName        string `json:"plan_name"`
	PaymentToken    string `json:"payment_token"`
	TransactionHash string `json:"transaction_hash"`
}

// normalize folds the aliased wire fields into the canonical request.
func (b *paymentRequestBody) normalize(mode subpay.PaymentMode) subpay.PaymentRequest {
	userAddress := b.UserAddress
	if userAddress == "" {
		userAddress = b.SnakeUserAddress
	}
	planID := b.PlanID
	if planID == "" {
		planID = b.SnakePlanID
	}
	billingCycle := b.BillingCycle
	if billingCycle == "" {
		billingCycle = b.SnakeBillingPeriod
	}

	return subpay.PaymentRequest{
		UserAddress:     userAddress,
		PlanID:          planID,
		BillingCycle:    subpay.BillingCycle(billingCycle),
		Amount:          amountString(b.Amount),
		ReceiverAddress: b.ReceiverAddress,
		Signature:       b.Signature,
		Message:         b.Message,
		Mode:            mode,
	}
}

// amountString renders the wire amount, which may arrive as a JSON
// number or string, as the processor's canonical string form.
func amountString(v interface{}) string {
	switch amount := v.(type) {
	case nil:
		return ""
	case string:
		return amount
	case float64:
		return fmt.Sprintf("%v", amount)
	default:
		return fmt.Sprintf("%v", amount)
	}
}

// processPayment handles POST /api/skills/web3-subscription/process-payment.
func (h *handlers) processPayment(c *gin.Context) {
	var body paymentRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Internal server error",
			"message": err.Error(),
		})
		return
	}

	req := body.normalize(h.mode)
	log.Printf("httpapi: payment request user=%s plan=%s cycle=%s amount=%s agent=%s hasSignature=%t",
		req.UserAddress, req.PlanID, req.BillingCycle, req.Amount, body.AgentID, req.Signature != "")

	result := h.service.ProcessPayment(c.Request.Context(), req)
	if !result.Success {
		c.JSON(http.StatusBadRequest, gin.H{
			"success":         false,
			"error":           result.Error,
			"errorCode":       result.ErrorCode,
			"transactionHash": result.TransactionHash,
			"userAddress":     req.UserAddress,
			"planId":          req.PlanID,
			"billingCycle":    req.BillingCycle,
			"amount":          req.Amount,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"subscriptionId":  result.SubscriptionID,
		"transactionHash": result.TransactionHash,
		"userAddress":     req.UserAddress,
		"planId":          req.PlanID,
		"billingCycle":    req.BillingCycle,
		"amount":          req.Amount,
		"receiverAddress": result.PaymentDetails.To,
		"timestamp":       timestamp(),
		"message":         "Payment processed successfully",
		"paymentDetails":  result.PaymentDetails,
	})
}

// paymentStatus handles GET /api/skills/web3-subscription/process-payment.
func (h *handlers) paymentStatus(c *gin.Context) {
	userAddress := c.Query("userAddress")
	if userAddress == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "User address is required",
		})
		return
	}

	status, err := h.service.CheckSubscriptionStatus(c.Request.Context(), userAddress)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success":     false,
			"error":       err.Error(),
			"userAddress": userAddress,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"status":      status,
		"userAddress": userAddress,
		"timestamp":   timestamp(),
	})
}
