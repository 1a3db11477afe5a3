package subpay

import (
	"math/big"
	"time"
)

// BillingCycle identifies how often a subscription renews.
type BillingCycle string

const (
	BillingMonthly   BillingCycle = "monthly"
	BillingQuarterly BillingCycle = "quarterly"
	BillingAnnually  BillingCycle = "annually"
)

// Valid reports whether the cycle is one of the known billing cycles.
func (c BillingCycle) Valid() bool {
	switch c {
	case BillingMonthly, BillingQuarterly, BillingAnnually:
		return true
	}
	return false
}

// PaymentMode selects how the token transfer is executed.
// The mode is chosen explicitly by the caller; it is never inferred
// from which optional fields happen to be set.
type PaymentMode string

const (
	// ModeSimulated synthesizes a transaction hash and skips on-chain
	// submission. Used by tests and trusted-backend callers.
	ModeSimulated PaymentMode = "simulated"
	// ModeOnChain submits a real ERC-20 transfer and waits for it to mine.
	ModeOnChain PaymentMode = "onchain"
)

// PaymentRequest is the canonical input to a payment attempt. HTTP
// adapters normalize wire field names (snake_case or camelCase) into
// this shape before the processor ever sees the request.
type PaymentRequest struct {
	UserAddress     string
	PlanID          string
	BillingCycle    BillingCycle
	Amount          string // human token units, parsed as a number
	ReceiverAddress string // optional, falls back to the configured treasury
	Signature       string // optional, paired with Message
	Message         string
	Mode            PaymentMode
}

// PaymentDetails describes a completed transfer for the caller.
type PaymentDetails struct {
	From         string  `json:"from"`
	To           string  `json:"to"`
	Amount       float64 `json:"amount"`
	Token        string  `json:"token"`
	TokenAddress string  `json:"tokenAddress"`
}

// PaymentResult is the outcome of a payment attempt. Business failures
// are returned here, never raised past the processor boundary.
//
// TransactionHash is populated on failure too when a transfer already
// completed on-chain before a later step failed, so the caller can
// reconcile moved funds against the missing subscription record.
type PaymentResult struct {
	Success         bool            `json:"success"`
	SubscriptionID  string          `json:"subscriptionId,omitempty"`
	TransactionHash string          `json:"transactionHash,omitempty"`
	GasUsed         string          `json:"gasUsed,omitempty"`
	BlockNumber     uint64          `json:"blockNumber,omitempty"`
	PaymentDetails  *PaymentDetails `json:"paymentDetails,omitempty"`
	ErrorCode       string          `json:"errorCode,omitempty"`
	Error           string          `json:"error,omitempty"`
}

// Subscription is the gateway's record of an active subscription.
type Subscription struct {
	ID           string       `json:"id"`
	UserAddress  string       `json:"userAddress"`
	PlanID       string       `json:"planId"`
	BillingCycle BillingCycle `json:"billingCycle"`
	Status       string       `json:"status"`
	CreatedAt    time.Time    `json:"createdAt"`
	ExpiresAt    time.Time    `json:"expiresAt,omitzero"`
}

// SubscriptionStatus is the result of a status lookup.
type SubscriptionStatus struct {
	Active       bool          `json:"active"`
	Subscription *Subscription `json:"subscription,omitempty"`
}

// TransferReceipt reports a mined token transfer.
type TransferReceipt struct {
	TxHash      string
	BlockNumber uint64
	GasUsed     uint64
	Status      uint64
}

// Transfer receipt status values, mirroring EVM receipt semantics.
const (
	TxStatusFailed  uint64 = 0
	TxStatusSuccess uint64 = 1
)

// GasEstimate reports the expected cost of a token transfer.
type GasEstimate struct {
	GasLimit uint64   `json:"gasLimit"`
	GasPrice *big.Int `json:"gasPrice"`
	TotalWei *big.Int `json:"totalWei"`
}

// WebhookEvent names the subscription lifecycle events delivered to the
// webhook sink. Unknown event names are accepted and logged, not rejected.
type WebhookEvent string

const (
	EventSubscriptionCreated   WebhookEvent = "subscription.created"
	EventSubscriptionRenewed   WebhookEvent = "subscription.renewed"
	EventSubscriptionCancelled WebhookEvent = "subscription.cancelled"
	EventPaymentFailed         WebhookEvent = "payment.failed"
	EventPaymentSucceeded      WebhookEvent = "payment.succeeded"
)

// Known reports whether the event is part of the published set.
func (e WebhookEvent) Known() bool {
	switch e {
	case EventSubscriptionCreated, EventSubscriptionRenewed,
		EventSubscriptionCancelled, EventPaymentFailed, EventPaymentSucceeded:
		return true
	}
	return false
}

// WebhookNotification is the payload delivered to the webhook endpoint.
type WebhookNotification struct {
	Event          WebhookEvent `json:"event"`
	SubscriptionID string       `json:"subscriptionId,omitempty"`
	UserAddress    string       `json:"userAddress,omitempty"`
	PlanID         string       `json:"planId,omitempty"`
	BillingCycle   BillingCycle `json:"billingCycle,omitempty"`
	Amount         float64      `json:"amount,omitempty"`
	Timestamp      string       `json:"timestamp,omitempty"`
}
