package subpay

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// simulatedGasUsed is reported for transfers that never touch the chain.
const simulatedGasUsed = "150000"

// PaymentProcessor turns a PaymentRequest into a PaymentResult,
// enforcing balance and identity invariants before touching the chain
// and leaving the system in a well-defined state regardless of which
// step fails.
type PaymentProcessor struct {
	config     Config
	catalog    *PlanCatalog
	chain      ChainClient
	gateway    SubscriptionGateway
	transferor TokenTransferor
	notifier   WebhookNotifier
	journal    *ReconciliationJournal
	inflight   *inflightGuard
}

// ProcessorOption configures optional processor collaborators.
type ProcessorOption func(*PaymentProcessor)

// WithTransferor supplies the signing chain client required for
// on-chain mode. Without it, only simulated payments are possible.
func WithTransferor(t TokenTransferor) ProcessorOption {
	return func(p *PaymentProcessor) { p.transferor = t }
}

// WithNotifier supplies the webhook notifier for lifecycle events.
func WithNotifier(n WebhookNotifier) ProcessorOption {
	return func(p *PaymentProcessor) { p.notifier = n }
}

// WithPlans replaces the default plan catalog.
func WithPlans(c *PlanCatalog) ProcessorOption {
	return func(p *PaymentProcessor) { p.catalog = c }
}

// NewPaymentProcessor creates a processor over the given chain client
// and subscription gateway.
func NewPaymentProcessor(cfg Config, chain ChainClient, gateway SubscriptionGateway, opts ...ProcessorOption) (*PaymentProcessor, error) {
	p := &PaymentProcessor{
		config:   cfg,
		chain:    chain,
		gateway:  gateway,
		journal:  NewReconciliationJournal(),
		inflight: newInflightGuard(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.catalog == nil {
		catalog, err := NewPlanCatalog(DefaultPlans())
		if err != nil {
			return nil, fmt.Errorf("failed to build plan catalog: %w", err)
		}
		p.catalog = catalog
	}
	return p, nil
}

// Catalog returns the plan catalog this processor sells from.
func (p *PaymentProcessor) Catalog() *PlanCatalog {
	return p.catalog
}

// Journal returns the reconciliation journal for operator inspection.
func (p *PaymentProcessor) Journal() *ReconciliationJournal {
	return p.journal
}

// ProcessPayment validates the request, checks balances, verifies the
// optional signature, executes (or simulates) the token transfer, and
// records the subscription. Validation order is a contract: fail fast,
// first failure wins, so clients can distinguish missing from malformed
// fields deterministically.
func (p *PaymentProcessor) ProcessPayment(ctx context.Context, req PaymentRequest) PaymentResult {
	log.Printf("payment: processing request user=%s plan=%s cycle=%s amount=%s mode=%s",
		req.UserAddress, req.PlanID, req.BillingCycle, req.Amount, req.Mode)

	// 1. User address.
	if req.UserAddress == "" {
		return failure(ErrCodeInvalidRequest, "Missing user address")
	}
	if !common.IsHexAddress(req.UserAddress) {
		return failure(ErrCodeInvalidRequest, "Invalid user address format")
	}

	// 2. Plan.
	if req.PlanID == "" {
		return failure(ErrCodeInvalidRequest, "Missing plan ID")
	}
	if _, ok := p.catalog.Plan(req.PlanID); !ok {
		return failure(ErrCodeInvalidRequest, "Invalid plan ID")
	}

	// 3. Billing cycle.
	if req.BillingCycle == "" {
		return failure(ErrCodeInvalidRequest, "Missing billing cycle")
	}
	if !req.BillingCycle.Valid() {
		return failure(ErrCodeInvalidRequest, "Invalid billing cycle")
	}

	// 4. Amount.
	if req.Amount == "" {
		return failure(ErrCodeInvalidRequest, "Missing amount")
	}
	amount, err := strconv.ParseFloat(req.Amount, 64)
	if err != nil || amount <= 0 {
		return failure(ErrCodeInvalidRequest, "Invalid amount format")
	}

	// 5. Receiver.
	receiver := req.ReceiverAddress
	if receiver == "" {
		receiver = p.config.ReceiverAddress
	}
	if !common.IsHexAddress(receiver) {
		return failure(ErrCodeInvalidRequest, "Invalid receiver address")
	}

	// 6. Optional signature. Absence of the pair is the trusted-caller
	// path, not an error.
	if req.Signature != "" && req.Message != "" {
		ok, err := VerifyPersonalSignature(req.Message, req.Signature, req.UserAddress)
		if err != nil || !ok {
			if err != nil {
				log.Printf("payment: signature recovery failed user=%s err=%v", req.UserAddress, err)
			}
			return failure(ErrCodeInvalidSignature, "Invalid signature")
		}
	}

	// One attempt at a time per address.
	if !p.inflight.acquire(req.UserAddress) {
		return failure(ErrCodePaymentInProgress, "A payment for this address is already in progress")
	}
	defer p.inflight.release(req.UserAddress)

	result := p.execute(ctx, req, amount, receiver)
	p.notify(ctx, req, amount, result)
	return result
}

// execute runs the funded part of the payment: balance checks, the
// transfer, and subscription creation.
func (p *PaymentProcessor) execute(ctx context.Context, req PaymentRequest, amount float64, receiver string) PaymentResult {
	// 7. Native balance covers gas.
	nativeBalance, err := p.chain.NativeBalance(ctx, req.UserAddress)
	if err != nil {
		log.Printf("payment: native balance read failed user=%s err=%v", req.UserAddress, err)
		return failure(ErrCodeTransferFailed, fmt.Sprintf("Failed to read native balance: %v", err))
	}
	if nativeBalance.Cmp(p.config.MinGasWei) < 0 {
		return failure(ErrCodeInsufficientGas, fmt.Sprintf(
			"Insufficient ETH for gas fees. You need at least %s ETH. Current balance: %s ETH.",
			FormatEther(p.config.MinGasWei), FormatEther(nativeBalance)))
	}

	// 8. Token balance covers the price.
	tokenBalance, err := p.chain.TokenBalance(ctx, req.UserAddress)
	if err != nil {
		log.Printf("payment: token balance read failed user=%s err=%v", req.UserAddress, err)
		return failure(ErrCodeTransferFailed, fmt.Sprintf("Failed to read token balance: %v", err))
	}
	required := AmountToBaseUnits(amount, p.config.Token.Decimals)
	if tokenBalance.Cmp(required) < 0 {
		symbol := p.config.Token.Symbol
		return failure(ErrCodeInsufficientBalance, fmt.Sprintf(
			"Insufficient %s balance. Required: %s %s, Available: %s %s",
			symbol, req.Amount, symbol, FormatUnits(tokenBalance, p.config.Token.Decimals), symbol))
	}

	// 9. Transfer.
	var (
		txHash      string
		gasUsed     = simulatedGasUsed
		blockNumber uint64
	)
	switch req.Mode {
	case ModeOnChain:
		if p.transferor == nil {
			return failure(ErrCodeTransferFailed, "No signer configured for on-chain payments")
		}
		if p.transferor.SignerAddress() != "" && !equalAddress(p.transferor.SignerAddress(), req.UserAddress) {
			return failure(ErrCodeInvalidRequest, "Signer address does not match user address")
		}

		transferCtx, cancel := context.WithTimeout(ctx, p.config.ConfirmTimeout)
		receipt, err := p.transferor.TransferToken(transferCtx, receiver, required)
		cancel()
		if err != nil {
			log.Printf("payment: transfer failed user=%s to=%s err=%v", req.UserAddress, receiver, err)
			return failure(ErrCodeTransferFailed, fmt.Sprintf("Token transfer failed: %v", err))
		}
		if receipt.Status != TxStatusSuccess {
			result := failure(ErrCodeTransferFailed, "Token transfer reverted on-chain")
			result.TransactionHash = receipt.TxHash
			return result
		}
		txHash = receipt.TxHash
		gasUsed = strconv.FormatUint(receipt.GasUsed, 10)
		blockNumber = receipt.BlockNumber
		log.Printf("payment: transfer mined user=%s to=%s tx=%s block=%d gas=%s",
			req.UserAddress, receiver, txHash, blockNumber, gasUsed)

	case ModeSimulated:
		txHash = simulatedTxHash()
		log.Printf("payment: simulated transfer user=%s to=%s tx=%s", req.UserAddress, receiver, txHash)

	default:
		return failure(ErrCodeInvalidRequest, "Unknown payment mode")
	}

	// 10. Record the subscription. A gateway failure after a real
	// transfer is the dangerous case: funds moved, subscription not
	// recorded. The transaction hash is kept in the result and the
	// attempt is journaled for reconciliation.
	subscription, err := p.gateway.CreateSubscription(ctx, req.UserAddress, req.PlanID, req.BillingCycle)
	if err != nil {
		log.Printf("payment: subscription creation failed user=%s tx=%s err=%v", req.UserAddress, txHash, err)
		result := failure(ErrCodeGatewayFailed, fmt.Sprintf("Failed to create subscription: %v", err))
		result.TransactionHash = txHash
		if req.Mode == ModeOnChain {
			id := p.journal.Record(ReconciliationEntry{
				UserAddress:     req.UserAddress,
				PlanID:          req.PlanID,
				BillingCycle:    req.BillingCycle,
				Amount:          amount,
				TransactionHash: txHash,
				Reason:          err.Error(),
			})
			log.Printf("payment: journaled unrecorded transfer id=%s tx=%s", id, txHash)
		}
		return result
	}

	log.Printf("payment: processed user=%s plan=%s sub=%s tx=%s", req.UserAddress, req.PlanID, subscription.ID, txHash)

	// 11. Done.
	return PaymentResult{
		Success:         true,
		SubscriptionID:  subscription.ID,
		TransactionHash: txHash,
		GasUsed:         gasUsed,
		BlockNumber:     blockNumber,
		PaymentDetails: &PaymentDetails{
			From:         req.UserAddress,
			To:           receiver,
			Amount:       amount,
			Token:        p.config.Token.Symbol,
			TokenAddress: p.config.Token.Address,
		},
	}
}

// notify emits payment lifecycle events. Delivery failures are logged
// and never affect the payment result.
func (p *PaymentProcessor) notify(ctx context.Context, req PaymentRequest, amount float64, result PaymentResult) {
	if p.notifier == nil {
		return
	}

	event := EventPaymentFailed
	if result.Success {
		event = EventPaymentSucceeded
	}
	n := WebhookNotification{
		Event:          event,
		SubscriptionID: result.SubscriptionID,
		UserAddress:    req.UserAddress,
		PlanID:         req.PlanID,
		BillingCycle:   req.BillingCycle,
		Amount:         amount,
		Timestamp:      time.Now().UTC().Format(time.RFC3339),
	}
	if err := p.notifier.Notify(ctx, n); err != nil {
		log.Printf("payment: webhook notify failed event=%s user=%s err=%v", event, req.UserAddress, err)
	}

	if result.Success {
		n.Event = EventSubscriptionCreated
		if err := p.notifier.Notify(ctx, n); err != nil {
			log.Printf("payment: webhook notify failed event=%s user=%s err=%v", n.Event, req.UserAddress, err)
		}
	}
}

// CheckSubscriptionStatus looks up the subscription state for an address.
func (p *PaymentProcessor) CheckSubscriptionStatus(ctx context.Context, userAddress string) (*SubscriptionStatus, error) {
	if userAddress == "" || !common.IsHexAddress(userAddress) {
		return nil, NewPaymentError(ErrCodeInvalidRequest, "Invalid user address", nil)
	}
	status, err := p.gateway.CheckSubscription(ctx, userAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to check subscription: %w", err)
	}
	return status, nil
}

// CancelSubscription cancels the subscription for an address.
func (p *PaymentProcessor) CancelSubscription(ctx context.Context, userAddress string) (bool, error) {
	if userAddress == "" || !common.IsHexAddress(userAddress) {
		return false, NewPaymentError(ErrCodeInvalidRequest, "Invalid user address", nil)
	}
	cancelled, err := p.gateway.CancelSubscription(ctx, userAddress)
	if err != nil {
		return false, fmt.Errorf("failed to cancel subscription: %w", err)
	}
	if cancelled && p.notifier != nil {
		n := WebhookNotification{
			Event:       EventSubscriptionCancelled,
			UserAddress: userAddress,
			Timestamp:   time.Now().UTC().Format(time.RFC3339),
		}
		if err := p.notifier.Notify(ctx, n); err != nil {
			log.Printf("payment: webhook notify failed event=%s user=%s err=%v", n.Event, userAddress, err)
		}
	}
	return cancelled, nil
}

// EstimateGasCost estimates the cost of one token transfer at current
// gas prices.
func (p *PaymentProcessor) EstimateGasCost(ctx context.Context) (*GasEstimate, error) {
	estimate, err := p.chain.EstimateTransferGas(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to estimate gas: %w", err)
	}
	return estimate, nil
}

// simulatedTxHash synthesizes a 32-byte hash for the simulation path.
func simulatedTxHash() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failure is unrecoverable for this process
		panic(err)
	}
	return "0x" + hex.EncodeToString(buf)
}

func equalAddress(a, b string) bool {
	return common.HexToAddress(a) == common.HexToAddress(b)
}
