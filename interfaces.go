package subpay

import (
	"context"
	"math/big"
)

// ChainClient reads on-chain state for the configured payment token.
// Balances are read at decision time and never cached; a result is only
// valid for the single payment attempt it informs.
type ChainClient interface {
	// NativeBalance returns the native-currency balance in wei.
	NativeBalance(ctx context.Context, address string) (*big.Int, error)

	// TokenBalance returns the payment-token balance in base units.
	TokenBalance(ctx context.Context, address string) (*big.Int, error)

	// EstimateTransferGas returns the expected cost of one token transfer.
	EstimateTransferGas(ctx context.Context) (*GasEstimate, error)
}

// TokenTransferor submits a token transfer and waits for it to mine.
// Implementations hold the signing credential; a processor without one
// can only run in simulated mode.
type TokenTransferor interface {
	// SignerAddress returns the address the transfer is sent from.
	SignerAddress() string

	// TransferToken moves amount base units to the given address and
	// blocks until the transaction is mined or ctx expires.
	TransferToken(ctx context.Context, to string, amount *big.Int) (*TransferReceipt, error)
}

// SubscriptionGateway is the external service of record for
// subscription lifecycle. It is opaque: the processor only sees these
// three operations.
type SubscriptionGateway interface {
	CreateSubscription(ctx context.Context, userAddress, planID string, cycle BillingCycle) (*Subscription, error)
	CheckSubscription(ctx context.Context, userAddress string) (*SubscriptionStatus, error)
	CancelSubscription(ctx context.Context, userAddress string) (bool, error)
}

// WebhookNotifier delivers subscription lifecycle events. Delivery is
// best effort; failures are logged, never surfaced to the payer.
type WebhookNotifier interface {
	Notify(ctx context.Context, n WebhookNotification) error
}
