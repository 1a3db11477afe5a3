package subpay

import (
	"math/big"
	"os"
	"strconv"
	"time"
)

// TokenConfig describes the payment token contract.
type TokenConfig struct {
	Address  string
	Symbol   string
	Decimals int
}

// Config is the immutable configuration for a payment processor.
// It is built once (usually via LoadConfig) and passed into
// constructors; the core never reads the environment ad hoc.
type Config struct {
	// RPCURL is the JSON-RPC endpoint of the chain.
	RPCURL string
	// ChainID of the target network.
	ChainID int64
	// Token is the ERC-20 payment token.
	Token TokenConfig
	// ReceiverAddress is the default treasury receiving payments.
	ReceiverAddress string
	// AppURL is the application base URL used to build webhook URLs.
	AppURL string
	// MinGasWei is the native-balance threshold below which a payment
	// attempt is rejected before any transfer is tried.
	MinGasWei *big.Int
	// ConfirmTimeout bounds the wait for a transfer to mine.
	ConfirmTimeout time.Duration
}

// Defaults mirroring the Base mainnet deployment.
const (
	DefaultRPCURL          = "https://mainnet.base.org"
	DefaultChainID         = 8453
	DefaultTokenAddress    = "0x1ef7Be0aBff7d1490e952eC1C7476443A66d6b72"
	DefaultTokenSymbol     = "ADAO"
	DefaultTokenDecimals   = 18
	DefaultReceiverAddress = "0x1234567890123456789012345678901234567890"
	DefaultAppURL          = "http://localhost:3000"
	DefaultConfirmTimeout  = 60 * time.Second
)

// DefaultMinGasWei is 0.0001 ETH, a low estimate suited to Base.
func DefaultMinGasWei() *big.Int {
	return big.NewInt(100_000_000_000_000) // 0.0001 * 1e18
}

// WebhookURL returns the subscription webhook endpoint for this deployment.
func (c Config) WebhookURL() string {
	return c.AppURL + "/api/webhooks/subscription"
}

// LoadConfig reads configuration from the environment, falling back to
// the Base mainnet defaults for anything unset.
func LoadConfig() Config {
	chainID := int64(DefaultChainID)
	if v := os.Getenv("CHAIN_ID"); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			chainID = parsed
		}
	}

	decimals := DefaultTokenDecimals
	if v := os.Getenv("ADAO_TOKEN_DECIMALS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			decimals = parsed
		}
	}

	minGas := DefaultMinGasWei()
	if v := os.Getenv("MIN_GAS_WEI"); v != "" {
		if parsed, ok := new(big.Int).SetString(v, 10); ok {
			minGas = parsed
		}
	}

	confirmTimeout := DefaultConfirmTimeout
	if v := os.Getenv("CONFIRM_TIMEOUT_SECONDS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			confirmTimeout = time.Duration(parsed) * time.Second
		}
	}

	return Config{
		RPCURL:  getEnv("RPC_URL", DefaultRPCURL),
		ChainID: chainID,
		Token: TokenConfig{
			Address:  getEnv("ADAO_TOKEN_ADDRESS", DefaultTokenAddress),
			Symbol:   getEnv("ADAO_TOKEN_SYMBOL", DefaultTokenSymbol),
			Decimals: decimals,
		},
		ReceiverAddress: getEnv("RECEIVER_WALLET_ADDRESS", DefaultReceiverAddress),
		AppURL:          getEnv("APP_URL", DefaultAppURL),
		MinGasWei:       minGas,
		ConfirmTimeout:  confirmTimeout,
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
