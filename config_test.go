package subpay

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{
		"RPC_URL", "CHAIN_ID",
		"ADAO_TOKEN_ADDRESS", "ADAO_TOKEN_SYMBOL", "ADAO_TOKEN_DECIMALS",
		"RECEIVER_WALLET_ADDRESS", "APP_URL",
		"MIN_GAS_WEI", "CONFIRM_TIMEOUT_SECONDS",
	} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()
	assert.Equal(t, DefaultRPCURL, cfg.RPCURL)
	assert.Equal(t, int64(DefaultChainID), cfg.ChainID)
	assert.Equal(t, DefaultTokenAddress, cfg.Token.Address)
	assert.Equal(t, "ADAO", cfg.Token.Symbol)
	assert.Equal(t, 18, cfg.Token.Decimals)
	assert.Equal(t, DefaultReceiverAddress, cfg.ReceiverAddress)
	assert.Equal(t, DefaultMinGasWei(), cfg.MinGasWei)
	assert.Equal(t, DefaultConfirmTimeout, cfg.ConfirmTimeout)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("RPC_URL", "https://sepolia.base.org")
	t.Setenv("CHAIN_ID", "84532")
	t.Setenv("ADAO_TOKEN_DECIMALS", "6")
	t.Setenv("MIN_GAS_WEI", "200000000000000")
	t.Setenv("CONFIRM_TIMEOUT_SECONDS", "30")

	cfg := LoadConfig()
	assert.Equal(t, "https://sepolia.base.org", cfg.RPCURL)
	assert.Equal(t, int64(84532), cfg.ChainID)
	assert.Equal(t, 6, cfg.Token.Decimals)
	assert.Equal(t, "200000000000000", cfg.MinGasWei.String())
	assert.Equal(t, 30*time.Second, cfg.ConfirmTimeout)
}

func TestWebhookURL(t *testing.T) {
	cfg := Config{AppURL: "https://app.example.com"}
	assert.Equal(t, "https://app.example.com/api/webhooks/subscription", cfg.WebhookURL())
}
