package evm

import (
	"encoding/hex"
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTokenAddress = "0x1ef7Be0aBff7d1490e952eC1C7476443A66d6b72"

func TestNewClientValidatesTokenAddress(t *testing.T) {
	_, err := NewClient(nil, "not-an-address")
	assert.Error(t, err)

	client, err := NewClient(nil, testTokenAddress)
	require.NoError(t, err)
	assert.Equal(t, testTokenAddress, client.tokenAddress.Hex())
}

func TestERC20ABIPacksExpectedMethods(t *testing.T) {
	client, err := NewClient(nil, testTokenAddress)
	require.NoError(t, err)

	for _, method := range []string{"balanceOf", "decimals", "transfer"} {
		_, ok := client.erc20.Methods[method]
		assert.True(t, ok, "missing method %s", method)
	}

	// transfer(to, amount) packs to the canonical 4-byte selector.
	data, err := client.erc20.Pack("transfer",
		client.tokenAddress, big.NewInt(1))
	require.NoError(t, err)
	assert.Equal(t, "a9059cbb", hex.EncodeToString(data[:4]))
}

func TestNewSigningClient(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	keyHex := hex.EncodeToString(crypto.FromECDSA(key))
	wantAddress := crypto.PubkeyToAddress(key.PublicKey).Hex()

	client, err := NewClient(nil, testTokenAddress)
	require.NoError(t, err)

	signer, err := NewSigningClient(client, keyHex, big.NewInt(8453))
	require.NoError(t, err)
	assert.Equal(t, wantAddress, signer.SignerAddress())

	// The 0x prefix is accepted too.
	signer, err = NewSigningClient(client, "0x"+keyHex, big.NewInt(8453))
	require.NoError(t, err)
	assert.Equal(t, wantAddress, signer.SignerAddress())
}

func TestNewSigningClientRejectsBadKey(t *testing.T) {
	client, err := NewClient(nil, testTokenAddress)
	require.NoError(t, err)

	_, err = NewSigningClient(client, "zzzz", big.NewInt(8453))
	assert.Error(t, err)

	_, err = NewSigningClient(client, strings.Repeat("00", 32), big.NewInt(8453))
	assert.Error(t, err)
}
