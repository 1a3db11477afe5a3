package subpay

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signPersonal(t *testing.T, message string) (address, signature string) {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	sig, err := crypto.Sign(accounts.TextHash([]byte(message)), key)
	require.NoError(t, err)
	// Wallets emit v as 27/28.
	sig[64] += 27

	return crypto.PubkeyToAddress(key.PublicKey).Hex(), "0x" + hex.EncodeToString(sig)
}

func TestRecoverPersonalSigner(t *testing.T) {
	message := "Subscribe to pro (annually)"
	address, signature := signPersonal(t, message)

	recovered, err := RecoverPersonalSigner(message, signature)
	require.NoError(t, err)
	assert.Equal(t, address, recovered)

	// A different message recovers a different address.
	recovered, err = RecoverPersonalSigner("some other message", signature)
	require.NoError(t, err)
	assert.NotEqual(t, address, recovered)
}

func TestRecoverPersonalSignerRejectsMalformed(t *testing.T) {
	_, err := RecoverPersonalSigner("msg", "0xzzzz")
	assert.Error(t, err)

	_, err = RecoverPersonalSigner("msg", "0xdeadbeef")
	assert.Error(t, err)
}

func TestVerifyPersonalSignature(t *testing.T) {
	message := "hello"
	address, signature := signPersonal(t, message)

	ok, err := VerifyPersonalSignature(message, signature, address)
	require.NoError(t, err)
	assert.True(t, ok)

	// Case-insensitive on the claimed address.
	ok, err = VerifyPersonalSignature(message, signature, strings.ToLower(address))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPersonalSignature(message, signature, "0x0000000000000000000000000000000000000001")
	require.NoError(t, err)
	assert.False(t, ok)
}
