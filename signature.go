package subpay

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/crypto"
)

// RecoverPersonalSigner recovers the address that produced a
// personal-message signature (EIP-191 "\x19Ethereum Signed Message"
// scheme) over the given message. Stateless; no chain access.
func RecoverPersonalSigner(message, signature string) (string, error) {
	sigHex := strings.TrimPrefix(signature, "0x")
	sig, err := hex.DecodeString(sigHex)
	if err != nil {
		return "", fmt.Errorf("invalid signature encoding: %w", err)
	}
	if len(sig) != 65 {
		return "", fmt.Errorf("invalid signature length: %d", len(sig))
	}

	// Normalize v from 27/28 to the 0/1 recovery id crypto.SigToPub expects.
	sigCopy := make([]byte, 65)
	copy(sigCopy, sig)
	if sigCopy[64] >= 27 {
		sigCopy[64] -= 27
	}

	digest := accounts.TextHash([]byte(message))
	pubKey, err := crypto.SigToPub(digest, sigCopy)
	if err != nil {
		return "", fmt.Errorf("failed to recover public key: %w", err)
	}

	return crypto.PubkeyToAddress(*pubKey).Hex(), nil
}

// VerifyPersonalSignature reports whether the signature over message was
// produced by the claimed address. Address comparison is
// case-insensitive on the hex form.
func VerifyPersonalSignature(message, signature, claimed string) (bool, error) {
	recovered, err := RecoverPersonalSigner(message, signature)
	if err != nil {
		return false, err
	}
	return strings.EqualFold(recovered, claimed), nil
}
