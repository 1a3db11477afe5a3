package evm

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/agentdao/subpay"
)

// receiptPollInterval is how often the mined-transaction wait polls.
const receiptPollInterval = time.Second

// SigningClient extends Client with the ability to submit token
// transfers from a locally held private key.
type SigningClient struct {
	*Client
	privateKey *ecdsa.PrivateKey
	address    common.Address
	chainID    *big.Int
}

var _ subpay.TokenTransferor = (*SigningClient)(nil)

// NewSigningClient creates a signing client from a hex-encoded private
// key (with or without the 0x prefix).
func NewSigningClient(client *Client, privateKeyHex string, chainID *big.Int) (*SigningClient, error) {
	privateKeyHex = strings.TrimPrefix(privateKeyHex, "0x")

	privateKey, err := crypto.HexToECDSA(privateKeyHex)
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}

	return &SigningClient{
		Client:     client,
		privateKey: privateKey,
		address:    crypto.PubkeyToAddress(privateKey.PublicKey),
		chainID:    chainID,
	}, nil
}

// SignerAddress returns the address transfers are sent from.
func (s *SigningClient) SignerAddress() string {
	return s.address.Hex()
}

// TransferToken submits an ERC-20 transfer to the configured token
// contract and blocks until the transaction is mined or ctx expires.
func (s *SigningClient) TransferToken(ctx context.Context, to string, amount *big.Int) (*subpay.TransferReceipt, error) {
	data, err := s.erc20.Pack("transfer", common.HexToAddress(to), amount)
	if err != nil {
		return nil, fmt.Errorf("failed to pack transfer call: %w", err)
	}

	nonce, err := s.eth.PendingNonceAt(ctx, s.address)
	if err != nil {
		return nil, fmt.Errorf("failed to get nonce: %w", err)
	}

	gasPrice, err := s.eth.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get gas price: %w", err)
	}

	tx := types.NewTransaction(nonce, s.tokenAddress, big.NewInt(0), transferGasLimit, gasPrice, data)
	signedTx, err := types.SignTx(tx, types.LatestSignerForChainID(s.chainID), s.privateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}

	if err := s.eth.SendTransaction(ctx, signedTx); err != nil {
		return nil, fmt.Errorf("failed to send transaction: %w", err)
	}

	return s.waitForReceipt(ctx, signedTx.Hash())
}

// waitForReceipt polls for the mined receipt until ctx expires. The
// caller bounds the wait; exceeding it is a transfer failure even
// though the transaction may still mine later.
func (s *SigningClient) waitForReceipt(ctx context.Context, hash common.Hash) (*subpay.TransferReceipt, error) {
	ticker := time.NewTicker(receiptPollInterval)
	defer ticker.Stop()

	for {
		receipt, err := s.eth.TransactionReceipt(ctx, hash)
		if err == nil && receipt != nil {
			return &subpay.TransferReceipt{
				TxHash:      receipt.TxHash.Hex(),
				BlockNumber: receipt.BlockNumber.Uint64(),
				GasUsed:     receipt.GasUsed,
				Status:      receipt.Status,
			}, nil
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("transaction %s not confirmed: %w", hash.Hex(), ctx.Err())
		case <-ticker.C:
		}
	}
}
