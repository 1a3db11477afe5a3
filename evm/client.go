// Package evm implements the chain-facing side of the payment flow on
// Ethereum-compatible networks: balance reads and ERC-20 transfers
// against a single configured token contract over one JSON-RPC endpoint.
package evm

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/agentdao/subpay"
)

// erc20ABI is the minimal ERC-20 surface the payment flow needs.
const erc20ABI = `[
  {"constant":true,"inputs":[{"name":"account","type":"address"}],"name":"balanceOf","outputs":[{"name":"","type":"uint256"}],"type":"function"},
  {"constant":true,"inputs":[],"name":"decimals","outputs":[{"name":"","type":"uint8"}],"type":"function"},
  {"constant":false,"inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"name":"transfer","outputs":[{"name":"","type":"bool"}],"type":"function"}
]`

// transferGasLimit comfortably covers an ERC-20 transfer.
const transferGasLimit = uint64(100_000)

// Client reads balances and token metadata from a single configured
// ERC-20 contract. One request per need; no retries, no pooling beyond
// the underlying ethclient connection, which is reused for the client's
// lifetime.
type Client struct {
	eth          *ethclient.Client
	tokenAddress common.Address
	erc20        abi.ABI
}

var _ subpay.ChainClient = (*Client)(nil)

// Dial connects to the RPC endpoint and returns a client bound to the
// payment token contract.
func Dial(rpcURL, tokenAddress string) (*Client, error) {
	eth, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC: %w", err)
	}
	return NewClient(eth, tokenAddress)
}

// NewClient wraps an existing ethclient connection.
func NewClient(eth *ethclient.Client, tokenAddress string) (*Client, error) {
	if !common.IsHexAddress(tokenAddress) {
		return nil, fmt.Errorf("invalid token address: %s", tokenAddress)
	}
	parsed, err := abi.JSON(strings.NewReader(erc20ABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ERC-20 ABI: %w", err)
	}
	return &Client{
		eth:          eth,
		tokenAddress: common.HexToAddress(tokenAddress),
		erc20:        parsed,
	}, nil
}

// NativeBalance returns the native-currency balance in wei.
func (c *Client) NativeBalance(ctx context.Context, address string) (*big.Int, error) {
	balance, err := c.eth.BalanceAt(ctx, common.HexToAddress(address), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get native balance: %w", err)
	}
	return balance, nil
}

// TokenBalance returns the payment-token balance in base units.
func (c *Client) TokenBalance(ctx context.Context, address string) (*big.Int, error) {
	result, err := c.call(ctx, "balanceOf", common.HexToAddress(address))
	if err != nil {
		return nil, err
	}
	balance, ok := result.(*big.Int)
	if !ok {
		return nil, fmt.Errorf("unexpected balanceOf result type: %T", result)
	}
	return balance, nil
}

// TokenDecimals reads the token's decimal count from the contract.
// Useful at startup to cross-check the configured value.
func (c *Client) TokenDecimals(ctx context.Context) (uint8, error) {
	result, err := c.call(ctx, "decimals")
	if err != nil {
		return 0, err
	}
	decimals, ok := result.(uint8)
	if !ok {
		return 0, fmt.Errorf("unexpected decimals result type: %T", result)
	}
	return decimals, nil
}

// EstimateTransferGas returns the expected cost of one token transfer
// at the current suggested gas price.
func (c *Client) EstimateTransferGas(ctx context.Context) (*subpay.GasEstimate, error) {
	gasPrice, err := c.eth.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get gas price: %w", err)
	}
	total := new(big.Int).Mul(gasPrice, new(big.Int).SetUint64(transferGasLimit))
	return &subpay.GasEstimate{
		GasLimit: transferGasLimit,
		GasPrice: gasPrice,
		TotalWei: total,
	}, nil
}

// call executes a read-only contract call against the token contract.
func (c *Client) call(ctx context.Context, method string, args ...interface{}) (interface{}, error) {
	data, err := c.erc20.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack %s call: %w", method, err)
	}

	msg := ethereum.CallMsg{
		To:   &c.tokenAddress,
		Data: data,
	}
	result, err := c.eth.CallContract(ctx, msg, nil)
	if err != nil {
		return nil, fmt.Errorf("%s call failed: %w", method, err)
	}

	outputs, err := c.erc20.Unpack(method, result)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack %s result: %w", method, err)
	}
	if len(outputs) == 0 {
		return nil, fmt.Errorf("empty result from %s", method)
	}
	return outputs[0], nil
}
