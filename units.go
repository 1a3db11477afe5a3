package subpay

import (
	"math/big"
)

const etherDecimals = 18

// AmountToBaseUnits converts a human-readable token amount into base
// units using the token's decimals.
func AmountToBaseUnits(amount float64, decimals int) *big.Int {
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	scaleFloat := new(big.Float).SetPrec(256).SetInt(scale)
	amountFloat := new(big.Float).SetPrec(256).SetFloat64(amount)
	res, _ := new(big.Float).Mul(amountFloat, scaleFloat).Int(nil)
	return res
}

// FormatUnits renders a base-unit amount as a human-readable decimal
// string, trimming trailing zeros.
func FormatUnits(amount *big.Int, decimals int) string {
	if amount == nil {
		return "0"
	}
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	scaleFloat := new(big.Float).SetPrec(256).SetInt(scale)
	amountFloat := new(big.Float).SetPrec(256).SetInt(amount)
	out := new(big.Float).Quo(amountFloat, scaleFloat)
	return out.Text('f', -1)
}

// FormatEther renders a wei amount as a decimal ETH string.
func FormatEther(wei *big.Int) string {
	return FormatUnits(wei, etherDecimals)
}
