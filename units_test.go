package subpay

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAmountToBaseUnits(t *testing.T) {
	tests := []struct {
		amount   float64
		decimals int
		want     string
	}{
		{100, 18, "100000000000000000000"},
		{1, 18, "1000000000000000000"},
		{0.5, 18, "500000000000000000"},
		{270, 18, "270000000000000000000"},
		{1, 6, "1000000"},
		{0, 18, "0"},
	}
	for _, tt := range tests {
		got := AmountToBaseUnits(tt.amount, tt.decimals)
		assert.Equal(t, tt.want, got.String(), "amount=%v decimals=%d", tt.amount, tt.decimals)
	}
}

func TestFormatUnits(t *testing.T) {
	hundred, _ := new(big.Int).SetString("100000000000000000000", 10)
	assert.Equal(t, "100", FormatUnits(hundred, 18))
	assert.Equal(t, "0.5", FormatUnits(big.NewInt(500_000), 6))
	assert.Equal(t, "0", FormatUnits(nil, 18))
}

func TestFormatEther(t *testing.T) {
	assert.Equal(t, "0.0001", FormatEther(big.NewInt(100_000_000_000_000)))
	assert.Equal(t, "0.00005", FormatEther(big.NewInt(50_000_000_000_000)))
	assert.Equal(t, "1", FormatEther(AmountToBaseUnits(1, 18)))
}
