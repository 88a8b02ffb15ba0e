package types

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"whole number", "10", "10.00"},
		{"one decimal", "17.5", "17.50"},
		{"two decimals", "3.99", "3.99"},
		{"rounds half up", "2.005", "2.01"},
		{"rounds half away from zero negative", "-2.005", "-2.01"},
		{"truncates trailing precision", "1.23456", "1.23"},
		{"zero", "0", "0.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := MustMoney(tt.input)
			assert.Equal(t, tt.want, FormatAmount(m))
		})
	}
}

func TestMoneyArithmeticKeepsPrecision(t *testing.T) {
	// 0.1 + 0.2 must be exactly 0.3, not 0.30000000000000004.
	a := MustMoney("0.1")
	b := MustMoney("0.2")
	assert.True(t, a.Add(b).Equal(MustMoney("0.3")))

	// Line total: qty 5 * unit price 2.00 = 10.00.
	qty := decimal.NewFromInt(5)
	price := MustMoney("2.00")
	assert.Equal(t, "10.00", FormatAmount(price.Mul(qty)))
}

func TestNewMoneyFromString(t *testing.T) {
	m, err := NewMoneyFromString("12.34")
	require.NoError(t, err)
	assert.Equal(t, "12.34", FormatAmount(m))

	_, err = NewMoneyFromString("not-a-number")
	assert.Error(t, err)
}
