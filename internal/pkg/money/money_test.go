package money_test

import (
	"testing"

	"ledger-core/internal/pkg/money"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAndString(t *testing.T) {
	tests := []struct {
		in   string
		want money.Money
	}{
		{"50.23", 5023},
		{"123.50", 12350},
		{"100", 10000},
		{"-5.00", -500},
		{"0", 0},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := money.Parse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRejectsSubCentPrecision(t *testing.T) {
	_, err := money.Parse("1.234")
	assert.Error(t, err)
}

func TestStringRoundTrip(t *testing.T) {
	m, err := money.Parse("45.34")
	require.NoError(t, err)
	assert.Equal(t, "45.34", m.String())
}

func TestArithmetic(t *testing.T) {
	a, b := money.Money(10000), money.Money(4534)
	assert.Equal(t, money.Money(5466), a.Sub(b))
	assert.Equal(t, money.Money(14534), a.Add(b))
	assert.Equal(t, 1, a.Cmp(b))
	assert.Equal(t, -1, b.Cmp(a))
	assert.Equal(t, 0, a.Cmp(a))
}
