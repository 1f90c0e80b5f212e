package holdings_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcouto/patrimonio/internal/holdings"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "CurrencyMarkerAndThousands", input: "R$ 1.234,56", want: "1234.56"},
		{name: "NoMarker", input: "1234,56", want: "1234.56"},
		{name: "Negative", input: "-10,00", want: "-10"},
		{name: "NegativeAfterMarker", input: "R$ -5,00", want: "-5"},
		{name: "Millions", input: "1.234.567,89", want: "1234567.89"},
		{name: "PlainInteger", input: "500", want: "500"},
		{name: "SurroundingWhitespace", input: "  250,75  ", want: "250.75"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok, err := holdings.ParseAmount(tt.input)
			require.NoError(t, err)
			require.True(t, ok)

			want, err := decimal.NewFromString(tt.want)
			require.NoError(t, err)
			assert.True(t, got.Equal(want), "got %s, want %s", got, want)
		})
	}
}

func TestParseAmount_MissingNotZero(t *testing.T) {
	for _, input := range []string{"", "   ", "R$", "R$  "} {
		_, ok, err := holdings.ParseAmount(input)
		require.NoError(t, err, "input %q", input)
		assert.False(t, ok, "input %q should be missing, not a value", input)
	}
}

func TestParseAmount_Invalid(t *testing.T) {
	for _, input := range []string{"abc", "12,34,56", "R$ x"} {
		_, _, err := holdings.ParseAmount(input)
		assert.Error(t, err, "input %q", input)
	}
}
