package extract

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func TestParseArgentineNumber(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{"formato argentino completo", "1.234.567,89", "1234567.89", true},
		{"coma decimal simple", "1234,56", "1234.56", true},
		{"punto de miles sin decimales", "1.234", "1234", true},
		{"punto decimal dos digitos", "12.34", "12.34", true},
		{"punto decimal un digito", "12.3", "12.3", true},
		{"formato US", "1,234,567.89", "1234567.89", true},
		{"entero simple", "1500", "1500", true},
		{"con simbolo pesos", "$ 1.500,00", "1500", true},
		// Con un punto y una coma la regla "puntos de miles, coma decimal"
		// gana; la lectura posicional la hace ParseAmount
		{"punto y coma mixtos lee coma decimal", "1,234.56", "1.23456", true},
		{"cero rechazado", "0", "", false},
		{"cero con decimales rechazado", "0,00", "", false},
		{"negativo rechazado", "-15", "", false},
		{"vacio", "", "", false},
		{"solo simbolo", "$", "", false},
		{"texto", "abc", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseArgentineNumber(tt.input)
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got.String())
			}
		})
	}
}

func TestParseArgentineNumberAmbiguous(t *testing.T) {
	// Separadores repetidos de ambos tipos: gana la lectura mayor
	got, ok := ParseArgentineNumber("1.234.567,89")
	require.True(t, ok)
	assert.Equal(t, "1234567.89", got.String())
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{"1.234,56", "1234.56", true},
		{"1,234.56", "1234.56", true},
		{"123,45", "123.45", true},
		{"1,234", "1234", true},
		{"1.234", "1234", true},
		{"1.234.567", "1234567", true},
		{"123.45", "123.45", true},
		{"0,00", "0", true}, // ParseAmount acepta cero
		{"$ 987,65", "987.65", true},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseAmount(tt.input)
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, got.Equal(mustDecimal(t, tt.want)), "got %s want %s", got, tt.want)
			}
		})
	}
}
