package extract

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseArgentineNumber resolves a numeric string whose separators may follow
// either the Argentine convention (1.234.567,89) or the US one (1,234,567.89).
// Returns false when the string is not parseable or the value is not strictly
// positive; zero amounts are a caller-level decision, not a parse result.
func ParseArgentineNumber(s string) (decimal.Decimal, bool) {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.ReplaceAll(cleaned, "$", "")
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	if cleaned == "" {
		return decimal.Zero, false
	}

	dots := strings.Count(cleaned, ".")
	commas := strings.Count(cleaned, ",")

	// Sin separadores: entero directo
	if dots == 0 && commas == 0 {
		return parsePositive(cleaned)
	}

	switch {
	case dots == 0 && commas == 1:
		// 1234,56 — coma decimal
		return parsePositive(strings.Replace(cleaned, ",", ".", 1))

	case commas == 0 && dots == 1:
		// 1234.56 (decimal) o 1.234 (miles) según dígitos tras el punto
		parts := strings.SplitN(cleaned, ".", 2)
		if len(parts[1]) <= 2 {
			return parsePositive(cleaned)
		}
		return parsePositive(parts[0] + parts[1])

	case dots > 0 && commas == 1:
		// 1.234.567,89 — puntos miles, coma decimal
		return parsePositive(strings.Replace(strings.ReplaceAll(cleaned, ".", ""), ",", ".", 1))

	case commas > 0 && dots == 1:
		// 1,234,567.89 — comas miles, punto decimal
		return parsePositive(strings.ReplaceAll(cleaned, ",", ""))

	default:
		// Separadores repetidos de ambos tipos: calcular ambas lecturas y
		// quedarse con la mayor (los comprobantes tienden a totales grandes;
		// es un desempate heurístico, no una garantía).
		a, okA := parsePositive(strings.Replace(strings.ReplaceAll(cleaned, ".", ""), ",", ".", 1))
		b, okB := parsePositive(strings.ReplaceAll(cleaned, ",", ""))
		switch {
		case okA && okB:
			if a.GreaterThanOrEqual(b) {
				return a, true
			}
			return b, true
		case okA:
			return a, true
		case okB:
			return b, true
		}
		return decimal.Zero, false
	}
}

// ParseAmount parses monetary strings already matched by a pattern, deciding
// the separator roles by position (the last separator wins as decimal mark).
// Unlike ParseArgentineNumber it does not reject zero.
func ParseAmount(s string) (decimal.Decimal, bool) {
	cleaned := keepNumericRunes(strings.TrimSpace(s))
	if cleaned == "" {
		return decimal.Zero, false
	}

	hasComma := strings.Contains(cleaned, ",")
	hasDot := strings.Contains(cleaned, ".")

	switch {
	case hasComma && hasDot:
		if strings.LastIndex(cleaned, ".") > strings.LastIndex(cleaned, ",") {
			// 1,234.56
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		} else {
			// 1.234,56
			cleaned = strings.Replace(strings.ReplaceAll(cleaned, ".", ""), ",", ".", 1)
		}
	case hasComma:
		idx := strings.LastIndex(cleaned, ",")
		if len(cleaned)-idx-1 <= 2 {
			// 123,45 — decimal
			cleaned = strings.ReplaceAll(cleaned[:idx], ",", "") + "." + cleaned[idx+1:]
		} else {
			// 1,234 — miles
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		}
	case hasDot:
		idx := strings.LastIndex(cleaned, ".")
		if len(cleaned)-idx-1 > 2 || strings.Count(cleaned, ".") > 1 {
			// 1.234 / 1.234.567 — miles
			cleaned = strings.ReplaceAll(cleaned, ".", "")
		}
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

func parsePositive(s string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(s)
	if err != nil || !d.IsPositive() {
		return decimal.Zero, false
	}
	return d, true
}

func keepNumericRunes(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == ',' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
