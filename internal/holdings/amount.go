package holdings

import (
	"strings"

	"github.com/shopspring/decimal"
)

const currencyMarker = "R$"

// ParseAmount parses a Brazilian-locale amount string: optional "R$"
// prefix, "." as thousands separator, "," as decimal separator.
// "R$ 1.234,56" -> 1234.56, "-10,00" -> -10.00.
//
// An empty-after-cleaning cell is missing, not zero: ok is false and
// err is nil. A cell that cleans to something non-numeric returns err.
func ParseAmount(s string) (d decimal.Decimal, ok bool, err error) {
	clean := strings.TrimSpace(s)
	clean = strings.TrimPrefix(clean, currencyMarker)
	clean = strings.ReplaceAll(clean, ".", "")
	clean = strings.ReplaceAll(clean, ",", ".")
	clean = strings.TrimSpace(clean)

	if clean == "" {
		return decimal.Decimal{}, false, nil
	}

	d, err = decimal.NewFromString(clean)
	if err != nil {
		return decimal.Decimal{}, false, err
	}

	return d, true, nil
}
