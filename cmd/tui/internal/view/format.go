package view

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// FormatBRL renders an amount in the Brazilian convention:
// 1234.56 -> "R$ 1.234,56", -10 -> "R$ -10,00".
func FormatBRL(d decimal.Decimal) string {
	s := d.StringFixed(2)

	sign := ""

	if strings.HasPrefix(s, "-") {
		sign = "-"
		s = s[1:]
	}

	intPart, fracPart, _ := strings.Cut(s, ".")

	var sb strings.Builder

	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			sb.WriteByte('.')
		}

		sb.WriteRune(r)
	}

	return "R$ " + sign + sb.String() + "," + fracPart
}

// FormatDate formats a time.Time into DD/MM/YYYY for display.
func FormatDate(t time.Time) string {
	return t.Format("02/01/2006")
}
