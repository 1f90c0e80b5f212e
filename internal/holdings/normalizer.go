package holdings

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gcouto/patrimonio/internal/source"
)

const (
	layoutDayFirst   = "02/01/2006"
	layoutMonthFirst = "01/02/2006"
)

// Result is the outcome of one normalization run. Dropped counts exist
// so the silent row-drop policy stays observable and reproducible.
type Result struct {
	Holdings []Holding

	// DroppedDates counts rows whose date failed the column-wide layout.
	DroppedDates int

	// DroppedAmounts counts rows whose amount cell was empty after
	// cleaning. Missing is not zero; the row is excluded.
	DroppedAmounts int
}

// Total sums the amounts of the canonical set.
func (r *Result) Total() decimal.Decimal {
	total := decimal.Zero
	for _, h := range r.Holdings {
		total = total.Add(h.Amount)
	}

	return total
}

// Normalize projects the raw table down to the five mapped columns and
// produces the canonical record set.
//
// Column-level failures (a role mapped to a missing column, or an
// unparseable cell anywhere in the amount column) abort the run with
// *MappingError or *AmountParseError. Row-level failures (unparseable
// date, missing amount) drop the row and are counted in the Result.
func Normalize(t source.Table, m Mapping) (*Result, error) {
	if err := m.Validate(t.Columns); err != nil {
		return nil, err
	}

	amounts, present, err := parseAmountColumn(t, m[RoleAmount])
	if err != nil {
		return nil, err
	}

	dates, dateOK := parseDateColumn(t, m[RoleDate])

	res := &Result{}

	for i, row := range t.Rows {
		if !dateOK[i] {
			res.DroppedDates++
			continue
		}

		if !present[i] {
			res.DroppedAmounts++
			continue
		}

		res.Holdings = append(res.Holdings, Holding{
			Date:        dates[i],
			Amount:      amounts[i],
			Institution: labelOrDefault(row[m[RoleInstitution]]),
			AssetClass:  labelOrDefault(row[m[RoleAssetClass]]),
			AssetName:   labelOrDefault(row[m[RoleAssetName]]),
		})
	}

	return res, nil
}

// parseAmountColumn parses the whole amount column up front. Any cell
// that fails the locale parse fails the column, and with it the load.
func parseAmountColumn(t source.Table, col string) ([]decimal.Decimal, []bool, error) {
	amounts := make([]decimal.Decimal, len(t.Rows))
	present := make([]bool, len(t.Rows))

	for i, row := range t.Rows {
		d, ok, err := ParseAmount(row[col])
		if err != nil {
			return nil, nil, &AmountParseError{Column: col, Value: row[col]}
		}

		amounts[i] = d
		present[i] = ok
	}

	return amounts, present, nil
}

// parseDateColumn parses the date column day-first. The layout choice
// is column-wide: only when zero rows parse day-first is the whole
// column retried month-first, never a per-row mix.
func parseDateColumn(t source.Table, col string) ([]time.Time, []bool) {
	dates, ok, hits := parseDatesWithLayout(t, col, layoutDayFirst)
	if hits == 0 {
		dates, ok, _ = parseDatesWithLayout(t, col, layoutMonthFirst)
	}

	return dates, ok
}

func parseDatesWithLayout(t source.Table, col, layout string) ([]time.Time, []bool, int) {
	dates := make([]time.Time, len(t.Rows))
	ok := make([]bool, len(t.Rows))
	hits := 0

	for i, row := range t.Rows {
		d, err := time.Parse(layout, strings.TrimSpace(row[col]))
		if err != nil {
			continue
		}

		dates[i] = d
		ok[i] = true
		hits++
	}

	return dates, ok, hits
}

// labelOrDefault applies the sentinel after string coercion, so
// numeric-looking cells survive as strings.
func labelOrDefault(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return NotInformed
	}

	return s
}
