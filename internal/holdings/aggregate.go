package holdings

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// OtherLabel names the synthetic bucket that absorbs groups beyond the
// top-N cutoff.
const OtherLabel = "Outros"

// Field selects a canonical label field for grouping.
type Field string

const (
	FieldInstitution Field = "institution"
	FieldAssetClass  Field = "asset_class"
	FieldAssetName   Field = "asset_name"
)

// ParseField converts a query-level name into a Field.
func ParseField(s string) (Field, error) {
	switch Field(s) {
	case FieldInstitution, FieldAssetClass, FieldAssetName:
		return Field(s), nil
	}

	return "", fmt.Errorf("unknown grouping field %q", s)
}

// Group is one aggregation bucket: the values of the grouping fields
// plus the summed amount.
type Group struct {
	Labels []string
	Amount decimal.Decimal
}

// Label renders the group labels as a single display string.
func (g Group) Label() string {
	return strings.Join(g.Labels, " / ")
}

// GroupBy sums amounts per distinct combination of the given fields,
// sorted by amount descending (label ascending on ties, so the order
// is deterministic).
func GroupBy(hs []Holding, fields ...Field) []Group {
	type bucket struct {
		labels []string
		amount decimal.Decimal
	}

	buckets := make(map[string]*bucket)

	for _, h := range hs {
		labels := make([]string, len(fields))
		for i, f := range fields {
			labels[i] = h.fieldValue(f)
		}

		key := strings.Join(labels, "\x1f")

		b, ok := buckets[key]
		if !ok {
			b = &bucket{labels: labels}
			buckets[key] = b
		}

		b.amount = b.amount.Add(h.Amount)
	}

	groups := make([]Group, 0, len(buckets))
	for _, b := range buckets {
		groups = append(groups, Group{Labels: b.labels, Amount: b.amount})
	}

	sort.Slice(groups, func(i, j int) bool {
		if !groups[i].Amount.Equal(groups[j].Amount) {
			return groups[i].Amount.GreaterThan(groups[j].Amount)
		}

		return groups[i].Label() < groups[j].Label()
	})

	return groups
}

// CollapseTop keeps the topN largest groups and appends one synthetic
// "Outros" group summing the remainder. topN at or above the group
// count is a no-op; topN below one is an error.
func CollapseTop(groups []Group, topN int) ([]Group, error) {
	if topN < 1 {
		return nil, fmt.Errorf("topN must be a positive integer, got %d", topN)
	}

	if topN >= len(groups) {
		return groups, nil
	}

	rest := decimal.Zero
	for _, g := range groups[topN:] {
		rest = rest.Add(g.Amount)
	}

	collapsed := make([]Group, 0, topN+1)
	collapsed = append(collapsed, groups[:topN]...)
	collapsed = append(collapsed, Group{Labels: []string{OtherLabel}, Amount: rest})

	return collapsed, nil
}

func (h Holding) fieldValue(f Field) string {
	switch f {
	case FieldInstitution:
		return h.Institution
	case FieldAssetClass:
		return h.AssetClass
	case FieldAssetName:
		return h.AssetName
	}

	return ""
}

// Summary holds the dashboard KPI figures.
type Summary struct {
	Total               decimal.Decimal
	Assets              int
	Institutions        int
	TopInstitution      string
	TopInstitutionTotal decimal.Decimal
}

// Summarize computes total net worth, distinct asset and institution
// counts, and the institution holding the largest total.
func Summarize(hs []Holding) Summary {
	var s Summary

	assets := make(map[string]bool)
	for _, h := range hs {
		s.Total = s.Total.Add(h.Amount)
		assets[h.AssetName] = true
	}

	s.Assets = len(assets)

	byInstitution := GroupBy(hs, FieldInstitution)
	s.Institutions = len(byInstitution)

	if len(byInstitution) > 0 {
		s.TopInstitution = byInstitution[0].Labels[0]
		s.TopInstitutionTotal = byInstitution[0].Amount
	}

	return s
}

// EvolutionPoint is the summed amount for one date plus the running
// total up to and including that date.
type EvolutionPoint struct {
	Date       time.Time
	Amount     decimal.Decimal
	Cumulative decimal.Decimal
}

// Evolution sums amounts per date and accumulates them in date order.
func Evolution(hs []Holding) []EvolutionPoint {
	byDate := make(map[time.Time]decimal.Decimal)
	for _, h := range hs {
		byDate[h.Date] = byDate[h.Date].Add(h.Amount)
	}

	points := make([]EvolutionPoint, 0, len(byDate))
	for d, amount := range byDate {
		points = append(points, EvolutionPoint{Date: d, Amount: amount})
	}

	sort.Slice(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})

	running := decimal.Zero
	for i := range points {
		running = running.Add(points[i].Amount)
		points[i].Cumulative = running
	}

	return points
}

// AssetShare is one asset line within an institution breakdown.
type AssetShare struct {
	AssetName  string
	AssetClass string
	Amount     decimal.Decimal
	Share      decimal.Decimal // percent of the institution total
}

// InstitutionBreakdown lists an institution's assets by amount with
// their share of the institution total.
type InstitutionBreakdown struct {
	Institution string
	Total       decimal.Decimal
	Assets      []AssetShare
}

var hundred = decimal.NewFromInt(100)

// BreakdownByInstitution produces per-institution asset tables,
// institutions ordered by total descending.
func BreakdownByInstitution(hs []Holding) []InstitutionBreakdown {
	byInstitution := make(map[string][]Holding)
	for _, h := range hs {
		byInstitution[h.Institution] = append(byInstitution[h.Institution], h)
	}

	breakdowns := make([]InstitutionBreakdown, 0, len(byInstitution))

	for name, members := range byInstitution {
		b := InstitutionBreakdown{Institution: name}

		for _, g := range GroupBy(members, FieldAssetName, FieldAssetClass) {
			b.Total = b.Total.Add(g.Amount)
			b.Assets = append(b.Assets, AssetShare{
				AssetName:  g.Labels[0],
				AssetClass: g.Labels[1],
				Amount:     g.Amount,
			})
		}

		for i := range b.Assets {
			if !b.Total.IsZero() {
				b.Assets[i].Share = b.Assets[i].Amount.Div(b.Total).Mul(hundred).Round(1)
			}
		}

		breakdowns = append(breakdowns, b)
	}

	sort.Slice(breakdowns, func(i, j int) bool {
		if !breakdowns[i].Total.Equal(breakdowns[j].Total) {
			return breakdowns[i].Total.GreaterThan(breakdowns[j].Total)
		}

		return breakdowns[i].Institution < breakdowns[j].Institution
	})

	return breakdowns
}
