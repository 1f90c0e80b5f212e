package holdings

import "strings"

// Role identifies the semantic meaning of a raw column.
type Role string

const (
	RoleDate        Role = "date"
	RoleAmount      Role = "amount"
	RoleInstitution Role = "institution"
	RoleAssetClass  Role = "asset_class"
	RoleAssetName   Role = "asset_name"
)

// Roles lists the five semantic roles in canonical order.
var Roles = []Role{RoleDate, RoleAmount, RoleInstitution, RoleAssetClass, RoleAssetName}

// Mapping assigns each semantic role to a raw column name.
type Mapping map[Role]string

// roleHints are case-insensitive substrings matched against raw column
// names when guessing a default mapping. The vocabulary follows the
// Brazilian spreadsheet layout this started from (Data, Valor, Banco,
// Tipo de Investimento, Caracteristica).
var roleHints = map[Role][]string{
	RoleDate:        {"data", "date"},
	RoleAmount:      {"valor"},
	RoleInstitution: {"banco"},
	RoleAssetClass:  {"tipo"},
	RoleAssetName:   {"caracter", "ativo"},
}

// InferMapping guesses a default mapping for the given raw columns by
// case-insensitive substring match, falling back to the first column
// when nothing matches.
func InferMapping(columns []string) Mapping {
	m := make(Mapping, len(Roles))
	for _, role := range Roles {
		m[role] = guessColumn(role, columns)
	}

	return m
}

func guessColumn(role Role, columns []string) string {
	for _, hint := range roleHints[role] {
		for _, col := range columns {
			if strings.Contains(strings.ToLower(col), hint) {
				return col
			}
		}
	}

	if len(columns) > 0 {
		return columns[0]
	}

	return ""
}

// Validate checks that every role maps to a column present in the raw
// table. A stale mapping (for example after reloading a differently
// shaped file) is a configuration error, never silently substituted.
func (m Mapping) Validate(columns []string) error {
	present := make(map[string]bool, len(columns))
	for _, c := range columns {
		present[c] = true
	}

	for _, role := range Roles {
		col := m[role]
		if col == "" || !present[col] {
			return &MappingError{Role: role, Column: col}
		}
	}

	return nil
}
