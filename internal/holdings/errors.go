package holdings

import "fmt"

// MappingError reports a role pointing at a column absent from the raw
// table. Fatal for the load; the mapping must be corrected first.
type MappingError struct {
	Role   Role
	Column string
}

func (e *MappingError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("mapping: no column assigned to role %q", e.Role)
	}

	return fmt.Sprintf("mapping: role %q refers to unknown column %q", e.Role, e.Column)
}

// AmountParseError reports a cell in the mapped amount column that is
// not a valid locale amount. It names the column rather than the row:
// an unparseable amount column almost always means the mapping points
// at the wrong column, which no per-row tolerance would fix.
type AmountParseError struct {
	Column string
	Value  string
}

func (e *AmountParseError) Error() string {
	return fmt.Sprintf("amount column %q: cannot parse %q", e.Column, e.Value)
}
