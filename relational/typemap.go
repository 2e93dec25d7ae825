package relational

import (
	"fmt"
	"strings"
)

// MapType maps a schema type descriptor to a column type by case-insensitive
// substring match on its textual form. Rules are checked in order and the
// first match wins; anything unmatched is a 255 character string.
func MapType(descriptor fmt.Stringer) SemanticType {
	var t string
	if descriptor != nil {
		t = strings.ToLower(descriptor.String())
	}

	switch {
	case strings.Contains(t, "decimal"):
		return Numeric(15, 2)
	case strings.Contains(t, "date"):
		return Date
	case strings.Contains(t, "boolean"):
		return Boolean
	case strings.Contains(t, "integer"):
		return Integer
	default:
		return VariableString(255)
	}
}
