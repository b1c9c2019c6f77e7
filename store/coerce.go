package store

import (
	"strconv"
	"strings"
)

// TypeHint selects how a raw form value is converted before storage.
type TypeHint int

const (
	// HintString passes the value through unchanged.
	HintString TypeHint = iota
	// HintNumber parses an integer, falling back to a float.
	HintNumber
	// HintBoolean maps the usual truthy form values to true.
	HintBoolean
)

// HintSuffix marks form keys that carry a type hint for the field of the
// same base name, e.g. "age_type=number" hints "age".
const HintSuffix = "_type"

// ParseHint maps a form-supplied hint name to a TypeHint. Unknown names fall
// back to HintString.
func ParseHint(s string) TypeHint {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "number":
		return HintNumber
	case "boolean":
		return HintBoolean
	default:
		return HintString
	}
}

// Coerce converts a raw form value according to hint. Numeric values try
// int64 first, then float64; anything unparseable is stored as the raw
// string rather than failing the whole insert. Boolean values are true iff
// the lowercased value is one of "true", "1", "yes", "on". Callers drop
// empty values before coercion.
func Coerce(value string, hint TypeHint) any {
	switch hint {
	case HintNumber:
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return n
		}
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
		return value
	case HintBoolean:
		switch strings.ToLower(value) {
		case "true", "1", "yes", "on":
			return true
		default:
			return false
		}
	default:
		return value
	}
}

// BuildRecord assembles the record to store from raw form fields and their
// hints. Empty values are omitted, names listed in exclude (identifier
// columns) are never written, and each surviving value is coerced per its
// hint. A nil result means nothing survived and the insert must be rejected.
func BuildRecord(fields map[string]string, hints map[string]TypeHint, exclude []string) Record {
	skip := make(map[string]bool, len(exclude))
	for _, name := range exclude {
		skip[name] = true
	}
	rec := Record{}
	for name, value := range fields {
		if value == "" || skip[name] {
			continue
		}
		rec[name] = Coerce(value, hints[name])
	}
	if len(rec) == 0 {
		return nil
	}
	return rec
}
