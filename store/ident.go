package store

import "regexp"

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidIdentifier reports whether name is safe to use as a table, collection,
// or column name: letters, digits and underscore, not starting with a digit.
// This is the sole defense against schema-object-name injection; every
// operation that interpolates a name into a query must check it first and
// fail closed. No trimming or case folding is applied.
func ValidIdentifier(name string) bool {
	return identRe.MatchString(name)
}
