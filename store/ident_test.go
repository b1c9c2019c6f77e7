package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidIdentifier(t *testing.T) {
	accepted := []string{
		"contacts",
		"_private",
		"Table1",
		"a",
		"snake_case_name",
		"X9_",
	}
	for _, name := range accepted {
		assert.True(t, ValidIdentifier(name), "expected %q to be accepted", name)
	}

	rejected := []string{
		"",
		"1table",
		"my-table",
		"my table",
		"users;drop table users",
		"a.b",
		"naïve",
		"users\n",
	}
	for _, name := range rejected {
		assert.False(t, ValidIdentifier(name), "expected %q to be rejected", name)
	}
}
