package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseHint(t *testing.T) {
	assert.Equal(t, HintNumber, ParseHint("number"))
	assert.Equal(t, HintNumber, ParseHint(" Number "))
	assert.Equal(t, HintBoolean, ParseHint("boolean"))
	assert.Equal(t, HintString, ParseHint("string"))
	assert.Equal(t, HintString, ParseHint(""))
	assert.Equal(t, HintString, ParseHint("decimal"))
}

func TestCoerceNumber(t *testing.T) {
	assert.Equal(t, int64(42), Coerce("42", HintNumber))
	assert.Equal(t, int64(-7), Coerce("-7", HintNumber))
	assert.Equal(t, 3.14, Coerce("3.14", HintNumber))
	// Unparseable numbers fall back to the raw string.
	assert.Equal(t, "forty-two", Coerce("forty-two", HintNumber))
}

func TestCoerceBoolean(t *testing.T) {
	for _, v := range []string{"true", "1", "yes", "on", "On", "TRUE", "Yes"} {
		assert.Equal(t, true, Coerce(v, HintBoolean), "value %q", v)
	}
	for _, v := range []string{"false", "0", "no", "off", "anything"} {
		assert.Equal(t, false, Coerce(v, HintBoolean), "value %q", v)
	}
}

func TestCoerceString(t *testing.T) {
	assert.Equal(t, "42", Coerce("42", HintString))
	assert.Equal(t, "true", Coerce("true", HintString))
}

func TestBuildRecord(t *testing.T) {
	rec := BuildRecord(
		map[string]string{
			"name":   "Ada",
			"age":    "42",
			"active": "On",
			"notes":  "",
			"id":     "99",
		},
		map[string]TypeHint{
			"age":    HintNumber,
			"active": HintBoolean,
		},
		[]string{"id"},
	)
	assert.Equal(t, Record{
		"name":   "Ada",
		"age":    int64(42),
		"active": true,
	}, rec)
}

func TestBuildRecordEmpty(t *testing.T) {
	// Nothing survives filtering: the insert must be rejected upstream.
	rec := BuildRecord(map[string]string{"id": "1", "blank": ""}, nil, []string{"id"})
	assert.Nil(t, rec)
}
