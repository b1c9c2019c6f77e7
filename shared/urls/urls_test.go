package urls

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuild(t *testing.T) {
	assert.Equal(t, "/?action=home", Home("/"))
	assert.Equal(t, "/db?action=home", Home("/db"))
	// Missing leading slash is repaired.
	assert.Equal(t, "/db?action=home", Home("db"))
}

func TestBuildSortsAndEscapesParams(t *testing.T) {
	got := Build("/", "table_view", map[string]string{
		"z":     "last",
		"table": "my table",
	})
	assert.Equal(t, "/?action=table_view&table=my+table&z=last", got)
}

func TestTableURLsCarryTableParam(t *testing.T) {
	assert.Equal(t, "/?action=table_view&table=people", TableView("/", "people"))
	assert.Equal(t, "/?action=row_insert&table=people", RowInsert("/", "people"))
	assert.Equal(t, "/?action=row_update&table=people", RowUpdate("/", "people"))
	assert.Equal(t, "/?action=row_delete&table=people", RowDelete("/", "people"))
}
