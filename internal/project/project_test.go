package project

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/23A91A0565/polystreamx/internal/coerce"
)

func TestProjectPreservesMappingOrder(t *testing.T) {
	values := map[string]coerce.Value{
		"id":   coerce.NewInt64(1),
		"name": coerce.NewText("Record_1"),
	}
	mapping := []Mapping{
		{Source: "name", Target: "Name"},
		{Source: "id", Target: "ID"},
	}

	row := Project(values, mapping)

	assert.Equal(t, Row{
		{Target: "Name", Value: coerce.NewText("Record_1")},
		{Target: "ID", Value: coerce.NewInt64(1)},
	}, row)
}

func TestProjectMissingSourceYieldsZeroValue(t *testing.T) {
	row := Project(map[string]coerce.Value{}, []Mapping{{Source: "missing", Target: "m"}})
	assert.Len(t, row, 1)
	assert.True(t, row[0].Value.IsNull())
}
