package encode

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/23A91A0565/polystreamx/internal/coerce"
	"github.com/23A91A0565/polystreamx/internal/model"
	"github.com/23A91A0565/polystreamx/internal/project"
)

func TestJSONEmptyTable(t *testing.T) {
	var buf bytes.Buffer
	enc := NewJSONEncoder(&buf)

	require.NoError(t, enc.WriteHeader([]ColumnMeta{{Target: "id", Source: model.SourceID}}))
	require.NoError(t, enc.WriteFooter())
	require.NoError(t, enc.Close())

	assert.Equal(t, "[\n\n]", buf.String())
}

func TestJSONNesting(t *testing.T) {
	var buf bytes.Buffer
	enc := NewJSONEncoder(&buf)

	columns := []ColumnMeta{
		{Target: "id", Source: model.SourceID},
		{Target: "created_at", Source: model.SourceCreatedAt},
		{Target: "name", Source: model.SourceName},
		{Target: "value", Source: model.SourceValue},
		{Target: "metadata", Source: model.SourceMetadata},
	}
	require.NoError(t, enc.WriteHeader(columns))

	meta := coerce.NewDocument([]coerce.DocumentEntry{
		{Key: "category", Value: coerce.NewText("A")},
		{Key: "tags", Value: coerce.NewList([]coerce.Value{coerce.NewText("x"), coerce.NewText("y")})},
	})

	d, err := decimal.NewFromString("45123.5000")
	require.NoError(t, err)
	value := coerce.Decimal(d)

	require.NoError(t, enc.WriteRow(project.Row{
		{Target: "id", Value: coerce.NewInt64(1)},
		{Target: "created_at", Value: coerce.NewText("2026-01-01T00:00:00Z")},
		{Target: "name", Value: coerce.NewText("Record_1")},
		{Target: "value", Value: value},
		{Target: "metadata", Value: meta},
	}))
	require.NoError(t, enc.WriteFooter())
	require.NoError(t, enc.Close())

	assert.Contains(t, buf.String(), `"id":1`)
	assert.Contains(t, buf.String(), `"name":"Record_1"`)
	assert.Contains(t, buf.String(), `"value":"45123.5000"`)
	assert.Contains(t, buf.String(), `"metadata":{"category":"A","tags":["x","y"]}`)
}

func TestJSONMultipleRowsAreCommaSeparated(t *testing.T) {
	var buf bytes.Buffer
	enc := NewJSONEncoder(&buf)

	columns := []ColumnMeta{{Target: "id", Source: model.SourceID}}
	require.NoError(t, enc.WriteHeader(columns))
	require.NoError(t, enc.WriteRow(project.Row{{Target: "id", Value: coerce.NewInt64(1)}}))
	require.NoError(t, enc.WriteRow(project.Row{{Target: "id", Value: coerce.NewInt64(2)}}))
	require.NoError(t, enc.WriteFooter())
	require.NoError(t, enc.Close())

	assert.Equal(t, "[\n{\"id\":1},\n{\"id\":2}\n]", buf.String())
}
