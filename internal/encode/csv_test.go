package encode

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/23A91A0565/polystreamx/internal/coerce"
	"github.com/23A91A0565/polystreamx/internal/model"
	"github.com/23A91A0565/polystreamx/internal/project"
)

func TestCSVSmoke(t *testing.T) {
	var buf bytes.Buffer
	enc := NewCSVEncoder(&buf)

	columns := []ColumnMeta{
		{Target: "ID", Source: model.SourceID},
		{Target: "Name", Source: model.SourceName},
	}
	require.NoError(t, enc.WriteHeader(columns))
	require.NoError(t, enc.WriteRow(project.Row{
		{Target: "ID", Value: coerce.NewInt64(1)},
		{Target: "Name", Value: coerce.NewText("Record_1")},
	}))
	require.NoError(t, enc.WriteFooter())
	require.NoError(t, enc.Close())

	assert.Equal(t, "ID,Name\n1,Record_1\n", buf.String())
}

func TestCSVEscaping(t *testing.T) {
	var buf bytes.Buffer
	enc := NewCSVEncoder(&buf)

	columns := []ColumnMeta{{Target: "ID", Source: model.SourceID}, {Target: "Name", Source: model.SourceName}}
	require.NoError(t, enc.WriteHeader(columns))
	require.NoError(t, enc.WriteRow(project.Row{
		{Target: "ID", Value: coerce.NewInt64(1)},
		{Target: "Name", Value: coerce.NewText(`a,b"c`)},
	}))
	require.NoError(t, enc.Close())

	assert.Contains(t, buf.String(), `1,"a,b""c"`+"\n")
}

func TestCSVEmptyTableYieldsHeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	enc := NewCSVEncoder(&buf)

	require.NoError(t, enc.WriteHeader([]ColumnMeta{{Target: "ID", Source: model.SourceID}}))
	require.NoError(t, enc.WriteFooter())
	require.NoError(t, enc.Close())

	assert.Equal(t, "ID\n", buf.String())
}

func TestCSVNestedValueIsCompactJSON(t *testing.T) {
	var buf bytes.Buffer
	enc := NewCSVEncoder(&buf)

	doc := coerce.NewDocument([]coerce.DocumentEntry{{Key: "category", Value: coerce.NewText("A")}})
	require.NoError(t, enc.WriteHeader([]ColumnMeta{{Target: "metadata", Source: model.SourceMetadata}}))
	require.NoError(t, enc.WriteRow(project.Row{{Target: "metadata", Value: doc}}))
	require.NoError(t, enc.Close())

	assert.Contains(t, buf.String(), `"{""category"":""A""}"`)
}
