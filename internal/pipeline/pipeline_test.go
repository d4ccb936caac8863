package pipeline

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/23A91A0565/polystreamx/internal/apperr"
	"github.com/23A91A0565/polystreamx/internal/model"
)

func TestColumnMetasPreservesOrderAndSource(t *testing.T) {
	cols := []model.ColumnMapping{
		{Source: model.SourceName, Target: "Name"},
		{Source: model.SourceID, Target: "ID"},
	}

	metas := columnMetas(cols)
	require.Len(t, metas, 2)
	assert.Equal(t, "Name", metas[0].Target)
	assert.Equal(t, model.SourceName, metas[0].Source)
	assert.Equal(t, "ID", metas[1].Target)
}

func TestProjectMappingMirrorsColumnMapping(t *testing.T) {
	cols := []model.ColumnMapping{{Source: model.SourceValue, Target: "Amount"}}
	mapping := projectMapping(cols)

	require.Len(t, mapping, 1)
	assert.Equal(t, "value", mapping[0].Source)
	assert.Equal(t, "Amount", mapping[0].Target)
}

func TestCoerceRowKeysValuesBySourceAttribute(t *testing.T) {
	values, err := coerceRow([]string{"id", "name"}, []any{int64(7), "Record_7"})
	require.NoError(t, err)

	assert.Equal(t, int64(7), values["id"].Int64)
	assert.Equal(t, "Record_7", values["name"].Text)
}

func TestPublicErrorUsesApperrTable(t *testing.T) {
	err := errors.New("boom")
	assert.Equal(t, "unexpected error", publicError(err))
	assert.Equal(t, "job not found", publicError(apperr.ErrJobNotFound))
}
