package coerce

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromDriverScalars(t *testing.T) {
	v, err := FromDriver(nil)
	require.NoError(t, err)
	assert.True(t, v.IsNull())

	v, err = FromDriver(int64(42))
	require.NoError(t, err)
	assert.Equal(t, KindInt64, v.Kind)
	assert.Equal(t, int64(42), v.Int64)

	v, err = FromDriver("hello")
	require.NoError(t, err)
	assert.Equal(t, KindText, v.Kind)
	assert.Equal(t, "hello", v.Text)

	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	v, err = FromDriver(ts)
	require.NoError(t, err)
	assert.Equal(t, KindTimestamp, v.Kind)
	assert.True(t, ts.Equal(v.Timestamp))
}

func TestDecimalCanonicalization(t *testing.T) {
	d, err := decimal.NewFromString("45123.5")
	require.NoError(t, err)

	v, err := FromDriver(d)
	require.NoError(t, err)
	assert.Equal(t, KindDecimal, v.Kind)
	assert.Equal(t, "45123.5000", v.DecimalText())
}

func TestFromColumnMetadataRoutesThroughJSONB(t *testing.T) {
	v, err := FromColumn(MetadataSource, []byte(`{"category":"A","tags":["x","y"]}`))
	require.NoError(t, err)
	require.Equal(t, KindDocument, v.Kind)

	require.Len(t, v.Document, 2)
	assert.Equal(t, "category", v.Document[0].Key)
	assert.Equal(t, "tags", v.Document[1].Key)
	assert.Equal(t, KindList, v.Document[1].Value.Kind)
	require.Len(t, v.Document[1].Value.List, 2)
	assert.Equal(t, "x", v.Document[1].Value.List[0].Text)
}

func TestFromColumnMetadataNull(t *testing.T) {
	v, err := FromColumn(MetadataSource, nil)
	require.NoError(t, err)
	assert.True(t, v.IsNull())
}

func TestScalarTextNullIsEmpty(t *testing.T) {
	assert.Equal(t, "", Null.ScalarText())
}

func TestScalarTextBool(t *testing.T) {
	assert.Equal(t, "true", NewBool(true).ScalarText())
	assert.Equal(t, "false", NewBool(false).ScalarText())
}
