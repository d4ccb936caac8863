package coerce

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeJSONBPreservesKeyOrder(t *testing.T) {
	v, err := DecodeJSONB([]byte(`{"zebra":1,"apple":2,"mango":3}`))
	require.NoError(t, err)
	require.Equal(t, KindDocument, v.Kind)

	require.Len(t, v.Document, 3)
	assert.Equal(t, "zebra", v.Document[0].Key)
	assert.Equal(t, "apple", v.Document[1].Key)
	assert.Equal(t, "mango", v.Document[2].Key)
}

func TestDecodeJSONBNonIntegerNumberBecomesDecimal(t *testing.T) {
	v, err := DecodeJSONB([]byte(`{"price":12.50}`))
	require.NoError(t, err)
	require.Len(t, v.Document, 1)
	assert.Equal(t, KindDecimal, v.Document[0].Value.Kind)
}

func TestDecodeJSONBIntegerNumberBecomesInt64(t *testing.T) {
	v, err := DecodeJSONB([]byte(`{"count":7}`))
	require.NoError(t, err)
	require.Len(t, v.Document, 1)
	assert.Equal(t, KindInt64, v.Document[0].Value.Kind)
	assert.Equal(t, int64(7), v.Document[0].Value.Int64)
}

func TestDecodeJSONBNestedListAndNull(t *testing.T) {
	v, err := DecodeJSONB([]byte(`{"tags":["x","y"],"note":null}`))
	require.NoError(t, err)
	require.Len(t, v.Document, 2)

	tags := v.Document[0].Value
	require.Equal(t, KindList, tags.Kind)
	require.Len(t, tags.List, 2)
	assert.Equal(t, "x", tags.List[0].Text)

	assert.True(t, v.Document[1].Value.IsNull())
}
