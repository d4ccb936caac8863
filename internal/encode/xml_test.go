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

func TestXMLEmptyTable(t *testing.T) {
	var buf bytes.Buffer
	enc := NewXMLEncoder(&buf)

	require.NoError(t, enc.WriteHeader([]ColumnMeta{{Target: "id", Source: model.SourceID}}))
	require.NoError(t, enc.WriteFooter())
	require.NoError(t, enc.Close())

	assert.Equal(t, "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n<records></records>", buf.String())
}

func TestXMLArrayNesting(t *testing.T) {
	var buf bytes.Buffer
	enc := NewXMLEncoder(&buf)

	meta := coerce.NewDocument([]coerce.DocumentEntry{
		{Key: "category", Value: coerce.NewText("A")},
		{Key: "tags", Value: coerce.NewList([]coerce.Value{coerce.NewText("x"), coerce.NewText("y")})},
	})

	require.NoError(t, enc.WriteHeader([]ColumnMeta{{Target: "metadata", Source: model.SourceMetadata}}))
	require.NoError(t, enc.WriteRow(project.Row{{Target: "metadata", Value: meta}}))
	require.NoError(t, enc.WriteFooter())
	require.NoError(t, enc.Close())

	assert.Contains(t, buf.String(), "<metadata><category>A</category><tags><item_0>x</item_0><item_1>y</item_1></tags></metadata>")
}

func TestXMLSanitizesTagWithSpaceAndLeadingDigit(t *testing.T) {
	assert.Equal(t, "_1st_value", SanitizeTag("1st value"))
}

func TestEscapeXMLText(t *testing.T) {
	assert.Equal(t, "a &amp; b &lt;c&gt;", EscapeXMLText("a & b <c>"))
}
