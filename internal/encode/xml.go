package encode

import (
	"bufio"
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/23A91A0565/polystreamx/internal/coerce"
	"github.com/23A91A0565/polystreamx/internal/project"
)

// xmlEncoder implements the hierarchical grammar of spec.md §4.6. Tags are
// hand-written rather than built through encoding/xml struct marshaling
// because target names are dynamic (job-supplied column/metadata keys),
// not static Go field names.
type xmlEncoder struct {
	w       *bufio.Writer
	rowsOut int
}

// NewXMLEncoder builds an XML encoder writing to sink.
func NewXMLEncoder(sink io.Writer) Encoder {
	return &xmlEncoder{w: bufio.NewWriter(sink)}
}

func (e *xmlEncoder) WriteHeader(columns []ColumnMeta) error {
	_, err := e.w.WriteString("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n<records>")
	return err
}

func (e *xmlEncoder) WriteRow(row project.Row) error {
	if _, err := e.w.WriteString("<record>"); err != nil {
		return err
	}
	for _, col := range row {
		if err := writeXMLElement(e.w, col.Target, col.Value); err != nil {
			return err
		}
	}
	if _, err := e.w.WriteString("</record>"); err != nil {
		return err
	}

	e.rowsOut++
	if e.rowsOut%YieldEvery == 0 {
		runtime.Gosched()
	}
	return nil
}

func (e *xmlEncoder) WriteFooter() error {
	_, err := e.w.WriteString("</records>")
	return err
}

func (e *xmlEncoder) Close() error { return e.w.Flush() }

// writeXMLElement writes one <tag>...</tag> element for v, recursing into
// documents (child per entry) and lists (synthetic item_<index> children)
// per spec.md §4.6.
func writeXMLElement(w *bufio.Writer, tag string, v coerce.Value) error {
	safeTag := SanitizeTag(tag)
	if _, err := w.WriteString("<" + safeTag + ">"); err != nil {
		return err
	}

	switch v.Kind {
	case coerce.KindDocument:
		for _, entry := range v.Document {
			if err := writeXMLElement(w, entry.Key, entry.Value); err != nil {
				return err
			}
		}
	case coerce.KindList:
		for i, item := range v.List {
			if err := writeXMLElement(w, fmt.Sprintf("item_%d", i), item); err != nil {
				return err
			}
		}
	default:
		if _, err := w.WriteString(EscapeXMLText(v.ScalarText())); err != nil {
			return err
		}
	}

	_, err := w.WriteString("</" + safeTag + ">")
	return err
}

// SanitizeTag rewrites s into a valid XML Name per spec.md §4.6: any
// character outside [A-Za-z0-9_-] becomes '_', and a leading digit gets a
// '_' prefix.
func SanitizeTag(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' || r == '-' {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	out := b.String()
	if out == "" {
		return "_"
	}
	if out[0] >= '0' && out[0] <= '9' {
		return "_" + out
	}
	return out
}

// EscapeXMLText replaces the five XML-reserved characters with their named
// entities, per spec.md §4.6.
func EscapeXMLText(s string) string {
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		"\"", "&quot;",
		"'", "&apos;",
	)
	return replacer.Replace(s)
}
