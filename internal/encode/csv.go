package encode

import (
	"bufio"
	"io"
	"runtime"
	"strings"

	"github.com/23A91A0565/polystreamx/internal/coerce"
	"github.com/23A91A0565/polystreamx/internal/project"
)

// csvEncoder implements the delimited grammar of spec.md §4.4, grounded on
// the migration-tool exporter's rowsToCSVBytes, generalized from a fixed
// column list to the job's ordered mapping.
type csvEncoder struct {
	w       *bufio.Writer
	rowsOut int
}

// NewCSVEncoder builds a CSV encoder writing to sink.
func NewCSVEncoder(sink io.Writer) Encoder {
	return &csvEncoder{w: bufio.NewWriter(sink)}
}

func (e *csvEncoder) WriteHeader(columns []ColumnMeta) error {
	targets := targetNames(columns)
	for i, t := range targets {
		if i > 0 {
			if _, err := e.w.WriteString(","); err != nil {
				return err
			}
		}
		if _, err := e.w.WriteString(csvField(t)); err != nil {
			return err
		}
	}
	_, err := e.w.WriteString("\n")
	return err
}

func (e *csvEncoder) WriteRow(row project.Row) error {
	for i, col := range row {
		if i > 0 {
			if _, err := e.w.WriteString(","); err != nil {
				return err
			}
		}
		field, err := csvValueField(col.Value)
		if err != nil {
			return err
		}
		if _, err := e.w.WriteString(field); err != nil {
			return err
		}
	}
	if _, err := e.w.WriteString("\n"); err != nil {
		return err
	}

	e.rowsOut++
	if e.rowsOut%YieldEvery == 0 {
		runtime.Gosched()
	}
	return nil
}

func (e *csvEncoder) WriteFooter() error { return nil }

func (e *csvEncoder) Close() error { return e.w.Flush() }

// csvValueField renders one coerced Value per spec.md §4.4's per-field
// rule: scalars as their scalar text, nested documents as compact JSON,
// both subject to CSV escaping.
func csvValueField(v coerce.Value) (string, error) {
	if v.Kind == coerce.KindList || v.Kind == coerce.KindDocument {
		text, err := coerce.CompactJSON(v)
		if err != nil {
			return "", err
		}
		return csvField(text), nil
	}
	return csvField(v.ScalarText()), nil
}

// csvField applies the escaping rule of spec.md §4.4: quote and double
// internal quotes if the field contains a comma, quote, or newline.
func csvField(s string) string {
	if !strings.ContainsAny(s, ",\"\n") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		if r == '"' {
			b.WriteByte('"')
		}
		b.WriteRune(r)
	}
	b.WriteByte('"')
	return b.String()
}
