package encode

import (
	"bufio"
	"bytes"
	"io"
	"runtime"

	"github.com/23A91A0565/polystreamx/internal/coerce"
	"github.com/23A91A0565/polystreamx/internal/project"
)

// jsonEncoder implements the object-array grammar of spec.md §4.5:
// `[\n`, one compact object per row separated by `,\n`, then `\n]`.
// Objects are written one at a time — the array is never buffered.
type jsonEncoder struct {
	w        *bufio.Writer
	rowsOut  int
	wroteOne bool
}

// NewJSONEncoder builds a JSON encoder writing to sink.
func NewJSONEncoder(sink io.Writer) Encoder {
	return &jsonEncoder{w: bufio.NewWriter(sink)}
}

func (e *jsonEncoder) WriteHeader(columns []ColumnMeta) error {
	_, err := e.w.WriteString("[\n")
	return err
}

func (e *jsonEncoder) WriteRow(row project.Row) error {
	if e.wroteOne {
		if _, err := e.w.WriteString(",\n"); err != nil {
			return err
		}
	}
	e.wroteOne = true

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, col := range row {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := coerce.CompactJSON(coerce.NewText(col.Target))
		if err != nil {
			return err
		}
		buf.WriteString(key)
		buf.WriteByte(':')
		if err := coerce.WriteJSON(&buf, col.Value); err != nil {
			return err
		}
	}
	buf.WriteByte('}')

	if _, err := e.w.Write(buf.Bytes()); err != nil {
		return err
	}

	e.rowsOut++
	if e.rowsOut%YieldEvery == 0 {
		runtime.Gosched()
	}
	return nil
}

func (e *jsonEncoder) WriteFooter() error {
	_, err := e.w.WriteString("\n]")
	return err
}

func (e *jsonEncoder) Close() error { return e.w.Flush() }
