// Package encode implements the four format encoders of spec.md §4.4-§4.7
// behind a single capability interface, selected by one factory switch —
// the "runtime-polymorphic format encoders" design note of spec.md §9,
// grounded on the Exporter-interface dispatcher pattern in the pack's
// data-engine exporter example.
package encode

import (
	"fmt"
	"io"

	"github.com/23A91A0565/polystreamx/internal/apperr"
	"github.com/23A91A0565/polystreamx/internal/model"
	"github.com/23A91A0565/polystreamx/internal/project"
)

// ColumnMeta describes one emitted column: its target name plus the source
// Record attribute it came from. Most encoders only need Target; the
// Parquet encoder also needs Source to pick a primitive physical type.
type ColumnMeta struct {
	Target string
	Source model.RecordSource
}

// Encoder is the common capability every format implements. WriteRow may
// be called any number of times between WriteHeader and WriteFooter.
// Close writes out whatever the encoder still buffers (the text encoders'
// bufio.Writer, the Parquet writer's last row group and file footer) to the
// sink; it does not close the sink itself.
type Encoder interface {
	WriteHeader(columns []ColumnMeta) error
	WriteRow(row project.Row) error
	WriteFooter() error
	Close() error
}

// YieldEvery is the cooperative-yield threshold named in spec.md §4.4 and
// §5: text encoders yield after this many rows.
const YieldEvery = 10_000

// New builds the Encoder for the requested format, writing to sink. This
// is the single dispatch-by-string point in the whole engine; everywhere
// else operates on the Encoder interface.
func New(format model.Format, sink io.Writer) (Encoder, error) {
	switch format {
	case model.FormatCSV:
		return NewCSVEncoder(sink), nil
	case model.FormatJSON:
		return NewJSONEncoder(sink), nil
	case model.FormatXML:
		return NewXMLEncoder(sink), nil
	case model.FormatParquet:
		return NewParquetEncoder(sink), nil
	default:
		return nil, fmt.Errorf("%w: unknown format %q", apperr.ErrRequestInvalid, format)
	}
}

func targetNames(columns []ColumnMeta) []string {
	names := make([]string, len(columns))
	for i, c := range columns {
		names[i] = c.Target
	}
	return names
}
