// Package compress implements the optional stream compression stage of
// spec.md §4.8: a thin adapter wrapping the pipeline's sink in a gzip
// writer when the job requested it, using the project's standardized
// gzip fork instead of the standard library's compress/gzip.
package compress

import (
	"io"

	"github.com/klauspost/compress/gzip"

	"github.com/23A91A0565/polystreamx/internal/model"
)

// Writer wraps a sink so that Close also flushes and closes any gzip
// framing started by Wrap; for model.CompressionNone it is a no-op
// passthrough so callers never need to branch on whether compression is
// active.
type Writer struct {
	io.Writer
	closer io.Closer
}

// Wrap returns a Writer over sink for the requested compression, gzip at
// the default compression level per spec.md §4.8.
func Wrap(sink io.Writer, c model.Compression) Writer {
	switch c {
	case model.CompressionGzip:
		gz := gzip.NewWriter(sink)
		return Writer{Writer: gz, closer: gz}
	default:
		return Writer{Writer: sink}
	}
}

// Close releases any gzip framing opened by Wrap. Safe to call on an
// uncompressed Writer.
func (w Writer) Close() error {
	if w.closer == nil {
		return nil
	}
	return w.closer.Close()
}

// ContentEncoding returns the Content-Encoding header value for c, or ""
// for model.CompressionNone.
func ContentEncoding(c model.Compression) string {
	if c == model.CompressionGzip {
		return "gzip"
	}
	return ""
}
