// Package apperr defines the sentinel errors that cross the export
// pipeline's stage boundaries and the single table that translates them
// into HTTP status codes. The table is consulted by the driver
// (internal/pipeline, for the job's public error text) and by the HTTP
// handlers (internal/httpapi, for the response status); lower layers just
// wrap and return.
package apperr

import (
	"errors"
	"net/http"
)

// Sentinel errors, one per kind named in spec.md §7.
var (
	ErrRequestInvalid   = errors.New("request invalid")
	ErrJobNotFound      = errors.New("job not found")
	ErrCursorFailed     = errors.New("cursor failed")
	ErrEncoderFailed    = errors.New("encoder failed")
	ErrSinkFailed       = errors.New("sink failed")
	ErrClientDisconnect = errors.New("client disconnected")
)

// info associates a sentinel with the HTTP status and public message it
// maps to when no bytes have been written yet.
type info struct {
	statusCode int
	publicMsg  string
}

var table = map[error]info{
	ErrRequestInvalid:   {http.StatusBadRequest, "invalid request"},
	ErrJobNotFound:      {http.StatusNotFound, "job not found"},
	ErrCursorFailed:     {http.StatusInternalServerError, "export failed"},
	ErrEncoderFailed:    {http.StatusInternalServerError, "export failed"},
	ErrSinkFailed:       {http.StatusInternalServerError, "export failed"},
	ErrClientDisconnect: {http.StatusInternalServerError, "export failed"},
}

// Resolve converts a (possibly wrapped) error into an HTTP status code and
// a public-facing message. Errors not in the table resolve to a generic
// 500; callers decide separately whether it's safe to write that body
// (only true if no bytes of the response have been sent yet).
func Resolve(err error) (int, string) {
	for sentinel, meta := range table {
		if errors.Is(err, sentinel) {
			return meta.statusCode, meta.publicMsg
		}
	}
	return http.StatusInternalServerError, "unexpected error"
}
