package model

import (
	"errors"
	"fmt"
)

// Validation sentinels returned by ExportRequest.Validate. They are not
// wrapped in apperr.ErrRequestInvalid: internal/httpapi's create handler
// answers any of them with a 400 carrying the error text, and this package
// just describes what's wrong.
var (
	ErrUnknownFormat      = errors.New("unknown format")
	ErrEmptyColumns       = errors.New("columns must be non-empty")
	ErrEmptyTarget        = errors.New("column target must be non-empty")
	ErrUnknownSource      = errors.New("unknown column source")
	ErrUnknownCompression = errors.New("unknown compression")
)

func wrapf(sentinel error, detail string) error {
	return fmt.Errorf("%w: %s", sentinel, detail)
}
