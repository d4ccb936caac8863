// Package model defines the data model shared across the export pipeline:
// the source Record attributes, the column mapping a request carries, the
// validated ExportRequest, and the ExportJob lifecycle.
package model

import "time"

// Format names the four supported serialization grammars. The strings are
// tags only — nothing dispatches on them beyond the single encoder factory
// switch in internal/encode.
type Format string

const (
	FormatCSV     Format = "csv"
	FormatJSON    Format = "json"
	FormatXML     Format = "xml"
	FormatParquet Format = "parquet"
)

// ValidFormats lists every accepted format tag, in no particular order.
var ValidFormats = map[Format]bool{
	FormatCSV:     true,
	FormatJSON:    true,
	FormatXML:     true,
	FormatParquet: true,
}

// Compression names the single supported stream compression.
type Compression string

const (
	CompressionNone Compression = ""
	CompressionGzip Compression = "gzip"
)

// RecordSource is a fixed allow-list of attributes on the `records` table.
// ColumnMapping.Source must be drawn from this set — it is the injection
// defense named in spec.md §3: no user-supplied text reaches SQL text
// without first being checked against this list.
type RecordSource string

const (
	SourceID        RecordSource = "id"
	SourceCreatedAt RecordSource = "created_at"
	SourceName      RecordSource = "name"
	SourceValue     RecordSource = "value"
	SourceMetadata  RecordSource = "metadata"
)

// ValidSources is the allow-list used by request validation and by the SQL
// column list builder; the two must always agree.
var ValidSources = map[RecordSource]string{
	SourceID:        "id",
	SourceCreatedAt: "created_at",
	SourceName:      "name",
	SourceValue:     "value",
	SourceMetadata:  "metadata",
}

// ColumnMapping pairs a source attribute with the name it is emitted under.
// Order within ExportRequest.Columns fixes emission order in the CSV, JSON
// and XML formats. The Parquet encoder builds its schema from a
// parquet.Group, which orders the file's columns by target name, not by
// mapping order.
type ColumnMapping struct {
	Source RecordSource `json:"source"`
	Target string       `json:"target"`
}

// ExportRequest is the validated input to one export job.
type ExportRequest struct {
	Format      Format          `json:"format"`
	Columns     []ColumnMapping `json:"columns"`
	Compression Compression     `json:"compression,omitempty"`
}

// Validate checks the invariants of spec.md §3: known format, non-empty
// columns with non-empty source/target drawn from the allow-list, and a
// compression tag that is either absent or exactly "gzip".
func (r ExportRequest) Validate() error {
	if !ValidFormats[r.Format] {
		return wrapf(ErrUnknownFormat, string(r.Format))
	}
	if len(r.Columns) == 0 {
		return ErrEmptyColumns
	}
	for _, col := range r.Columns {
		if col.Target == "" {
			return ErrEmptyTarget
		}
		if _, ok := ValidSources[col.Source]; !ok {
			return wrapf(ErrUnknownSource, string(col.Source))
		}
	}
	if r.Compression != CompressionNone && r.Compression != CompressionGzip {
		return wrapf(ErrUnknownCompression, string(r.Compression))
	}
	return nil
}

// JobStatus models the lifecycle state machine of spec.md §4.9.
type JobStatus string

const (
	StatusPending    JobStatus = "pending"
	StatusInProgress JobStatus = "in_progress"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
)

// ExportJob is an ExportRequest plus the identifier and lifecycle state the
// Job Registry tracks.
type ExportJob struct {
	ID           string
	Request      ExportRequest
	Status       JobStatus
	Error        string
	CreatedAt    time.Time
	CompletedAt  *time.Time
}

// Extension returns the file extension used in the download filename, per
// spec.md §6.
func (f Format) Extension() string {
	switch f {
	case FormatCSV:
		return "csv"
	case FormatJSON:
		return "json"
	case FormatXML:
		return "xml"
	case FormatParquet:
		return "parquet"
	default:
		return "bin"
	}
}

// ContentType returns the MIME type for the format's response body, before
// any compression wrapping.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv"
	case FormatJSON:
		return "application/json"
	case FormatXML:
		return "application/xml"
	case FormatParquet:
		return "application/octet-stream"
	default:
		return "application/octet-stream"
	}
}
