// Package coerce normalizes raw database values into a small tagged value
// model shared by every format encoder, per spec.md §4.3 and the
// REDESIGN FLAGS note to replace dynamic dispatch with a sum type.
package coerce

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Kind tags which variant a Value holds.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt64
	KindDecimal
	KindTimestamp
	KindText
	KindList
	KindDocument
)

// Value is the sum type every encoder pattern-matches on. Exactly one of
// the typed fields is meaningful, selected by Kind.
type Value struct {
	Kind      Kind
	Bool      bool
	Int64     int64
	Decimal   decimal.Decimal
	Timestamp time.Time
	Text      string
	List      []Value
	Document  []DocumentEntry
}

// DocumentEntry is one key/value pair of a nested document. A slice (not a
// map) preserves the source key order, which XML sanitization and JSON
// serialization both rely on for deterministic output.
type DocumentEntry struct {
	Key   string
	Value Value
}

// Null is the singular null value.
var Null = Value{Kind: KindNull}

// NewBool wraps a boolean.
func NewBool(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// NewInt64 wraps a 64-bit integer (used for the `id` column).
func NewInt64(i int64) Value { return Value{Kind: KindInt64, Int64: i} }

// NewDecimal wraps a fixed-point decimal, canonicalized to the requested
// scale by the caller (coerce.Decimal below does this for DB values).
func NewDecimal(d decimal.Decimal) Value { return Value{Kind: KindDecimal, Decimal: d} }

// NewTimestamp wraps a timestamp.
func NewTimestamp(t time.Time) Value { return Value{Kind: KindTimestamp, Timestamp: t} }

// NewText wraps a text scalar.
func NewText(s string) Value { return Value{Kind: KindText, Text: s} }

// NewList wraps an ordered list of values.
func NewList(items []Value) Value { return Value{Kind: KindList, List: items} }

// NewDocument wraps an ordered mapping.
func NewDocument(entries []DocumentEntry) Value { return Value{Kind: KindDocument, Document: entries} }

// IsNull reports whether v is the null variant.
func (v Value) IsNull() bool { return v.Kind == KindNull }

// DecimalScale is the fixed scale (number of digits after the point) every
// `value` column coerces to, per spec.md §4.3.
const DecimalScale = 4

// Decimal canonicalizes d to DecimalScale digits, trailing zeros preserved,
// per spec.md's "canonical decimal text with trailing zeros preserved to
// scale 4".
func Decimal(d decimal.Decimal) Value {
	return NewDecimal(d.Truncate(DecimalScale))
}

// DecimalText renders the decimal the way every text encoder wants it:
// fixed to DecimalScale digits after the point.
func (v Value) DecimalText() string {
	return v.Decimal.StringFixed(DecimalScale)
}

// TimestampText renders the timestamp as ISO-8601 extended with a zone
// offset, per spec.md §4.3.
func (v Value) TimestampText() string {
	return v.Timestamp.Format(time.RFC3339Nano)
}

// ScalarText renders any scalar Value (everything except List/Document) to
// the text representation spec.md §4.4 wants from the CSV encoder: decimal
// text for numbers, ISO-8601 for timestamps, true/false for booleans, and
// empty string for null. Encoders that need native JSON/XML representation
// instead query Kind directly.
func (v Value) ScalarText() string {
	switch v.Kind {
	case KindNull:
		return ""
	case KindBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case KindInt64:
		return fmt.Sprintf("%d", v.Int64)
	case KindDecimal:
		return v.DecimalText()
	case KindTimestamp:
		return v.TimestampText()
	case KindText:
		return v.Text
	default:
		return ""
	}
}
