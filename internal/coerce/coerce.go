package coerce

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// MetadataSource is the Record attribute coerced through DecodeJSONB
// instead of FromDriver, since it is the sole nested-document column.
const MetadataSource = "metadata"

// FromColumn coerces a single raw driver value for a named source
// attribute. metadata is routed through DecodeJSONB to preserve key order
// and recurse into nested documents/lists; every other attribute goes
// through FromDriver's scalar handling.
func FromColumn(source string, raw any) (Value, error) {
	if source != MetadataSource {
		return FromDriver(raw)
	}
	switch v := raw.(type) {
	case nil:
		return Null, nil
	case []byte:
		return DecodeJSONB(v)
	case string:
		return DecodeJSONB([]byte(v))
	default:
		return Value{}, fmt.Errorf("coerce: metadata column had unexpected driver type %T", raw)
	}
}

// FromDriver coerces a single value as returned by the pgx row scanner (see
// internal/cursor) into the tagged Value model. It is the single place
// that interprets database driver types, per the REDESIGN FLAGS note;
// encoders never see raw driver values.
func FromDriver(raw any) (Value, error) {
	switch v := raw.(type) {
	case nil:
		return Null, nil
	case bool:
		return NewBool(v), nil
	case int64:
		return NewInt64(v), nil
	case int32:
		return NewInt64(int64(v)), nil
	case int:
		return NewInt64(int64(v)), nil
	case float64:
		return Decimal(decimal.NewFromFloat(v)), nil
	case decimal.Decimal:
		return Decimal(v), nil
	case time.Time:
		return NewTimestamp(v), nil
	case string:
		return NewText(v), nil
	case []byte:
		return NewText(string(v)), nil
	case map[string]any:
		return fromDocument(v)
	case []any:
		return fromList(v)
	default:
		return Value{}, fmt.Errorf("coerce: unsupported driver value type %T", raw)
	}
}

// fromDocument recursively coerces an already-decoded map[string]any into
// a Document. A Go map carries no key order, so the entries come out in
// Go's randomized map iteration order; the metadata column does not take
// this path (FromColumn routes it through DecodeJSONB, which keeps the
// source key order).
func fromDocument(m map[string]any) (Value, error) {
	entries := make([]DocumentEntry, 0, len(m))
	for k, raw := range m {
		v, err := FromDriver(raw)
		if err != nil {
			return Value{}, err
		}
		entries = append(entries, DocumentEntry{Key: k, Value: v})
	}
	return NewDocument(entries), nil
}

func fromList(items []any) (Value, error) {
	out := make([]Value, 0, len(items))
	for _, raw := range items {
		v, err := FromDriver(raw)
		if err != nil {
			return Value{}, err
		}
		out = append(out, v)
	}
	return NewList(out), nil
}
