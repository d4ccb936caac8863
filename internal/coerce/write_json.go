package coerce

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// WriteJSON writes v's canonical compact JSON serialization to buf. Used
// both by the JSON encoder (native nested objects) and by the CSV encoder
// (stringified into a single field), per spec.md §4.4 and §4.5. Document
// key order is preserved, unlike encoding/json's map-based marshaling.
func WriteJSON(buf *bytes.Buffer, v Value) error {
	switch v.Kind {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		if v.Bool {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case KindInt64:
		fmt.Fprintf(buf, "%d", v.Int64)
	case KindDecimal:
		// Decimal text is not valid bare JSON-number-or-string ambiguity:
		// spec.md's literal JSON example quotes the decimal
		// ("value":"45123.5000"), so it is emitted as a JSON string.
		return writeJSONString(buf, v.DecimalText())
	case KindTimestamp:
		return writeJSONString(buf, v.TimestampText())
	case KindText:
		return writeJSONString(buf, v.Text)
	case KindList:
		buf.WriteByte('[')
		for i, item := range v.List {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := WriteJSON(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindDocument:
		buf.WriteByte('{')
		for i, entry := range v.Document {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSONString(buf, entry.Key); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := WriteJSON(buf, entry.Value); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	}
	return nil
}

func writeJSONString(buf *bytes.Buffer, s string) error {
	encoded, err := json.Marshal(s)
	if err != nil {
		return err
	}
	buf.Write(encoded)
	return nil
}

// CompactJSON renders v as a standalone compact JSON document, used by the
// CSV encoder for nested-document fields.
func CompactJSON(v Value) (string, error) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, v); err != nil {
		return "", err
	}
	return buf.String(), nil
}
