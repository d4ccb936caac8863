package coerce

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// DecodeJSONB parses a JSONB column's raw text/bytes into a Value,
// preserving object key order (encoding/json's map[string]any would
// randomize it). This is the recursive coercion spec.md §4.3 requires for
// `metadata`: "nested documents recursively as mapping/list of the same
// variant set".
func DecodeJSONB(raw []byte) (Value, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return Null, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	v, err := decodeJSONValue(dec)
	if err != nil {
		return Value{}, fmt.Errorf("coerce: decode jsonb: %w", err)
	}
	return v, nil
}

func decodeJSONValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}
	return decodeJSONToken(dec, tok)
}

func decodeJSONToken(dec *json.Decoder, tok json.Token) (Value, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			entries := []DocumentEntry{}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return Value{}, err
				}
				key, _ := keyTok.(string)
				val, err := decodeJSONValue(dec)
				if err != nil {
					return Value{}, err
				}
				entries = append(entries, DocumentEntry{Key: key, Value: val})
			}
			if _, err := dec.Token(); err != nil { // consume '}'
				return Value{}, err
			}
			return NewDocument(entries), nil
		case '[':
			items := []Value{}
			for dec.More() {
				val, err := decodeJSONValue(dec)
				if err != nil {
					return Value{}, err
				}
				items = append(items, val)
			}
			if _, err := dec.Token(); err != nil { // consume ']'
				return Value{}, err
			}
			return NewList(items), nil
		}
	case json.Number:
		return decodeJSONNumber(t), nil
	case string:
		return NewText(t), nil
	case bool:
		return NewBool(t), nil
	case nil:
		return Null, nil
	}
	return Null, nil
}

func decodeJSONNumber(n json.Number) Value {
	if i, err := n.Int64(); err == nil {
		return NewInt64(i)
	}
	d, err := decimal.NewFromString(n.String())
	if err != nil {
		return Null
	}
	return NewDecimal(d)
}
