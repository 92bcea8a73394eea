// Package record holds the game record type shared by the chunker and the
// indexer. Records are opaque JSON objects; only the name field is read.
package record

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
)

// NameField is the JSON key holding a game's display name.
const NameField = "GameName"

// ErrNotArray is returned when a document's root is not a JSON array.
var ErrNotArray = errors.New("root is not a JSON array")

// Record is one game. Values are kept raw so nothing but the name is decoded.
type Record map[string]json.RawMessage

// Name returns the normalized name and true, or "" and false when the field
// is missing, null, not a string, or blank.
func (r Record) Name() (string, bool) {
	raw, ok := r[NameField]
	if !ok {
		return "", false
	}

	var s *string
	if err := json.Unmarshal(raw, &s); err != nil || s == nil {
		return "", false
	}

	name := Normalize(*s)
	if name == "" {
		return "", false
	}
	return name, true
}

// Normalize turns a display name into an index key.
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// DecodeRaw parses a JSON array without interpreting its elements.
func DecodeRaw(data []byte) ([]json.RawMessage, error) {
	var items *[]json.RawMessage
	if err := decodeArray(data, &items); err != nil {
		return nil, err
	}
	if items == nil {
		return nil, ErrNotArray
	}
	return *items, nil
}

// DecodeArray parses a JSON array of records. Every element must be an
// object or null.
func DecodeArray(data []byte) ([]Record, error) {
	var recs *[]Record
	if err := decodeArray(data, &recs); err != nil {
		return nil, err
	}
	if recs == nil {
		return nil, ErrNotArray
	}
	return *recs, nil
}

func decodeArray(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && !startsWithArray(data) {
			return ErrNotArray
		}
		return err
	}
	return nil
}

func startsWithArray(data []byte) bool {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '['
}
