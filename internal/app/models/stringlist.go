package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StringList is an ordered list of string identifiers stored as a JSONB
// array. Decoding is lenient: anything that is not a valid JSON string array
// degrades to an empty list, so callers always see a materialized list and
// never a raw string.
type StringList []string

// DecodeStringList decodes a JSON-encoded list. Empty input, JSON null and
// malformed JSON all normalize to an empty list.
func DecodeStringList(raw string) StringList {
	if raw == "" || raw == "null" {
		return StringList{}
	}

	var list []string
	if err := json.Unmarshal([]byte(raw), &list); err != nil || list == nil {
		return StringList{}
	}
	return StringList(list)
}

// Scan implements sql.Scanner for JSONB columns.
func (l *StringList) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*l = StringList{}
	case []byte:
		*l = DecodeStringList(string(v))
	case string:
		*l = DecodeStringList(v)
	default:
		return fmt.Errorf("cannot scan %T into StringList", src)
	}
	return nil
}

// Value implements driver.Valuer; a nil list is stored as an empty array.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(l))
}

// MarshalJSON guarantees a nil list serializes as [] rather than null.
func (l StringList) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(l))
}
