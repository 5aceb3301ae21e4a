package records

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// IDField is the primary key column the store assigns to every table.
const IDField = "Id"

// Record is a single row returned by the record store. Keys are the
// human-readable column names ("Job Title", "First Name", ...).
type Record map[string]any

// ID returns the numeric "Id" column, or 0 when missing.
func (r Record) ID() int {
	id, _ := r.Int(IDField)
	return id
}

// String returns the value at key as a string. Missing and null values
// return "". Numbers are formatted without a trailing ".0".
func (r Record) String(key string) string {
	v, ok := r[key]
	if !ok || v == nil {
		return ""
	}
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case json.Number:
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// Int returns the value at key as an int. The second result is false when
// the key is missing, null, or not numeric.
func (r Record) Int(key string) (int, bool) {
	v, ok := r[key]
	if !ok || v == nil {
		return 0, false
	}
	switch val := v.(type) {
	case float64:
		return int(val), true
	case int:
		return val, true
	case int64:
		return int(val), true
	case json.Number:
		n, err := val.Int64()
		if err != nil {
			return 0, false
		}
		return int(n), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// Map returns the nested object at key, or nil.
func (r Record) Map(key string) Record {
	switch val := r[key].(type) {
	case map[string]any:
		return Record(val)
	case Record:
		return val
	default:
		return nil
	}
}

// List returns the nested array at key as records. Non-object elements
// are dropped.
func (r Record) List(key string) []Record {
	raw, ok := r[key].([]any)
	if !ok {
		if typed, ok := r[key].([]Record); ok {
			return typed
		}
		return nil
	}
	out := make([]Record, 0, len(raw))
	for _, item := range raw {
		switch val := item.(type) {
		case map[string]any:
			out = append(out, Record(val))
		case Record:
			out = append(out, val)
		}
	}
	return out
}
