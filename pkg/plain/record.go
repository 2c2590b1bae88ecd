package plain

import (
	"encoding/json"
	"maps"

	"github.com/matzehuels/graphviewer/pkg/errors"
)

// Well-known record keys.
const (
	KeyID       = "id"
	KeyX        = "x"
	KeyY        = "y"
	KeyName     = "name"
	KeyLabels   = "labels"
	KeySourceID = "sourceId"
	KeyTargetID = "targetId"
	KeySource   = "source"
	KeyTarget   = "target"
)

// Record is a JSON object with arbitrary fields.
type Record map[string]any

// ToRecord normalizes v into a Record.
// It accepts a Record or a map[string]any and rejects everything else,
// including nil, with an INVALID_INPUT error.
func ToRecord(v any) (Record, error) {
	switch r := v.(type) {
	case Record:
		if r != nil {
			return r, nil
		}
	case map[string]any:
		if r != nil {
			return Record(r), nil
		}
	}
	return nil, errors.New(errors.ErrCodeInvalidInput, "expected a plain object, got %T", v)
}

// Clone returns a shallow copy. Nested values are shared.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	return maps.Clone(r)
}

// Has reports whether the key is present, even with a zero or null value.
func (r Record) Has(key string) bool {
	_, ok := r[key]
	return ok
}

// String returns the value under key if it is a string, or "".
func (r Record) String(key string) string {
	s, _ := r[key].(string)
	return s
}

// ID returns the record's "id" field, or "" when absent or not a string.
func (r Record) ID() string { return r.String(KeyID) }

// Strings returns the value under key as a string slice.
// Non-string elements are skipped; a missing or non-array value yields nil.
func (r Record) Strings(key string) []string {
	switch v := r[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// Number returns the numeric value under key.
// The second result reports whether the key is present. A present value that
// is not a number yields an INVALID_INPUT error; JSON null counts as absent.
func (r Record) Number(key string) (float64, bool, error) {
	v, ok := r[key]
	if !ok || v == nil {
		return 0, false, nil
	}
	switch n := v.(type) {
	case float64:
		return n, true, nil
	case float32:
		return float64(n), true, nil
	case int:
		return float64(n), true, nil
	case int32:
		return float64(n), true, nil
	case int64:
		return float64(n), true, nil
	case uint:
		return float64(n), true, nil
	case uint32:
		return float64(n), true, nil
	case uint64:
		return float64(n), true, nil
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, true, errors.Wrap(errors.ErrCodeInvalidInput, err, "field %q is not a number", key)
		}
		return f, true, nil
	default:
		return 0, true, errors.New(errors.ErrCodeInvalidInput, "field %q is not a number: %v", key, v)
	}
}

// Without returns a shallow copy with the given keys removed.
func (r Record) Without(keys ...string) Record {
	out := r.Clone()
	if out == nil {
		out = Record{}
	}
	for _, k := range keys {
		delete(out, k)
	}
	return out
}
