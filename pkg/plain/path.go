package plain

import (
	"strings"

	"github.com/matzehuels/graphviewer/pkg/errors"
)

// PathSeparator separates segments of a property path.
const PathSeparator = "."

// SetPath assigns value at the dotted path inside r, creating intermediate
// records as needed. An intermediate value that is not an object is replaced
// by a fresh record.
func SetPath(r Record, path string, value any) error {
	if r == nil {
		return errors.New(errors.ErrCodeInvalidInput, "cannot set %q on a nil record", path)
	}
	if err := errors.ValidatePropertyPath(path); err != nil {
		return err
	}

	segs := strings.Split(path, PathSeparator)
	cur := map[string]any(r)
	for _, seg := range segs[:len(segs)-1] {
		switch next := cur[seg].(type) {
		case Record:
			cur = next
		case map[string]any:
			cur = next
		default:
			child := Record{}
			cur[seg] = child
			cur = child
		}
	}
	cur[segs[len(segs)-1]] = value
	return nil
}

// GetPath returns the value at the dotted path, or false if any segment is
// missing or an intermediate value is not an object.
func GetPath(r Record, path string) (any, bool) {
	cur := map[string]any(r)
	segs := strings.Split(path, PathSeparator)
	for i, seg := range segs {
		v, ok := cur[seg]
		if !ok {
			return nil, false
		}
		if i == len(segs)-1 {
			return v, true
		}
		switch next := v.(type) {
		case Record:
			cur = next
		case map[string]any:
			cur = next
		default:
			return nil, false
		}
	}
	return nil, false
}
