package plain

import (
	"strings"

	"github.com/matzehuels/graphviewer/pkg/errors"
)

// Attribute paths behind the recognized bare property names.
const (
	PathColor = "attributes.color"
	PathText  = "attributes.text.content"
)

// rawProperties maps bare (lower-cased) property names to their paths.
var rawProperties = map[string]string{
	"color": PathColor,
	"text":  PathText,
}

// SetRawProperty sets a display property on a raw record and returns it.
//
// A nil record starts out empty. A name containing a dot is treated as a
// path and assigned with [SetPath]. A bare name must be one of the
// recognized properties ("color", "text", matched case-insensitively);
// anything else is an UNKNOWN_PROPERTY error. The given record is mutated in
// place.
func SetRawProperty(r Record, name string, value any) (Record, error) {
	if r == nil {
		r = Record{}
	}

	path := name
	if !strings.Contains(name, PathSeparator) {
		p, ok := rawProperties[strings.ToLower(name)]
		if !ok {
			return r, errors.New(errors.ErrCodeUnknownProperty, "raw property %q is not recognized", name)
		}
		path = p
	}

	if err := SetPath(r, path, value); err != nil {
		return r, err
	}
	return r, nil
}
