package content

import (
	"encoding/json"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// Dimensions maps a dimension name to its ordered values, e.g. {"language": ["de", "en"]}.
type Dimensions map[string][]string

// ParseDimensions decodes a JSON dimension combination. An empty string yields nil.
func ParseDimensions(raw string) (Dimensions, error) {
	if raw == "" {
		return nil, nil
	}
	var d Dimensions
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		return nil, err //nolint:wrapcheck // callers add context
	}
	return d, nil
}

// First returns the first value of the named dimension, or "".
func (d Dimensions) First(name string) string {
	values := d[name]
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// Clone returns a deep copy.
func (d Dimensions) Clone() Dimensions {
	if d == nil {
		return nil
	}
	c := make(Dimensions, len(d))
	for k, v := range d {
		c[k] = append([]string(nil), v...)
	}
	return c
}

// Digest returns a stable hex digest of the combination.
// Map keys are sorted by encoding/json, so equal combinations share a digest.
func (d Dimensions) Digest() string {
	if len(d) == 0 {
		return strconv.FormatUint(xxhash.Sum64String(""), 16)
	}
	data, err := json.Marshal(d)
	if err != nil {
		// map[string][]string always marshals
		panic(err)
	}
	return strconv.FormatUint(xxhash.Sum64(data), 16)
}

// ScopeKey identifies a node in a dimension combination: identifier + "-" + digest.
func ScopeKey(identifier string, d Dimensions) string {
	return identifier + "-" + d.Digest()
}
