package valueobject

import "time"

// JSONMap stores arbitrary JSON object data, such as token claims.
// @swaggertype object
type JSONMap map[string]any

// Clone returns a shallow copy of j. A nil map clones to an empty one.
func (j JSONMap) Clone() JSONMap {
	out := make(JSONMap, len(j))
	for k, v := range j {
		out[k] = v
	}
	return out
}

// Without returns a copy of j with the given keys removed.
func (j JSONMap) Without(keys ...string) JSONMap {
	out := j.Clone()
	for _, k := range keys {
		delete(out, k)
	}
	return out
}

// ---------------------------------------------------------------------
// SETTERS
// ---------------------------------------------------------------------

// Set adds or updates a key-value pair.
func (j JSONMap) Set(key string, value any) {
	j[key] = value
}

// ---------------------------------------------------------------------
// GETTERS (Type-Safe Helpers)
// ---------------------------------------------------------------------

// Has checks if a key exists.
func (j JSONMap) Has(key string) bool {
	_, ok := j[key]
	return ok
}

// GetString safely returns a string value. Returns "" if missing or wrong type.
func (j JSONMap) GetString(key string) string {
	if v, ok := j[key].(string); ok {
		return v
	}
	return ""
}

// GetTime parses an RFC 3339 string value.
// The second return is false when the key is missing or unparsable.
func (j JSONMap) GetTime(key string) (time.Time, bool) {
	s, ok := j[key].(string)
	if !ok {
		return time.Time{}, false
	}

	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, false
	}

	return t, true
}
