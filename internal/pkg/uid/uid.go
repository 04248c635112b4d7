// Package uid generates identifiers: snowflake numbers for entities and UUID
// strings for correlation and token IDs.
package uid

// NumberID generates unique numeric identifiers.
type NumberID interface {
	Generate() int64
}

// StringID generates unique string identifiers.
type StringID interface {
	Generate() string
}
