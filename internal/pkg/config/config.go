package config

import (
	"io"
	"time"
)

// TimeConfig defines helpers for retrieving time-based configuration values.
type TimeConfig interface {
	// GetSecond retrieves the value associated with key as a number of seconds.
	GetSecond(key string) time.Duration

	// GetMinute retrieves the value associated with key as a number of minutes.
	GetMinute(key string) time.Duration
}

// Config defines a set of methods for retrieving configuration values of various types.
//
// Missing keys and values that cannot be converted yield the zero value.
type Config interface {
	io.Closer
	TimeConfig

	// GetInt retrieves the value associated with key as an int.
	GetInt(key string) int

	// GetInt32 retrieves the value associated with key as an int32.
	GetInt32(key string) int32

	// GetFloat64 retrieves the value associated with key as a float64.
	GetFloat64(key string) float64

	// GetUint retrieves the value associated with key as a uint.
	GetUint(key string) uint

	// GetBool retrieves the value associated with key as a bool.
	GetBool(key string) bool

	// GetString retrieves the value associated with key as a string.
	GetString(key string) string

	// GetBinary retrieves the value associated with key as a byte slice.
	// The configured value is stored base64 encoded.
	GetBinary(key string) []byte

	// GetArray retrieves the value associated with key as a slice of strings.
	// The configured value is either a list or a string with format <element1>,<element2>,...
	// Elements are trimmed and empty ones dropped.
	GetArray(key string) []string
}
