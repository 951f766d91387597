package config

import (
	"io"
	"time"
)

// Config defines a set of methods for retrieving configuration values of various types.
//
// Missing keys resolve to the registered default, or to the zero value when no
// default exists. Implementations never panic on a missing key.
type Config interface {
	io.Closer

	// GetBool retrieves the value associated with key as a bool.
	GetBool(key string) bool

	// GetString retrieves the value associated with key as a string.
	GetString(key string) string

	// GetInt retrieves the value associated with key as an int.
	GetInt(key string) int

	// GetUint retrieves the value associated with key as a uint.
	GetUint(key string) uint

	// GetFloat64 retrieves the value associated with key as a float64.
	GetFloat64(key string) float64

	// GetSecond retrieves the value associated with key interpreted as seconds.
	GetSecond(key string) time.Duration

	// GetArray retrieves the value associated with key as a slice of strings.
	// The value is stored with format <element1>,<element2>,...
	GetArray(key string) []string

	// IsSet reports whether key has a value from any source, defaults included.
	IsSet(key string) bool
}
