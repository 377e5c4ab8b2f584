// Package config exposes typed, read-only access to application settings.
package config

import (
	"io"
	"time"
)

// TimeConfig reads integer settings as durations of the named unit.
type TimeConfig interface {
	GetSecond(key string) time.Duration
	GetMinute(key string) time.Duration
	GetDay(key string) time.Duration
}

// Config defines a set of methods for retrieving configuration values of various types.
//
// Missing keys yield the zero value (or the registered default). Callers that
// require a value validate it where it is consumed.
type Config interface {
	io.Closer
	TimeConfig

	GetInt(key string) int
	GetInt64(key string) int64
	GetUint32(key string) uint32
	GetFloat64(key string) float64
	GetBool(key string) bool
	GetString(key string) string

	// GetArray splits a "a,b,c" value, trimming blanks and dropping empty items.
	GetArray(key string) []string
}
