// Package valueobject holds small value types persisted as database columns.
package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrScanUnsupported indicates the database value cannot be decoded into a JSONMap.
var ErrScanUnsupported = errors.New("valueobject: unsupported jsonmap scan value")

const (
	KeyUserAgent = "user_agent"
	KeyClientIP  = "client_ip"
)

// JSONMap is a JSON object stored in a jsonb column.
type JSONMap map[string]any

// ClientMetadata describes the client that created a session.
func ClientMetadata(userAgent, clientIP string) JSONMap {
	m := JSONMap{}
	m.SetString(KeyUserAgent, userAgent)
	m.SetString(KeyClientIP, clientIP)
	return m
}

// Value implements driver.Valuer. A nil map is stored as an empty object.
func (j JSONMap) Value() (driver.Value, error) {
	if j == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(j)
}

// Scan implements sql.Scanner.
func (j *JSONMap) Scan(value any) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*j = JSONMap{}
		return nil
	case map[string]any:
		*j = JSONMap(v)
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("%w: %T", ErrScanUnsupported, value)
	}

	out := JSONMap{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return err
	}
	*j = out
	return nil
}

// SetString stores value under key, skipping empty values.
func (j JSONMap) SetString(key, value string) {
	if value != "" {
		j[key] = value
	}
}

// GetString returns the string stored under key, or "".
func (j JSONMap) GetString(key string) string {
	s, _ := j[key].(string)
	return s
}
