package task

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// RawSolution is the provider's solution object, keyed by provider field names.
type RawSolution map[string]any

// MissingFieldError reports a required solution field that was absent, empty or not a string.
type MissingFieldError struct {
	Key string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("solution field %q missing", e.Key)
}

// Required returns the string field key, failing if it is absent, null, empty or not a string.
func (s RawSolution) Required(key string) (string, error) {
	v, ok := s[key]
	if !ok || v == nil {
		return "", &MissingFieldError{Key: key}
	}
	str, ok := v.(string)
	if !ok || str == "" {
		return "", &MissingFieldError{Key: key}
	}
	return str, nil
}

// Optional returns field key as text. Strings and JSON numbers are accepted.
func (s RawSolution) Optional(key string) (string, bool) {
	switch v := s[key].(type) {
	case string:
		return v, v != ""
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case json.Number:
		return v.String(), true
	}
	return "", false
}
