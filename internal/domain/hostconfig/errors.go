package hostconfig

import (
	"fmt"
	"strings"
)

// ConfigurationError reports a parameter that could not be resolved or
// failed validation. It is fatal: no step runs.
type ConfigurationError struct {
	Key        Key
	Value      string
	Message    string
	Suggestion string
	Underlying error
}

// Error returns the formatted error message.
func (e *ConfigurationError) Error() string {
	var b strings.Builder
	b.WriteString("configuration")
	if e.Key != "" {
		fmt.Fprintf(&b, " %s", e.Key)
	}
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Underlying != nil {
		fmt.Fprintf(&b, ": %v", e.Underlying)
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *ConfigurationError) Unwrap() error {
	return e.Underlying
}

func invalid(key Key, value string, err error) *ConfigurationError {
	return &ConfigurationError{
		Key:        key,
		Value:      value,
		Message:    "invalid value",
		Suggestion: fmt.Sprintf("Set %s to a valid value or unset it to use the default.", key),
		Underlying: err,
	}
}
