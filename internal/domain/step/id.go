package step

import (
	"errors"
	"regexp"
	"strings"
)

// ID identifies a step. Format: provider[:action[:resource]],
// e.g. "docker:swarm" or "workspace:dir:/opt/homestack".
// Provider and action are restricted tokens; the resource is any
// non-empty text, so paths and unit names are carried verbatim.
type ID struct {
	value string
}

// Errors for ID validation.
var (
	ErrEmptyID   = errors.New("step ID cannot be empty")
	ErrInvalidID = errors.New("step ID format invalid: provider and action must be alphanumeric with hyphens, underscores or dots")
)

var idPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_.-]*(?::[a-zA-Z0-9][a-zA-Z0-9_.-]*(?::(?s:.+))?)?$`)

// NewID creates a new ID from a string.
func NewID(value string) (ID, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ID{}, ErrEmptyID
	}
	if !idPattern.MatchString(trimmed) {
		return ID{}, ErrInvalidID
	}
	return ID{value: trimmed}, nil
}

// MustNewID creates a new ID, panicking on invalid input.
// Use this for identifiers built from validated configuration.
func MustNewID(value string) ID {
	id, err := NewID(value)
	if err != nil {
		panic("invalid step ID: " + value + ": " + err.Error())
	}
	return id
}

// String returns the string representation.
func (id ID) String() string {
	return id.value
}

// Provider extracts the provider name (first segment).
func (id ID) Provider() string {
	provider, _, _ := strings.Cut(id.value, ":")
	return provider
}

// IsZero returns true if this is a zero-value ID.
func (id ID) IsZero() bool {
	return id.value == ""
}
