// Package validation rejects configuration values that would be unsafe to
// place on a command line or into a generated file.
package validation

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// Validation errors.
var (
	ErrEmptyInput         = errors.New("input cannot be empty")
	ErrCommandInjection   = errors.New("potential command injection detected")
	ErrInvalidPackageName = errors.New("invalid package name")
	ErrInvalidUserName    = errors.New("invalid user name")
	ErrInvalidPath        = errors.New("invalid path")
	ErrPathTraversal      = errors.New("path traversal detected")
	ErrInvalidName        = errors.New("invalid name")
)

var (
	// packageNameRegex follows Debian policy: lowercase, digits, + - .
	packageNameRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9.+-]+$`)

	// userNameRegex is the default NAME_REGEX of adduser.
	userNameRegex = regexp.MustCompile(`^[a-z_][a-z0-9_-]*\$?$`)

	// nameRegex covers stack names and systemd unit base names.
	nameRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_.@-]*$`)

	shellMetaChars = []string{";", "|", "&", "$", "`", "(", ")", "{", "}", "<", ">", "\n", "\r", "\\", "'", "\"", "*", "?", "!"}
)

// ContainsShellMeta reports whether s contains a shell metacharacter.
func ContainsShellMeta(s string) bool {
	for _, char := range shellMetaChars {
		if strings.Contains(s, char) {
			return true
		}
	}
	return false
}

// ValidateNoShellMeta rejects values carrying shell metacharacters.
func ValidateNoShellMeta(value string) error {
	if strings.ContainsRune(value, '\x00') {
		return fmt.Errorf("%w: value contains null byte", ErrCommandInjection)
	}
	if ContainsShellMeta(value) {
		return fmt.Errorf("%w: %q contains shell metacharacters", ErrCommandInjection, value)
	}
	return nil
}

// ValidatePackageName validates a Debian package name.
func ValidatePackageName(name string) error {
	if name == "" {
		return ErrEmptyInput
	}
	if len(name) > 256 {
		return fmt.Errorf("%w: name too long", ErrInvalidPackageName)
	}
	if !packageNameRegex.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidPackageName, name)
	}
	return nil
}

// ValidateUserName validates a local account name.
func ValidateUserName(name string) error {
	if name == "" {
		return ErrEmptyInput
	}
	if len(name) > 32 {
		return fmt.Errorf("%w: %q longer than 32 characters", ErrInvalidUserName, name)
	}
	if !userNameRegex.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidUserName, name)
	}
	return nil
}

// ValidateAbsPath validates an absolute, traversal-free path.
func ValidateAbsPath(path string) error {
	if path == "" {
		return ErrEmptyInput
	}
	if strings.ContainsRune(path, '\x00') {
		return fmt.Errorf("%w: path contains null byte", ErrInvalidPath)
	}
	if !filepath.IsAbs(path) {
		return fmt.Errorf("%w: %q is not absolute", ErrInvalidPath, path)
	}
	for _, seg := range strings.Split(path, "/") {
		if seg == ".." {
			return fmt.Errorf("%w: %q", ErrPathTraversal, path)
		}
	}
	return ValidateNoShellMeta(path)
}

// ValidateRelPath validates a path that will be joined under a base directory.
func ValidateRelPath(path string) error {
	if path == "" {
		return ErrEmptyInput
	}
	if filepath.IsAbs(path) {
		return fmt.Errorf("%w: %q must be relative", ErrInvalidPath, path)
	}
	for _, seg := range strings.Split(filepath.ToSlash(path), "/") {
		if seg == ".." {
			return fmt.Errorf("%w: %q", ErrPathTraversal, path)
		}
	}
	return ValidateNoShellMeta(path)
}

// ValidateName validates a stack or service name.
func ValidateName(name string) error {
	if name == "" {
		return ErrEmptyInput
	}
	if len(name) > 63 {
		return fmt.Errorf("%w: %q longer than 63 characters", ErrInvalidName, name)
	}
	if !nameRegex.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}
