package ports

import (
	"os"
)

// FileSystem provides the file operations the provisioning steps need.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte, perm os.FileMode) error
	Exists(path string) bool
	IsDir(path string) bool
	MkdirAll(path string, perm os.FileMode) error
	// Chown changes the numeric owner of path, following symlinks.
	Chown(path string, uid, gid int) error
	// Owner returns the numeric owner of path, following symlinks.
	Owner(path string) (uid, gid int, err error)
}
