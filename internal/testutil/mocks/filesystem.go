package mocks

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/felixgeelhaar/homestack/internal/ports"
)

type owner struct {
	uid, gid int
}

// FileSystem is a thread-safe in-memory ports.FileSystem.
// MkdirAll and WriteFile create missing parents, like the real host would
// after MkdirAll; WriteFile into a missing directory fails.
type FileSystem struct {
	mu     sync.RWMutex
	files  map[string][]byte
	modes  map[string]os.FileMode
	dirs   map[string]bool
	owners map[string]owner
	writes map[string]int
}

// NewFileSystem creates a new FileSystem mock containing only "/".
func NewFileSystem() *FileSystem {
	return &FileSystem{
		files:  make(map[string][]byte),
		modes:  make(map[string]os.FileMode),
		dirs:   map[string]bool{"/": true},
		owners: make(map[string]owner),
		writes: make(map[string]int),
	}
}

// AddFile adds a file, creating its parent directories.
func (fs *FileSystem) AddFile(path, content string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.mkdirAllLocked(filepath.Dir(path))
	fs.files[path] = []byte(content)
}

// AddDir adds a directory and its parents.
func (fs *FileSystem) AddDir(path string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.mkdirAllLocked(path)
}

// SetOwner records the owner of an existing path.
func (fs *FileSystem) SetOwner(path string, uid, gid int) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.owners[path] = owner{uid: uid, gid: gid}
}

// Content returns a file's content, or "" when absent.
func (fs *FileSystem) Content(path string) string {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	return string(fs.files[path])
}

// Mode returns the permissions a file was written with.
func (fs *FileSystem) Mode(path string) os.FileMode {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	return fs.modes[path]
}

// WriteCount returns how many times WriteFile targeted path.
func (fs *FileSystem) WriteCount(path string) int {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	return fs.writes[path]
}

// ReadFile reads a file.
func (fs *FileSystem) ReadFile(path string) ([]byte, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	if content, ok := fs.files[path]; ok {
		out := make([]byte, len(content))
		copy(out, content)
		return out, nil
	}
	return nil, &os.PathError{Op: "open", Path: path, Err: os.ErrNotExist}
}

// WriteFile writes a file whose parent directory must exist.
func (fs *FileSystem) WriteFile(path string, data []byte, perm os.FileMode) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if !fs.dirs[filepath.Dir(path)] {
		return &os.PathError{Op: "open", Path: path, Err: os.ErrNotExist}
	}
	if fs.dirs[path] {
		return fmt.Errorf("write %s: is a directory", path)
	}
	stored := make([]byte, len(data))
	copy(stored, data)
	fs.files[path] = stored
	fs.modes[path] = perm
	fs.writes[path]++
	return nil
}

// Exists checks if a file or directory exists.
func (fs *FileSystem) Exists(path string) bool {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	_, isFile := fs.files[path]
	return isFile || fs.dirs[path]
}

// IsDir checks if path is a directory.
func (fs *FileSystem) IsDir(path string) bool {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	return fs.dirs[path]
}

// MkdirAll creates a directory and its parents.
func (fs *FileSystem) MkdirAll(path string, _ os.FileMode) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if _, isFile := fs.files[path]; isFile {
		return fmt.Errorf("mkdir %s: not a directory", path)
	}
	fs.mkdirAllLocked(path)
	return nil
}

// Chown records the owner of path.
func (fs *FileSystem) Chown(path string, uid, gid int) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if _, isFile := fs.files[path]; !isFile && !fs.dirs[path] {
		return &os.PathError{Op: "chown", Path: path, Err: os.ErrNotExist}
	}
	fs.owners[path] = owner{uid: uid, gid: gid}
	return nil
}

// Owner returns the recorded owner, root for paths never chowned.
func (fs *FileSystem) Owner(path string) (int, int, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	if _, isFile := fs.files[path]; !isFile && !fs.dirs[path] {
		return 0, 0, &os.PathError{Op: "lstat", Path: path, Err: os.ErrNotExist}
	}
	o := fs.owners[path]
	return o.uid, o.gid, nil
}

// Snapshot returns a copy of every file's content keyed by path.
func (fs *FileSystem) Snapshot() map[string]string {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	out := make(map[string]string, len(fs.files))
	for p, c := range fs.files {
		out[p] = string(c)
	}
	return out
}

func (fs *FileSystem) mkdirAllLocked(path string) {
	for p := filepath.Clean(path); ; p = filepath.Dir(p) {
		fs.dirs[p] = true
		if p == "/" || p == "." {
			return
		}
	}
}

var _ ports.FileSystem = (*FileSystem)(nil)
