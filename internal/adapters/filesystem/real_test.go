//go:build unix

package filesystem

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRealFileSystem_WriteReadReplace(t *testing.T) {
	t.Parallel()

	fs := NewRealFileSystem()
	path := filepath.Join(t.TempDir(), "mosquitto.conf")

	require.NoError(t, fs.WriteFile(path, []byte("listener 1883\n"), 0o644))
	require.NoError(t, fs.WriteFile(path, []byte("listener 1884\n"), 0o600))

	data, err := fs.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "listener 1884\n", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must not be left behind")
}

func TestRealFileSystem_WriteFile_MissingDir(t *testing.T) {
	t.Parallel()

	fs := NewRealFileSystem()
	err := fs.WriteFile(filepath.Join(t.TempDir(), "missing", "unit"), []byte("x"), 0o644)
	require.Error(t, err)
}

func TestRealFileSystem_Dirs(t *testing.T) {
	t.Parallel()

	fs := NewRealFileSystem()
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")

	assert.False(t, fs.Exists(nested))
	require.NoError(t, fs.MkdirAll(nested, 0o755))
	assert.True(t, fs.Exists(nested))
	assert.True(t, fs.IsDir(nested))

	file := filepath.Join(root, "f")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	assert.False(t, fs.IsDir(file))
	assert.False(t, fs.IsDir(filepath.Join(root, "nope")))
}

func TestRealFileSystem_OwnerAndChown(t *testing.T) {
	t.Parallel()

	fs := NewRealFileSystem()
	dir := t.TempDir()

	uid, gid, err := fs.Owner(dir)
	require.NoError(t, err)
	assert.Equal(t, os.Getuid(), uid)
	assert.Equal(t, os.Getgid(), gid)

	// Chowning to the current owner is always permitted.
	require.NoError(t, fs.Chown(dir, uid, gid))

	_, _, err = fs.Owner(filepath.Join(dir, "missing"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestRealFileSystem_OwnershipFollowsSymlinks(t *testing.T) {
	t.Parallel()

	fs := NewRealFileSystem()
	root := t.TempDir()
	target := filepath.Join(root, "data")
	link := filepath.Join(root, "homestack")
	require.NoError(t, os.Mkdir(target, 0o755))
	require.NoError(t, os.Symlink(target, link))
	require.True(t, fs.IsDir(link))

	uid, gid, err := fs.Owner(link)
	require.NoError(t, err)
	assert.Equal(t, os.Getuid(), uid)
	assert.Equal(t, os.Getgid(), gid)

	require.NoError(t, fs.Chown(link, uid, gid))

	dangling := filepath.Join(root, "dangling")
	require.NoError(t, os.Symlink(filepath.Join(root, "gone"), dangling))
	_, _, err = fs.Owner(dangling)
	require.ErrorIs(t, err, os.ErrNotExist)
	require.Error(t, fs.Chown(dangling, uid, gid))
}
