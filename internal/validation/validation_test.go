package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateNoShellMeta(t *testing.T) {
	t.Parallel()

	for _, ok := range []string{"pi", "/opt/homestack", "https://github.com/a/b.git", "main"} {
		assert.NoError(t, ValidateNoShellMeta(ok), ok)
	}
	for _, bad := range []string{"a;b", "$(id)", "`id`", "a|b", "x\ny", "a&&b", "it's", "a\x00b"} {
		require.ErrorIs(t, ValidateNoShellMeta(bad), ErrCommandInjection, bad)
	}
}

func TestValidatePackageName(t *testing.T) {
	t.Parallel()

	for _, ok := range []string{"git", "python3-venv", "libstdc++6", "ca-certificates"} {
		assert.NoError(t, ValidatePackageName(ok), ok)
	}
	require.ErrorIs(t, ValidatePackageName(""), ErrEmptyInput)
	require.ErrorIs(t, ValidatePackageName("Git"), ErrInvalidPackageName)
	require.ErrorIs(t, ValidatePackageName("git;rm"), ErrInvalidPackageName)
	require.ErrorIs(t, ValidatePackageName("-y"), ErrInvalidPackageName)
}

func TestValidateUserName(t *testing.T) {
	t.Parallel()

	for _, ok := range []string{"pi", "home_assistant", "_svc", "user-1"} {
		assert.NoError(t, ValidateUserName(ok), ok)
	}
	require.ErrorIs(t, ValidateUserName(""), ErrEmptyInput)
	require.ErrorIs(t, ValidateUserName("Pi"), ErrInvalidUserName)
	require.ErrorIs(t, ValidateUserName("1pi"), ErrInvalidUserName)
	require.ErrorIs(t, ValidateUserName("pi;id"), ErrInvalidUserName)
}

func TestValidateAbsPath(t *testing.T) {
	t.Parallel()

	require.NoError(t, ValidateAbsPath("/home/pi/homestack"))
	require.ErrorIs(t, ValidateAbsPath(""), ErrEmptyInput)
	require.ErrorIs(t, ValidateAbsPath("relative/dir"), ErrInvalidPath)
	require.ErrorIs(t, ValidateAbsPath("/opt/../etc"), ErrPathTraversal)
	require.ErrorIs(t, ValidateAbsPath("/opt/$HOME"), ErrCommandInjection)
}

func TestValidateRelPath(t *testing.T) {
	t.Parallel()

	require.NoError(t, ValidateRelPath("docker-compose.yml"))
	require.NoError(t, ValidateRelPath("deploy/stack.yml"))
	require.ErrorIs(t, ValidateRelPath("/etc/passwd"), ErrInvalidPath)
	require.ErrorIs(t, ValidateRelPath("../secrets"), ErrPathTraversal)
}

func TestValidateName(t *testing.T) {
	t.Parallel()

	require.NoError(t, ValidateName("homestack"))
	require.NoError(t, ValidateName("ble2mqtt"))
	require.ErrorIs(t, ValidateName("bad name"), ErrInvalidName)
	require.ErrorIs(t, ValidateName(""), ErrEmptyInput)
}

func TestValidateGitBranch(t *testing.T) {
	t.Parallel()

	for _, ok := range []string{"main", "release/1.2", "feature_x"} {
		assert.NoError(t, ValidateGitBranch(ok), ok)
	}
	for _, bad := range []string{"", "a..b", "-rf", "x.lock", "a b", "a;b"} {
		assert.Error(t, ValidateGitBranch(bad), bad)
	}
}

func TestValidateGitRemoteURL(t *testing.T) {
	t.Parallel()

	for _, ok := range []string{
		"https://github.com/homestack/homestack-stack.git",
		"git@github.com:me/ble2mqtt.git",
		"ssh://git@git.lan:2222/me/repo.git",
		"file:///srv/git/stack",
		"/srv/git/stack",
	} {
		assert.NoError(t, ValidateGitRemoteURL(ok), ok)
	}
	for _, bad := range []string{"", "ftp://x/y", "https://x/y;id", "github.com/a/b"} {
		assert.Error(t, ValidateGitRemoteURL(bad), bad)
	}
}
