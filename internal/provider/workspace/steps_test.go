package workspace_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/homestack/internal/domain/hostconfig"
	"github.com/felixgeelhaar/homestack/internal/domain/step"
	"github.com/felixgeelhaar/homestack/internal/ports"
	"github.com/felixgeelhaar/homestack/internal/provider/workspace"
	"github.com/felixgeelhaar/homestack/internal/testutil/mocks"
)

var pi = ports.Account{Name: "pi", UID: 1000, GID: 1000, HomeDir: "/home/pi"}

func TestDirStep_CreatesAndOwns(t *testing.T) {
	t.Parallel()

	fs := mocks.NewFileSystem()
	s := workspace.NewDirStep(workspace.Dir{Path: "/opt/homestack", AlwaysOwn: true}, pi, fs)
	rc := step.NewRunContext(context.Background())

	assert.Equal(t, "workspace:dir:/opt/homestack", s.ID().String())
	assert.Equal(t, step.Mandatory, s.Policy())

	status, err := s.Check(rc)
	require.NoError(t, err)
	assert.Equal(t, step.StatusNeedsApply, status)

	diff, err := s.Plan(rc)
	require.NoError(t, err)
	assert.Equal(t, step.DiffTypeAdd, diff.Type())

	require.NoError(t, s.Apply(rc))
	assert.True(t, fs.IsDir("/opt/homestack"))
	uid, gid, err := fs.Owner("/opt/homestack")
	require.NoError(t, err)
	assert.Equal(t, 1000, uid)
	assert.Equal(t, 1000, gid)

	status, err = s.Check(rc)
	require.NoError(t, err)
	assert.Equal(t, step.StatusSatisfied, status)
}

func TestDirStep_ReassertsOwnership(t *testing.T) {
	t.Parallel()

	fs := mocks.NewFileSystem()
	fs.AddDir("/home/pi")
	s := workspace.NewDirStep(workspace.Dir{Path: "/home/pi", AlwaysOwn: true}, pi, fs)
	rc := step.NewRunContext(context.Background())

	status, err := s.Check(rc)
	require.NoError(t, err)
	assert.Equal(t, step.StatusNeedsApply, status, "root-owned home must be handed back")

	diff, err := s.Plan(rc)
	require.NoError(t, err)
	assert.Equal(t, step.DiffTypeModify, diff.Type())
	assert.Equal(t, "owned by 0:0", diff.OldValue())

	require.NoError(t, s.Apply(rc))
	uid, _, _ := fs.Owner("/home/pi")
	assert.Equal(t, 1000, uid)
}

func TestDirStep_LeavesExistingParentAlone(t *testing.T) {
	t.Parallel()

	fs := mocks.NewFileSystem()
	fs.AddDir("/srv")
	s := workspace.NewDirStep(workspace.Dir{Path: "/srv"}, pi, fs)
	rc := step.NewRunContext(context.Background())

	status, err := s.Check(rc)
	require.NoError(t, err)
	assert.Equal(t, step.StatusSatisfied, status)

	require.NoError(t, s.Apply(rc))
	uid, _, _ := fs.Owner("/srv")
	assert.Equal(t, 0, uid)
}

func TestDirStep_FileInTheWay(t *testing.T) {
	t.Parallel()

	fs := mocks.NewFileSystem()
	fs.AddFile("/opt/homestack", "oops")
	s := workspace.NewDirStep(workspace.Dir{Path: "/opt/homestack", AlwaysOwn: true}, pi, fs)

	_, err := s.Check(step.NewRunContext(context.Background()))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")
}

func TestDirs_FoldsDuplicates(t *testing.T) {
	t.Parallel()

	b := hostconfig.Bundle{
		HomeDir:          "/home/pi",
		DataRoot:         "/opt/homestack",
		RepoLocalPath:    "/home/pi/homestack-stack",
		BridgeProjectDir: "/opt/homestack/ble2mqtt",
	}

	dirs := workspace.Dirs(b)

	assert.Equal(t, []workspace.Dir{
		{Path: "/home/pi", AlwaysOwn: true},
		{Path: "/opt/homestack", AlwaysOwn: true},
	}, dirs)
}

func TestSteps(t *testing.T) {
	t.Parallel()

	b := hostconfig.Bundle{
		HomeDir:          "/home/pi",
		DataRoot:         "/opt/homestack",
		RepoLocalPath:    "/srv/stacks/homestack",
		BridgeProjectDir: "/home/pi/apps/ble2mqtt",
	}

	steps := workspace.Steps(b, pi, mocks.NewFileSystem())

	ids := make([]string, 0, len(steps))
	for _, s := range steps {
		ids = append(ids, s.ID().String())
	}
	assert.Equal(t, []string{
		"workspace:dir:/home/pi",
		"workspace:dir:/opt/homestack",
		"workspace:dir:/srv/stacks",
		"workspace:dir:/home/pi/apps",
	}, ids)
}
