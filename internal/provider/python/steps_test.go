package python_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/homestack/internal/domain/step"
	"github.com/felixgeelhaar/homestack/internal/ports"
	"github.com/felixgeelhaar/homestack/internal/provider/python"
	"github.com/felixgeelhaar/homestack/internal/testutil/mocks"
)

var env = python.Env{Path: "/home/pi/ble2mqtt/.venv", ProjectDir: "/home/pi/ble2mqtt"}

const interp = "/home/pi/ble2mqtt/.venv/bin/python"

func rc() step.RunContext {
	return step.NewRunContext(context.Background())
}

func TestVenvStep_CreatesEmptyEnvironment(t *testing.T) {
	t.Parallel()

	fs := mocks.NewFileSystem()
	runner := mocks.NewCommandRunner()
	runner.Handle("python3", func(args []string) (ports.CommandResult, error) {
		fs.AddFile(args[2]+"/bin/python", "")
		return ports.CommandResult{}, nil
	})
	runner.AddResult(interp, []string{"-m", "pip", "install", "--upgrade", "pip"}, ports.CommandResult{})

	s := python.NewVenvStep(env, runner, fs)
	assert.Equal(t, "python:venv", s.ID().String())
	assert.Equal(t, step.Mandatory, s.Policy())

	status, err := s.Check(rc())
	require.NoError(t, err)
	assert.Equal(t, step.StatusNeedsApply, status)

	require.NoError(t, s.Apply(rc()))
	assert.Equal(t, []string{
		"python3 -m venv /home/pi/ble2mqtt/.venv",
		interp + " -m pip install --upgrade pip",
	}, runner.CommandLines())

	status, err = s.Check(rc())
	require.NoError(t, err)
	assert.Equal(t, step.StatusSatisfied, status, "no dependency declaration, nothing to do")
}

func TestVenvStep_InstallsRequirements(t *testing.T) {
	t.Parallel()

	fs := mocks.NewFileSystem()
	fs.AddFile(interp, "")
	fs.AddFile("/home/pi/ble2mqtt/requirements.txt", "paho-mqtt\nbleak\n")
	runner := mocks.NewCommandRunner()
	runner.AddResult(interp, []string{"-m", "pip", "install", "--upgrade", "-r", "/home/pi/ble2mqtt/requirements.txt"}, ports.CommandResult{})

	s := python.NewVenvStep(env, runner, fs)

	status, err := s.Check(rc())
	require.NoError(t, err)
	assert.Equal(t, step.StatusNeedsApply, status)

	diff, err := s.Plan(rc())
	require.NoError(t, err)
	assert.Equal(t, "dependencies from requirements.txt", diff.NewValue())

	require.NoError(t, s.Apply(rc()))
	assert.Len(t, runner.Calls(), 1)
}

func TestVenvStep_InstallsProject(t *testing.T) {
	t.Parallel()

	fs := mocks.NewFileSystem()
	fs.AddFile(interp, "")
	fs.AddFile("/home/pi/ble2mqtt/pyproject.toml", "[project]\nname = \"ble2mqtt\"\n")
	runner := mocks.NewCommandRunner()
	runner.AddResult(interp, []string{"-m", "pip", "install", "--upgrade", "/home/pi/ble2mqtt"}, ports.CommandResult{})

	require.NoError(t, python.NewVenvStep(env, runner, fs).Apply(rc()))
	assert.True(t, runner.Called(interp, "-m", "pip", "install", "--upgrade", "/home/pi/ble2mqtt"))
}

func TestVenvStep_InstallFailure(t *testing.T) {
	t.Parallel()

	fs := mocks.NewFileSystem()
	fs.AddFile(interp, "")
	fs.AddFile("/home/pi/ble2mqtt/setup.py", "")
	runner := mocks.NewCommandRunner()
	runner.AddResult(interp, []string{"-m", "pip", "install", "--upgrade", "/home/pi/ble2mqtt"}, ports.CommandResult{
		ExitCode: 1,
		Stderr:   "ERROR: Could not build wheels",
	})

	err := python.NewVenvStep(env, runner, fs).Apply(rc())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "setup.py")
	assert.Contains(t, err.Error(), "Could not build wheels")
}
