package systemd_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/homestack/internal/domain/step"
	"github.com/felixgeelhaar/homestack/internal/ports"
	"github.com/felixgeelhaar/homestack/internal/provider/systemd"
	"github.com/felixgeelhaar/homestack/internal/testutil/mocks"
)

const unitPath = "/etc/systemd/system/ble2mqtt.service"

var unit = systemd.Unit{
	Name:        "ble2mqtt.service",
	Description: "ble2mqtt Bluetooth to MQTT bridge",
	User:        "pi",
	WorkingDir:  "/home/pi/ble2mqtt",
	Python:      "/home/pi/ble2mqtt/.venv/bin/python",
	Entrypoint:  "/home/pi/ble2mqtt/main.py",
}

func rc() step.RunContext {
	return step.NewRunContext(context.Background())
}

func TestRender(t *testing.T) {
	t.Parallel()

	content, err := systemd.Render(unit)
	require.NoError(t, err)
	text := string(content)

	for _, section := range []string{"[Unit]", "[Service]", "[Install]"} {
		assert.Contains(t, text, section)
	}
	assert.Less(t, strings.Index(text, "[Unit]"), strings.Index(text, "[Service]"))
	assert.Less(t, strings.Index(text, "[Service]"), strings.Index(text, "[Install]"))
	assert.Contains(t, text, "= /home/pi/ble2mqtt/.venv/bin/python /home/pi/ble2mqtt/main.py\n")
	assert.Contains(t, text, "= PYTHONUNBUFFERED=1\n")
	assert.Contains(t, text, "= multi-user.target\n")
	assert.NotContains(t, text, "DEFAULT")

	assert.Empty(t, systemd.ChangedKeys(unit, content), "rendered content parses back to the same keys")
}

func TestChangedKeys(t *testing.T) {
	t.Parallel()

	old := unit
	old.User = "root"
	old.Python = "/usr/bin/python3"
	content, err := systemd.Render(old)
	require.NoError(t, err)

	assert.Equal(t, []string{"Service.ExecStart", "Service.User"}, systemd.ChangedKeys(unit, content))
}

func TestUnitStep(t *testing.T) {
	t.Parallel()

	fs := mocks.NewFileSystem()
	runner := mocks.NewCommandRunner()
	runner.AddResult("systemctl", []string{"daemon-reload"}, ports.CommandResult{})
	s := systemd.NewUnitStep(unit, unitPath, runner, fs)

	assert.Equal(t, "systemd:unit:ble2mqtt.service", s.ID().String())

	status, err := s.Check(rc())
	require.NoError(t, err)
	assert.Equal(t, step.StatusNeedsApply, status)

	require.NoError(t, s.Apply(rc()))
	assert.True(t, runner.Called("systemctl", "daemon-reload"))
	assert.Equal(t, 1, fs.WriteCount(unitPath))

	status, err = s.Check(rc())
	require.NoError(t, err)
	assert.Equal(t, step.StatusSatisfied, status)
}

func TestUnitStep_RewritesDrift(t *testing.T) {
	t.Parallel()

	fs := mocks.NewFileSystem()
	fs.AddFile(unitPath, "[Service]\nExecStart=/bin/false\n")
	runner := mocks.NewCommandRunner()
	runner.AddResult("systemctl", []string{"daemon-reload"}, ports.CommandResult{})
	s := systemd.NewUnitStep(unit, unitPath, runner, fs)

	status, err := s.Check(rc())
	require.NoError(t, err)
	assert.Equal(t, step.StatusNeedsApply, status)

	diff, err := s.Plan(rc())
	require.NoError(t, err)
	assert.Equal(t, step.DiffTypeModify, diff.Type())
	assert.Contains(t, diff.OldValue(), "Service.ExecStart")

	require.NoError(t, s.Apply(rc()))
	want, _ := systemd.Render(unit)
	assert.Equal(t, string(want), fs.Content(unitPath))
}

func TestEnableStep(t *testing.T) {
	t.Parallel()

	runner := mocks.NewCommandRunner()
	runner.AddResult("systemctl", []string{"is-enabled", "ble2mqtt.service"}, ports.CommandResult{ExitCode: 1, Stdout: "disabled\n"})
	runner.AddResult("systemctl", []string{"enable", "ble2mqtt.service"}, ports.CommandResult{})
	s := systemd.NewEnableStep("ble2mqtt.service", runner)

	status, err := s.Check(rc())
	require.NoError(t, err)
	assert.Equal(t, step.StatusNeedsApply, status)

	diff, err := s.Plan(rc())
	require.NoError(t, err)
	assert.Equal(t, "~ service ble2mqtt.service: disabled → enabled", diff.Summary())

	require.NoError(t, s.Apply(rc()))

	runner.AddResult("systemctl", []string{"is-enabled", "ble2mqtt.service"}, ports.CommandResult{Stdout: "enabled\n"})
	status, err = s.Check(rc())
	require.NoError(t, err)
	assert.Equal(t, step.StatusSatisfied, status)
}

func TestStartStep(t *testing.T) {
	t.Parallel()

	requires := []string{unit.Python, unit.Entrypoint}

	t.Run("skips without entry point", func(t *testing.T) {
		t.Parallel()

		fs := mocks.NewFileSystem()
		fs.AddFile(unit.Python, "")
		runner := mocks.NewCommandRunner()
		s := systemd.NewStartStep("ble2mqtt.service", requires, runner, fs)

		_, err := s.Check(rc())
		skip, ok := step.IsSkip(err)
		require.True(t, ok)
		assert.Equal(t, "/home/pi/ble2mqtt/main.py does not exist", skip.Reason)
		assert.Empty(t, runner.Calls())
		assert.Equal(t, step.Tolerable, s.Policy())
	})

	t.Run("restarts when ready", func(t *testing.T) {
		t.Parallel()

		fs := mocks.NewFileSystem()
		fs.AddFile(unit.Python, "")
		fs.AddFile(unit.Entrypoint, "print('hi')\n")
		runner := mocks.NewCommandRunner()
		runner.AddResult("systemctl", []string{"restart", "ble2mqtt.service"}, ports.CommandResult{})
		s := systemd.NewStartStep("ble2mqtt.service", requires, runner, fs)

		status, err := s.Check(rc())
		require.NoError(t, err)
		assert.Equal(t, step.StatusNeedsApply, status)
		require.NoError(t, s.Apply(rc()))
		assert.True(t, runner.Called("systemctl", "restart", "ble2mqtt.service"))
	})
}
