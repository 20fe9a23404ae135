package systemd

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/felixgeelhaar/homestack/internal/domain/step"
	"github.com/felixgeelhaar/homestack/internal/ports"
)

// UnitStep writes the unit file and reloads the service manager.
type UnitStep struct {
	id     step.ID
	unit   Unit
	path   string
	runner ports.CommandRunner
	fs     ports.FileSystem
}

// NewUnitStep creates a new UnitStep writing unit to path.
func NewUnitStep(unit Unit, path string, runner ports.CommandRunner, fs ports.FileSystem) *UnitStep {
	return &UnitStep{
		id:     step.MustNewID("systemd:unit:" + unit.Name),
		unit:   unit,
		path:   path,
		runner: runner,
		fs:     fs,
	}
}

// ID returns the step identifier.
func (s *UnitStep) ID() step.ID {
	return s.id
}

// Policy returns Mandatory.
func (s *UnitStep) Policy() step.Policy {
	return step.Mandatory
}

// Check compares the installed unit byte for byte with the rendered one.
func (s *UnitStep) Check(_ step.RunContext) (step.Status, error) {
	want, err := Render(s.unit)
	if err != nil {
		return step.StatusUnknown, err
	}
	have, err := s.fs.ReadFile(s.path)
	if err != nil {
		return step.StatusNeedsApply, nil //nolint:nilerr // missing unit means we need to apply
	}
	if bytes.Equal(have, want) {
		return step.StatusSatisfied, nil
	}
	return step.StatusNeedsApply, nil
}

// Plan returns the diff for this step.
func (s *UnitStep) Plan(_ step.RunContext) (step.Diff, error) {
	have, err := s.fs.ReadFile(s.path)
	if err != nil {
		return step.NewDiff(step.DiffTypeAdd, "unit", s.path, "", s.unit.Name), nil
	}
	changed := ChangedKeys(s.unit, have)
	if len(changed) == 0 {
		return step.NewDiff(step.DiffTypeModify, "unit", s.path, "formatting", "canonical"), nil
	}
	return step.NewDiff(step.DiffTypeModify, "unit", s.path, strings.Join(changed, ","), "updated"), nil
}

// Apply writes the unit and runs daemon-reload.
func (s *UnitStep) Apply(ctx step.RunContext) error {
	content, err := Render(s.unit)
	if err != nil {
		return err
	}
	if err := s.fs.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(s.path), err)
	}
	if err := s.fs.WriteFile(s.path, content, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	if _, err := ports.RunChecked(ctx.Context(), s.runner, "systemctl", "daemon-reload"); err != nil {
		return fmt.Errorf("reload units: %w", err)
	}
	ctx.Logger().Info(ctx.Context(), "unit installed", ports.F("path", s.path))
	return nil
}

// Explain provides a human-readable explanation.
func (s *UnitStep) Explain(_ step.ExplainContext) step.Explanation {
	return step.NewExplanation(
		"Install "+s.unit.Name,
		fmt.Sprintf("Writes %s running %s as %s and reloads systemd.", s.path, s.unit.Entrypoint, s.unit.User),
		[]string{"https://www.freedesktop.org/software/systemd/man/systemd.service.html"},
	)
}

// EnableStep enables the unit at boot.
type EnableStep struct {
	id     step.ID
	name   string
	runner ports.CommandRunner
}

// NewEnableStep creates a new EnableStep.
func NewEnableStep(name string, runner ports.CommandRunner) *EnableStep {
	return &EnableStep{
		id:     step.MustNewID("systemd:enable:" + name),
		name:   name,
		runner: runner,
	}
}

// ID returns the step identifier.
func (s *EnableStep) ID() step.ID {
	return s.id
}

// Policy returns Mandatory.
func (s *EnableStep) Policy() step.Policy {
	return step.Mandatory
}

// Check asks systemctl whether the unit is enabled. A non-zero exit
// means "not enabled", not a failure.
func (s *EnableStep) Check(ctx step.RunContext) (step.Status, error) {
	state, err := s.state(ctx)
	if err != nil {
		return step.StatusUnknown, err
	}
	if state == "enabled" {
		return step.StatusSatisfied, nil
	}
	return step.StatusNeedsApply, nil
}

// Plan returns the diff for this step.
func (s *EnableStep) Plan(ctx step.RunContext) (step.Diff, error) {
	state, err := s.state(ctx)
	if err != nil {
		return step.Diff{}, err
	}
	if state == "" {
		state = "unknown"
	}
	return step.NewDiff(step.DiffTypeModify, "service", s.name, state, "enabled"), nil
}

// Apply enables the unit.
func (s *EnableStep) Apply(ctx step.RunContext) error {
	if _, err := ports.RunChecked(ctx.Context(), s.runner, "systemctl", "enable", s.name); err != nil {
		return fmt.Errorf("enable %s: %w", s.name, err)
	}
	return nil
}

// Explain provides a human-readable explanation.
func (s *EnableStep) Explain(_ step.ExplainContext) step.Explanation {
	return step.NewExplanation(
		"Enable "+s.name,
		fmt.Sprintf("Enables %s so it starts at boot.", s.name),
		nil,
	)
}

func (s *EnableStep) state(ctx step.RunContext) (string, error) {
	result, err := s.runner.Run(ctx.Context(), "systemctl", "is-enabled", s.name)
	if err != nil {
		return "", fmt.Errorf("systemctl is-enabled %s: %w", s.name, err)
	}
	return strings.TrimSpace(result.Stdout), nil
}

// StartStep restarts the service so it runs the current code, provided
// everything it needs to run is in place.
type StartStep struct {
	id       step.ID
	name     string
	requires []string
	runner   ports.CommandRunner
	fs       ports.FileSystem
}

// NewStartStep creates a new StartStep. requires lists paths that must
// exist before starting makes sense.
func NewStartStep(name string, requires []string, runner ports.CommandRunner, fs ports.FileSystem) *StartStep {
	return &StartStep{
		id:       step.MustNewID("systemd:start:" + name),
		name:     name,
		requires: append([]string(nil), requires...),
		runner:   runner,
		fs:       fs,
	}
}

// ID returns the step identifier.
func (s *StartStep) ID() step.ID {
	return s.id
}

// Policy returns Tolerable.
func (s *StartStep) Policy() step.Policy {
	return step.Tolerable
}

// Check skips when a prerequisite is missing; otherwise a restart is due.
func (s *StartStep) Check(_ step.RunContext) (step.Status, error) {
	for _, p := range s.requires {
		if !s.fs.Exists(p) {
			return step.StatusUnknown, step.Skip(p + " does not exist")
		}
	}
	return step.StatusNeedsApply, nil
}

// Plan returns the diff for this step.
func (s *StartStep) Plan(_ step.RunContext) (step.Diff, error) {
	return step.NewDiff(step.DiffTypeModify, "service", s.name, "", "restarted"), nil
}

// Apply restarts the service.
func (s *StartStep) Apply(ctx step.RunContext) error {
	if _, err := ports.RunChecked(ctx.Context(), s.runner, "systemctl", "restart", s.name); err != nil {
		return fmt.Errorf("restart %s: %w", s.name, err)
	}
	return nil
}

// Explain provides a human-readable explanation.
func (s *StartStep) Explain(_ step.ExplainContext) step.Explanation {
	return step.NewExplanation(
		"Start "+s.name,
		fmt.Sprintf("Restarts %s once its interpreter and entry point are present.", s.name),
		nil,
	)
}
