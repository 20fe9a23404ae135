// Package python maintains the bridge application's virtual environment.
package python

import (
	"fmt"
	"path/filepath"

	"github.com/felixgeelhaar/homestack/internal/domain/step"
	"github.com/felixgeelhaar/homestack/internal/ports"
)

// Env is a virtual environment serving a project directory.
type Env struct {
	Path       string
	ProjectDir string
}

// Interpreter returns the environment's python executable.
func (e Env) Interpreter() string {
	return filepath.Join(e.Path, "bin", "python")
}

// declaration is a file describing the project's dependencies.
type declaration struct {
	file string
	// requirements files are installed with -r, projects by path.
	requirements bool
}

var declarations = []declaration{
	{file: "requirements.txt", requirements: true},
	{file: "pyproject.toml"},
	{file: "setup.py"},
}

// VenvStep creates the environment and installs the project's dependencies.
// Dependencies are reinstalled on every run that finds a declaration so
// upstream changes to the checkout are picked up.
type VenvStep struct {
	id     step.ID
	env    Env
	runner ports.CommandRunner
	fs     ports.FileSystem
}

// NewVenvStep creates a new VenvStep. runner should execute as the
// project owner.
func NewVenvStep(env Env, runner ports.CommandRunner, fs ports.FileSystem) *VenvStep {
	return &VenvStep{
		id:     step.MustNewID("python:venv"),
		env:    env,
		runner: runner,
		fs:     fs,
	}
}

// ID returns the step identifier.
func (s *VenvStep) ID() step.ID {
	return s.id
}

// Policy returns Mandatory.
func (s *VenvStep) Policy() step.Policy {
	return step.Mandatory
}

// Check reports Satisfied only when the interpreter exists and there is
// nothing to install.
func (s *VenvStep) Check(_ step.RunContext) (step.Status, error) {
	if !s.fs.Exists(s.env.Interpreter()) {
		return step.StatusNeedsApply, nil
	}
	if _, ok := s.declaration(); ok {
		return step.StatusNeedsApply, nil
	}
	return step.StatusSatisfied, nil
}

// Plan returns the diff for this step.
func (s *VenvStep) Plan(_ step.RunContext) (step.Diff, error) {
	target := "no dependencies"
	if d, ok := s.declaration(); ok {
		target = "dependencies from " + d.file
	}
	if !s.fs.Exists(s.env.Interpreter()) {
		return step.NewDiff(step.DiffTypeAdd, "virtualenv", s.env.Path, "", target), nil
	}
	return step.NewDiff(step.DiffTypeModify, "virtualenv", s.env.Path, "present", target), nil
}

// Apply creates the environment when missing and installs dependencies.
func (s *VenvStep) Apply(ctx step.RunContext) error {
	python := s.env.Interpreter()

	if !s.fs.Exists(python) {
		if _, err := ports.RunChecked(ctx.Context(), s.runner, "python3", "-m", "venv", s.env.Path); err != nil {
			return fmt.Errorf("create virtualenv %s: %w", s.env.Path, err)
		}
		if _, err := ports.RunChecked(ctx.Context(), s.runner, python, "-m", "pip", "install", "--upgrade", "pip"); err != nil {
			return fmt.Errorf("upgrade pip: %w", err)
		}
		ctx.Logger().Info(ctx.Context(), "virtualenv created", ports.F("path", s.env.Path))
	}

	d, ok := s.declaration()
	if !ok {
		return nil
	}
	args := []string{"-m", "pip", "install", "--upgrade"}
	if d.requirements {
		args = append(args, "-r", filepath.Join(s.env.ProjectDir, d.file))
	} else {
		args = append(args, s.env.ProjectDir)
	}
	if _, err := ports.RunChecked(ctx.Context(), s.runner, python, args...); err != nil {
		return fmt.Errorf("install dependencies from %s: %w", d.file, err)
	}
	return nil
}

// Explain provides a human-readable explanation.
func (s *VenvStep) Explain(_ step.ExplainContext) step.Explanation {
	return step.NewExplanation(
		"Prepare python environment",
		fmt.Sprintf("Creates a virtualenv at %s and installs the dependencies declared in %s.", s.env.Path, s.env.ProjectDir),
		[]string{"https://docs.python.org/3/library/venv.html"},
	)
}

func (s *VenvStep) declaration() (declaration, bool) {
	for _, d := range declarations {
		if s.fs.Exists(filepath.Join(s.env.ProjectDir, d.file)) {
			return d, true
		}
	}
	return declaration{}, false
}
