package docker

import (
	"fmt"

	"github.com/felixgeelhaar/homestack/internal/domain/step"
	"github.com/felixgeelhaar/homestack/internal/ports"
)

// Stack describes a compose-defined stack.
type Stack struct {
	Name        string
	ComposePath string
	DataRoot    string
}

// StackStep deploys or updates the stack. Deploying an unchanged stack is
// a no-op on the engine side, so it runs every time.
type StackStep struct {
	id     step.ID
	stack  Stack
	runner ports.CommandRunner
	fs     ports.FileSystem
}

// NewStackStep creates a new StackStep.
func NewStackStep(stack Stack, runner ports.CommandRunner, fs ports.FileSystem) *StackStep {
	return &StackStep{
		id:     step.MustNewID("docker:stack:" + stack.Name),
		stack:  stack,
		runner: runner,
		fs:     fs,
	}
}

// ID returns the step identifier.
func (s *StackStep) ID() step.ID {
	return s.id
}

// Policy returns Mandatory.
func (s *StackStep) Policy() step.Policy {
	return step.Mandatory
}

// Check always reports NeedsApply; the engine reconciles the services.
func (s *StackStep) Check(_ step.RunContext) (step.Status, error) {
	return step.StatusNeedsApply, nil
}

// Plan returns the diff for this step.
func (s *StackStep) Plan(_ step.RunContext) (step.Diff, error) {
	source := s.stack.ComposePath
	if !s.fs.Exists(source) {
		source += " (not present yet)"
	}
	return step.NewDiff(step.DiffTypeAdd, "stack", s.stack.Name, "", "deployed from "+source), nil
}

// Apply runs docker stack deploy with DATA_ROOT exported for interpolation.
func (s *StackStep) Apply(ctx step.RunContext) error {
	if !s.fs.Exists(s.stack.ComposePath) {
		return fmt.Errorf("compose file %s not found", s.stack.ComposePath)
	}
	_, err := ports.RunChecked(ctx.Context(), s.runner, "env",
		"DATA_ROOT="+s.stack.DataRoot,
		"docker", "stack", "deploy", "-c", s.stack.ComposePath, s.stack.Name)
	if err != nil {
		return fmt.Errorf("deploy stack %s: %w", s.stack.Name, err)
	}
	return nil
}

// Explain provides a human-readable explanation.
func (s *StackStep) Explain(_ step.ExplainContext) step.Explanation {
	return step.NewExplanation(
		"Deploy stack "+s.stack.Name,
		fmt.Sprintf("Deploys %s as swarm stack %s with DATA_ROOT=%s.", s.stack.ComposePath, s.stack.Name, s.stack.DataRoot),
		[]string{"https://docs.docker.com/reference/cli/docker/stack/deploy/"},
	)
}
