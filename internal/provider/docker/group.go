package docker

import (
	"fmt"
	"strings"

	"github.com/felixgeelhaar/homestack/internal/domain/step"
	"github.com/felixgeelhaar/homestack/internal/ports"
)

// GroupName is the group granting access to the docker socket.
const GroupName = "docker"

// GroupStep adds the target user to the docker group.
type GroupStep struct {
	id     step.ID
	user   string
	runner ports.CommandRunner
}

// NewGroupStep creates a new GroupStep.
func NewGroupStep(user string, runner ports.CommandRunner) *GroupStep {
	return &GroupStep{
		id:     step.MustNewID("docker:group"),
		user:   user,
		runner: runner,
	}
}

// ID returns the step identifier.
func (s *GroupStep) ID() step.ID {
	return s.id
}

// Policy returns Mandatory.
func (s *GroupStep) Policy() step.Policy {
	return step.Mandatory
}

// Check determines whether the user is already a member.
func (s *GroupStep) Check(ctx step.RunContext) (step.Status, error) {
	result, err := ports.RunChecked(ctx.Context(), s.runner, "id", "-nG", s.user)
	if err != nil {
		return step.StatusUnknown, fmt.Errorf("list groups of %s: %w", s.user, err)
	}
	for _, g := range strings.Fields(result.Stdout) {
		if g == GroupName {
			return step.StatusSatisfied, nil
		}
	}
	return step.StatusNeedsApply, nil
}

// Plan returns the diff for this step.
func (s *GroupStep) Plan(_ step.RunContext) (step.Diff, error) {
	return step.NewDiff(step.DiffTypeAdd, "group member", GroupName, "", s.user), nil
}

// Apply adds the user to the group. Membership takes effect at next login.
func (s *GroupStep) Apply(ctx step.RunContext) error {
	if _, err := ports.RunChecked(ctx.Context(), s.runner, "usermod", "-aG", GroupName, s.user); err != nil {
		return fmt.Errorf("add %s to %s: %w", s.user, GroupName, err)
	}
	return nil
}

// Explain provides a human-readable explanation.
func (s *GroupStep) Explain(_ step.ExplainContext) step.Explanation {
	return step.NewExplanation(
		"Grant docker access",
		fmt.Sprintf("Adds %s to the %s group so the engine can be used without sudo.", s.user, GroupName),
		nil,
	)
}
