package docker

import (
	"fmt"
	"strings"

	"github.com/felixgeelhaar/homestack/internal/domain/step"
	"github.com/felixgeelhaar/homestack/internal/ports"
	"github.com/felixgeelhaar/homestack/internal/provider/commandutil"
)

// SwarmActive is the local node state of an initialized swarm member.
const SwarmActive = "active"

// SwarmStep puts the engine into swarm mode.
type SwarmStep struct {
	id            step.ID
	advertiseAddr string
	runner        ports.CommandRunner
}

// NewSwarmStep creates a new SwarmStep. advertiseAddr may be empty.
func NewSwarmStep(advertiseAddr string, runner ports.CommandRunner) *SwarmStep {
	return &SwarmStep{
		id:            step.MustNewID("docker:swarm"),
		advertiseAddr: advertiseAddr,
		runner:        runner,
	}
}

// ID returns the step identifier.
func (s *SwarmStep) ID() step.ID {
	return s.id
}

// Policy returns Mandatory.
func (s *SwarmStep) Policy() step.Policy {
	return step.Mandatory
}

// Check determines whether this node is already an active swarm member.
func (s *SwarmStep) Check(ctx step.RunContext) (step.Status, error) {
	state, err := s.nodeState(ctx)
	if err != nil {
		return step.StatusUnknown, err
	}
	if state == SwarmActive {
		return step.StatusSatisfied, nil
	}
	return step.StatusNeedsApply, nil
}

// Plan returns the diff for this step.
func (s *SwarmStep) Plan(ctx step.RunContext) (step.Diff, error) {
	state, err := s.nodeState(ctx)
	if err != nil {
		return step.Diff{}, err
	}
	if state == "" {
		state = "unknown"
	}
	return step.NewDiff(step.DiffTypeModify, "swarm", "local node", state, SwarmActive), nil
}

// Apply initializes a single-node swarm.
func (s *SwarmStep) Apply(ctx step.RunContext) error {
	args := []string{"swarm", "init"}
	if s.advertiseAddr != "" {
		args = append(args, "--advertise-addr", s.advertiseAddr)
	}
	if _, err := ports.RunChecked(ctx.Context(), s.runner, "docker", args...); err != nil {
		return fmt.Errorf("initialize swarm: %w", err)
	}
	return nil
}

// Explain provides a human-readable explanation.
func (s *SwarmStep) Explain(_ step.ExplainContext) step.Explanation {
	return step.NewExplanation(
		"Enable swarm mode",
		"Initializes a single-node Docker swarm so the service stack can be deployed with docker stack deploy.",
		[]string{"https://docs.docker.com/engine/swarm/"},
	)
}

// nodeState returns the swarm LocalNodeState, or "" when the engine
// cannot be queried yet.
func (s *SwarmStep) nodeState(ctx step.RunContext) (string, error) {
	result, found, err := commandutil.Probe(ctx.Context(), s.runner, "docker", "info", "--format", "{{.Swarm.LocalNodeState}}")
	if err != nil {
		return "", fmt.Errorf("probe swarm state: %w", err)
	}
	if !found || !result.Success() {
		return "", nil
	}
	return strings.TrimSpace(result.Stdout), nil
}
