// Package report tells the operator how to inspect what was provisioned.
package report

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/homestack/internal/domain/hostconfig"
	"github.com/felixgeelhaar/homestack/internal/domain/step"
	"github.com/felixgeelhaar/homestack/internal/ports"
)

// Hint is a command worth running after provisioning.
type Hint struct {
	Label   string
	Command string
}

// Hints returns the inspection commands for b's stack, broker and bridge.
func Hints(b hostconfig.Bundle) []Hint {
	unit := b.UnitName()
	return []Hint{
		{Label: "stack services", Command: "docker stack services " + b.StackName},
		{Label: "stack tasks", Command: "docker stack ps " + b.StackName},
		{Label: "broker traffic", Command: fmt.Sprintf("mosquitto_sub -h localhost -p %d -t '#' -v", b.BrokerPort)},
		{Label: "bridge status", Command: "systemctl status " + unit},
		{Label: "bridge logs", Command: "journalctl -u " + unit + " -f"},
	}
}

// ComposeServices returns the service names declared in a compose file,
// in file order.
func ComposeServices(data []byte) ([]string, error) {
	var doc struct {
		Services yaml.Node `yaml:"services"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse compose file: %w", err)
	}
	if doc.Services.Kind != yaml.MappingNode {
		return nil, nil
	}
	names := make([]string, 0, len(doc.Services.Content)/2)
	for i := 0; i+1 < len(doc.Services.Content); i += 2 {
		names = append(names, doc.Services.Content[i].Value)
	}
	return names, nil
}

// SummaryStep logs where to look next. It never changes the host.
type SummaryStep struct {
	id     step.ID
	bundle hostconfig.Bundle
	fs     ports.FileSystem
}

// NewSummaryStep creates a new SummaryStep.
func NewSummaryStep(b hostconfig.Bundle, fs ports.FileSystem) *SummaryStep {
	return &SummaryStep{
		id:     step.MustNewID("report:summary"),
		bundle: b,
		fs:     fs,
	}
}

// ID returns the step identifier.
func (s *SummaryStep) ID() step.ID {
	return s.id
}

// Policy returns Tolerable.
func (s *SummaryStep) Policy() step.Policy {
	return step.Tolerable
}

// Check always reports NeedsApply so the summary prints on every run.
func (s *SummaryStep) Check(_ step.RunContext) (step.Status, error) {
	return step.StatusNeedsApply, nil
}

// Plan returns an empty diff; reporting changes nothing.
func (s *SummaryStep) Plan(_ step.RunContext) (step.Diff, error) {
	return step.NewDiff(step.DiffTypeNone, "report", "summary", "", ""), nil
}

// Apply logs the stack's services and the inspection commands.
func (s *SummaryStep) Apply(ctx step.RunContext) error {
	logger := ctx.Logger()

	data, err := s.fs.ReadFile(s.bundle.ComposePath())
	if err != nil {
		return fmt.Errorf("read %s: %w", s.bundle.ComposePath(), err)
	}
	services, err := ComposeServices(data)
	if err != nil {
		return err
	}
	for _, svc := range services {
		logger.Info(ctx.Context(), "stack service", ports.F("name", s.bundle.StackName+"_"+svc))
	}

	for _, h := range Hints(s.bundle) {
		logger.Info(ctx.Context(), h.Label, ports.F("run", h.Command))
	}
	return nil
}

// Explain provides a human-readable explanation.
func (s *SummaryStep) Explain(_ step.ExplainContext) step.Explanation {
	return step.NewExplanation(
		"Summarize deployment",
		"Lists the deployed stack services and the commands for inspecting the stack, the broker and the bridge service.",
		nil,
	)
}
