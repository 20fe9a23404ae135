// Package mqtt seeds the broker's on-host configuration for the stack.
package mqtt

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/felixgeelhaar/homestack/internal/domain/step"
	"github.com/felixgeelhaar/homestack/internal/ports"
)

// Broker describes the broker directory layout and listener settings.
type Broker struct {
	// Dir holds config/, data/ and log/.
	Dir            string
	Port           int
	AllowAnonymous bool
}

// ConfigPath returns the broker configuration file.
func (b Broker) ConfigPath() string {
	return filepath.Join(b.Dir, "config", "mosquitto.conf")
}

func (b Broker) dirs() []string {
	return []string{
		filepath.Join(b.Dir, "config"),
		filepath.Join(b.Dir, "data"),
		filepath.Join(b.Dir, "log"),
	}
}

// Render returns the broker configuration. Paths are container paths.
func Render(b Broker) string {
	var sb strings.Builder
	sb.WriteString("listener " + strconv.Itoa(b.Port) + "\n")
	sb.WriteString("allow_anonymous " + strconv.FormatBool(b.AllowAnonymous) + "\n")
	sb.WriteString("persistence true\n")
	sb.WriteString("persistence_location /mosquitto/data/\n")
	sb.WriteString("log_dest file /mosquitto/log/mosquitto.log\n")
	return sb.String()
}

// ConfigStep creates the broker configuration when absent. An existing
// file is the operator's and is never rewritten.
type ConfigStep struct {
	id     step.ID
	broker Broker
	fs     ports.FileSystem
}

// NewConfigStep creates a new ConfigStep.
func NewConfigStep(broker Broker, fs ports.FileSystem) *ConfigStep {
	return &ConfigStep{
		id:     step.MustNewID("mqtt:config"),
		broker: broker,
		fs:     fs,
	}
}

// ID returns the step identifier.
func (s *ConfigStep) ID() step.ID {
	return s.id
}

// Policy returns Tolerable.
func (s *ConfigStep) Policy() step.Policy {
	return step.Tolerable
}

// Check determines whether the broker layout exists.
func (s *ConfigStep) Check(_ step.RunContext) (step.Status, error) {
	if len(s.missing()) > 0 {
		return step.StatusNeedsApply, nil
	}
	return step.StatusSatisfied, nil
}

// Plan returns the diff for this step.
func (s *ConfigStep) Plan(_ step.RunContext) (step.Diff, error) {
	return step.NewDiff(step.DiffTypeAdd, "broker", s.broker.Dir, "", strings.Join(s.missing(), ", ")), nil
}

// Apply creates missing directories and writes the default configuration.
func (s *ConfigStep) Apply(ctx step.RunContext) error {
	for _, dir := range s.broker.dirs() {
		if err := s.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}

	path := s.broker.ConfigPath()
	if s.fs.Exists(path) {
		return nil
	}
	if err := s.fs.WriteFile(path, []byte(Render(s.broker)), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	ctx.Logger().Info(ctx.Context(), "wrote broker config", ports.F("path", path))
	return nil
}

// Explain provides a human-readable explanation.
func (s *ConfigStep) Explain(_ step.ExplainContext) step.Explanation {
	return step.NewExplanation(
		"Seed MQTT broker config",
		fmt.Sprintf("Creates %s with a listener on port %d unless the file already exists.", s.broker.ConfigPath(), s.broker.Port),
		[]string{"https://mosquitto.org/man/mosquitto-conf-5.html"},
	)
}

func (s *ConfigStep) missing() []string {
	var missing []string
	for _, dir := range s.broker.dirs() {
		if !s.fs.IsDir(dir) {
			missing = append(missing, dir)
		}
	}
	if !s.fs.Exists(s.broker.ConfigPath()) {
		missing = append(missing, s.broker.ConfigPath())
	}
	return missing
}
