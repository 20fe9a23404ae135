// Package docker converges the container engine, the target user's
// access to it, swarm mode and the deployed stack.
package docker

import (
	"fmt"
	"regexp"

	"golang.org/x/mod/semver"

	"github.com/felixgeelhaar/homestack/internal/domain/hostconfig"
	"github.com/felixgeelhaar/homestack/internal/domain/step"
	"github.com/felixgeelhaar/homestack/internal/ports"
	"github.com/felixgeelhaar/homestack/internal/provider/commandutil"
)

// InstallScriptURL is the upstream convenience installer.
const InstallScriptURL = "https://get.docker.com"

var versionPattern = regexp.MustCompile(`version ([0-9]+\.[0-9]+(?:\.[0-9]+)?)`)

// EngineStep installs the docker engine when absent or older than a minimum.
type EngineStep struct {
	id         step.ID
	minVersion string
	runner     ports.CommandRunner
}

// NewEngineStep creates a new EngineStep. minVersion may be empty.
func NewEngineStep(minVersion string, runner ports.CommandRunner) *EngineStep {
	return &EngineStep{
		id:         step.MustNewID("docker:engine"),
		minVersion: hostconfig.CanonicalVersion(minVersion),
		runner:     runner,
	}
}

// ID returns the step identifier.
func (s *EngineStep) ID() step.ID {
	return s.id
}

// Policy returns Mandatory.
func (s *EngineStep) Policy() step.Policy {
	return step.Mandatory
}

// Check determines whether a suitable engine is installed.
func (s *EngineStep) Check(ctx step.RunContext) (step.Status, error) {
	version, err := s.installedVersion(ctx)
	if err != nil {
		return step.StatusUnknown, err
	}
	if version == "" || !s.satisfies(version) {
		return step.StatusNeedsApply, nil
	}
	return step.StatusSatisfied, nil
}

// Plan returns the diff for this step.
func (s *EngineStep) Plan(ctx step.RunContext) (step.Diff, error) {
	version, err := s.installedVersion(ctx)
	if err != nil {
		return step.Diff{}, err
	}
	target := "latest"
	if s.minVersion != "" {
		target = ">= " + s.minVersion
	}
	if version == "" {
		return step.NewDiff(step.DiffTypeAdd, "docker", "engine", "", target), nil
	}
	return step.NewDiff(step.DiffTypeModify, "docker", "engine", version, target), nil
}

// Apply runs the convenience installer and starts the daemon.
func (s *EngineStep) Apply(ctx step.RunContext) error {
	script := fmt.Sprintf("curl -fsSL %s | sh", InstallScriptURL)
	if _, err := ports.RunChecked(ctx.Context(), s.runner, "sh", "-c", script); err != nil {
		return fmt.Errorf("install docker: %w", err)
	}
	if _, err := ports.RunChecked(ctx.Context(), s.runner, "systemctl", "enable", "--now", "docker"); err != nil {
		return fmt.Errorf("start docker: %w", err)
	}

	version, err := s.installedVersion(ctx)
	if err != nil {
		return err
	}
	if version == "" {
		return fmt.Errorf("docker still not found after install")
	}
	if !s.satisfies(version) {
		return fmt.Errorf("installed docker %s is older than required %s", version, s.minVersion)
	}
	ctx.Logger().Info(ctx.Context(), "docker engine installed", ports.F("version", version))
	return nil
}

// Explain provides a human-readable explanation.
func (s *EngineStep) Explain(_ step.ExplainContext) step.Explanation {
	detail := "Installs the Docker engine with the upstream convenience script when the docker CLI is missing."
	if s.minVersion != "" {
		detail += fmt.Sprintf(" Versions older than %s are upgraded.", s.minVersion)
	}
	return step.NewExplanation("Install container engine", detail, []string{"https://docs.docker.com/engine/install/debian/"})
}

// installedVersion returns the canonical semver of the docker CLI, or ""
// when docker is not installed.
func (s *EngineStep) installedVersion(ctx step.RunContext) (string, error) {
	result, found, err := commandutil.Probe(ctx.Context(), s.runner, "docker", "--version")
	if err != nil {
		return "", fmt.Errorf("probe docker: %w", err)
	}
	if !found || !result.Success() {
		return "", nil
	}
	return ParseVersion(result.Stdout), nil
}

func (s *EngineStep) satisfies(version string) bool {
	if s.minVersion == "" {
		return true
	}
	return semver.Compare(version, s.minVersion) >= 0
}

// ParseVersion extracts the canonical semver from `docker --version`
// output such as "Docker version 27.3.1, build ce12230". It returns ""
// for unrecognized output.
func ParseVersion(out string) string {
	m := versionPattern.FindStringSubmatch(out)
	if m == nil {
		return ""
	}
	return hostconfig.CanonicalVersion(m[1])
}
