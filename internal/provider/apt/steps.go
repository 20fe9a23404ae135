// Package apt installs the base operating system packages on Debian-family hosts.
package apt

import (
	"fmt"
	"strings"

	"github.com/felixgeelhaar/homestack/internal/domain/step"
	"github.com/felixgeelhaar/homestack/internal/ports"
	"github.com/felixgeelhaar/homestack/internal/provider/commandutil"
	"github.com/felixgeelhaar/homestack/internal/validation"
)

const statusFormat = "-f=${Package}\t${db:Status-Status}\n"

// PackagesStep installs whichever of a fixed package set is missing.
type PackagesStep struct {
	packages []string
	id       step.ID
	runner   ports.CommandRunner
}

// NewPackagesStep creates a new PackagesStep.
func NewPackagesStep(packages []string, runner ports.CommandRunner) *PackagesStep {
	pkgs := make([]string, len(packages))
	copy(pkgs, packages)
	return &PackagesStep{
		packages: pkgs,
		id:       step.MustNewID("apt:packages"),
		runner:   runner,
	}
}

// ID returns the step identifier.
func (s *PackagesStep) ID() step.ID {
	return s.id
}

// Policy returns Mandatory.
func (s *PackagesStep) Policy() step.Policy {
	return step.Mandatory
}

// Check determines whether every package is installed.
func (s *PackagesStep) Check(ctx step.RunContext) (step.Status, error) {
	missing, err := s.missing(ctx)
	if err != nil {
		return step.StatusUnknown, err
	}
	if len(missing) == 0 {
		return step.StatusSatisfied, nil
	}
	return step.StatusNeedsApply, nil
}

// Plan returns the diff for this step.
func (s *PackagesStep) Plan(ctx step.RunContext) (step.Diff, error) {
	missing, err := s.missing(ctx)
	if err != nil {
		return step.Diff{}, err
	}
	return step.NewDiff(step.DiffTypeAdd, "packages", strings.Join(missing, " "), "", "installed"), nil
}

// Apply refreshes the package index and installs the missing subset.
func (s *PackagesStep) Apply(ctx step.RunContext) error {
	missing, err := s.missing(ctx)
	if err != nil {
		return err
	}
	if len(missing) == 0 {
		return nil
	}
	for _, pkg := range missing {
		if err := validation.ValidatePackageName(pkg); err != nil {
			return fmt.Errorf("invalid package name %q: %w", pkg, err)
		}
	}

	if _, err := ports.RunChecked(ctx.Context(), s.runner, "env", noninteractive("apt-get", "update")...); err != nil {
		return fmt.Errorf("refresh package index: %w", err)
	}

	args := append([]string{"apt-get", "install", "-y", "--no-install-recommends"}, missing...)
	if _, err := ports.RunChecked(ctx.Context(), s.runner, "env", noninteractive(args...)...); err != nil {
		return fmt.Errorf("install packages: %w", err)
	}
	ctx.Logger().Info(ctx.Context(), "installed packages", ports.F("packages", strings.Join(missing, ",")))
	return nil
}

// Explain provides a human-readable explanation.
func (s *PackagesStep) Explain(_ step.ExplainContext) step.Explanation {
	return step.NewExplanation(
		"Install base packages",
		fmt.Sprintf("Installs %s via apt-get, skipping any already present.", strings.Join(s.packages, ", ")),
		nil,
	)
}

// missing returns the packages dpkg does not report as installed, in
// configured order.
func (s *PackagesStep) missing(ctx step.RunContext) ([]string, error) {
	args := append([]string{"-W", statusFormat}, s.packages...)
	result, found, err := commandutil.Probe(ctx.Context(), s.runner, "dpkg-query", args...)
	if err != nil {
		return nil, fmt.Errorf("query package status: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("dpkg-query not found: only Debian-family hosts are supported")
	}

	installed := parseStatus(result.Stdout)
	missing := make([]string, 0, len(s.packages))
	for _, pkg := range s.packages {
		if !installed[pkg] {
			missing = append(missing, pkg)
		}
	}
	return missing, nil
}

// parseStatus reads "name<TAB>status" lines. dpkg-query exits non-zero
// when any name is unknown but still prints the ones it knows.
func parseStatus(out string) map[string]bool {
	installed := make(map[string]bool)
	for _, line := range strings.Split(out, "\n") {
		name, status, ok := strings.Cut(strings.TrimSpace(line), "\t")
		if !ok {
			continue
		}
		if status == "installed" {
			installed[name] = true
		}
	}
	return installed
}

func noninteractive(args ...string) []string {
	return append([]string{"DEBIAN_FRONTEND=noninteractive"}, args...)
}
