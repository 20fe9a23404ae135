package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/felixgeelhaar/homestack/internal/app"
	"github.com/felixgeelhaar/homestack/internal/domain/execution"
	"github.com/felixgeelhaar/homestack/internal/domain/hostconfig"
	"github.com/felixgeelhaar/homestack/internal/domain/privilege"
	"github.com/felixgeelhaar/homestack/internal/domain/step"
	"github.com/felixgeelhaar/homestack/internal/ports"
)

// fakeClient records calls instead of touching the host.
type fakeClient struct {
	out     io.Writer
	applied []hostconfig.Bundle
	planned []hostconfig.Bundle
	report  *app.RunReport
	err     error
}

func (f *fakeClient) Apply(_ context.Context, b hostconfig.Bundle) (*app.RunReport, error) {
	f.applied = append(f.applied, b)
	return f.report, f.err
}

func (f *fakeClient) Plan(_ context.Context, b hostconfig.Bundle) (*app.RunReport, error) {
	f.planned = append(f.planned, b)
	return f.report, f.err
}

func (f *fakeClient) PrintReport(r *app.RunReport) {
	_, _ = fmt.Fprintf(f.out, "report: %s\n", r.Ledger.Summary())
}

func (f *fakeClient) Describe(b hostconfig.Bundle, _ bool) ([]app.StepDescription, error) {
	return []app.StepDescription{
		{
			ID:          step.MustNewID("docker:swarm"),
			Policy:      step.Mandatory,
			Explanation: step.NewExplanation("Enable swarm mode", "Initializes a single-node swarm for "+b.StackName+".", []string{"https://docs.docker.com/engine/swarm/"}),
		},
	}, nil
}

func completedReport() *app.RunReport {
	started := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	return &app.RunReport{
		RunID: "run-1",
		Ledger: execution.NewLedger(
			execution.NewResult(step.MustNewID("apt:packages"), step.Mandatory, execution.OutcomeApplied, nil),
			execution.NewResult(step.MustNewID("docker:swarm"), step.Mandatory, execution.OutcomeSatisfied, nil),
		),
		Phase:    execution.PhaseCompleted,
		Started:  started,
		Finished: started.Add(42 * time.Second),
	}
}

// useFakes swaps the host-facing seams for the duration of a test.
func useFakes(t *testing.T, client *fakeClient, euid int) {
	t.Helper()

	origClient, origResolver, origGuard := newHomestack, newResolver, privilegeGuard
	t.Cleanup(func() {
		newHomestack, newResolver, privilegeGuard = origClient, origResolver, origGuard
	})

	newHomestack = func(out io.Writer, _ ports.Logger) homestackClient {
		client.out = out
		return client
	}
	newResolver = func() *hostconfig.Resolver {
		return hostconfig.NewResolver(
			hostconfig.WithLookupEnv(func(string) (string, bool) { return "", false }),
			hostconfig.WithReadFile(hideSystemConfig),
		)
	}
	privilegeGuard = privilege.NewGuard(privilege.WithEUID(func() int { return euid }))
}

// hideSystemConfig reads explicit files but never the host's own config.
func hideSystemConfig(path string) ([]byte, error) {
	if strings.HasPrefix(path, hostconfig.SystemConfigDir+"/") {
		return nil, os.ErrNotExist
	}
	return os.ReadFile(path)
}

func resetFlags() {
	cfgFile, verbose, logFormat, metricsFile = "", false, "text", ""
	setValues, targetUser, branch = nil, "", ""
}

// execute runs the root command with args and returns everything written.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags()
	t.Cleanup(resetFlags)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}
