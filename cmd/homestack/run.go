package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/homestack/internal/adapters/metrics"
	"github.com/felixgeelhaar/homestack/internal/app"
	"github.com/felixgeelhaar/homestack/internal/domain/hostconfig"
	"github.com/felixgeelhaar/homestack/internal/ports"
)

type homestackClient interface {
	Apply(context.Context, hostconfig.Bundle) (*app.RunReport, error)
	Plan(context.Context, hostconfig.Bundle) (*app.RunReport, error)
	PrintReport(*app.RunReport)
	Describe(hostconfig.Bundle, bool) ([]app.StepDescription, error)
}

var newHomestack = func(out io.Writer, logger ports.Logger) homestackClient {
	return app.New(out, logger)
}

// provision resolves the bundle and runs every step, applying changes
// unless dryRun is set. SIGINT and SIGTERM stop the run before the next step.
func provision(cmd *cobra.Command, dryRun bool) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	logger, err := newLogger(out)
	if err != nil {
		return err
	}

	b, err := resolveBundle()
	if err != nil {
		return err
	}

	h := newHomestack(out, logger)
	run := h.Apply
	if dryRun {
		run = h.Plan
	}

	report, err := run(ctx, b)
	if report != nil {
		h.PrintReport(report)
		if metricsFile != "" {
			if mErr := writeMetrics(metricsFile, report); mErr != nil {
				logger.Warn(ctx, "metrics not written", ports.F("path", metricsFile), ports.F("error", mErr))
			}
		}
	}
	return err
}

func writeMetrics(path string, report *app.RunReport) error {
	rec := metrics.NewRecorder()
	rec.Record(report.Ledger, report.Took(), report.Finished, report.Succeeded())
	return rec.WriteTextfile(path)
}
