package app_test

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/felixgeelhaar/homestack/internal/app"
	"github.com/felixgeelhaar/homestack/internal/domain/execution"
	"github.com/felixgeelhaar/homestack/internal/domain/step"
)

func TestPrintReport_Aborted(t *testing.T) {
	t.Parallel()

	cloneErr := &execution.FatalStepError{StepID: step.MustNewID("git:sync:stack"), Err: errors.New("git clone failed")}
	ledger := execution.NewLedger(
		execution.NewResult(step.MustNewID("apt:packages"), step.Mandatory, execution.OutcomeSatisfied, nil),
		execution.NewResult(step.MustNewID("mqtt:config"), step.Tolerable, execution.OutcomeTolerated, errors.New("permission denied")),
		execution.NewResult(step.MustNewID("git:sync:stack"), step.Mandatory, execution.OutcomeFailed, cloneErr),
	)
	started := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	r := &app.RunReport{
		Ledger:   ledger,
		Phase:    execution.PhaseAborted,
		Started:  started,
		Finished: started.Add(1500 * time.Millisecond),
		Err:      cloneErr,
	}

	var out bytes.Buffer
	app.PrintReport(&out, app.PlainStyles(), r)
	text := out.String()

	assert.False(t, r.Succeeded())
	assert.Equal(t, 1500*time.Millisecond, r.Took())
	assert.Contains(t, text, "✓ apt:packages")
	assert.Contains(t, text, "! mqtt:config")
	assert.Contains(t, text, "permission denied")
	assert.Contains(t, text, "✗ git:sync:stack")
	assert.Contains(t, text, "Satisfied")
	assert.Contains(t, text, "Summary: 1 satisfied, 1 tolerated, 1 failed (1.5s)")
	assert.Contains(t, text, "Provisioning aborted")
	assert.NotContains(t, text, "Next steps")
}

func TestStylesFor_NonTerminal(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	s := app.StylesFor(&out)
	assert.Equal(t, "plain", s.Title.Render("plain"))
}
