package execution

import (
	"fmt"
	"time"

	"github.com/felixgeelhaar/statekit"
)

// Phase is the lifecycle state of a sequencer run.
type Phase string

// Run phases.
const (
	PhaseIdle      Phase = stateIdle
	PhaseRunning   Phase = stateRunning
	PhaseCompleted Phase = stateCompleted
	PhaseAborted   Phase = stateAborted
)

const (
	stateIdle      = "idle"
	stateRunning   = "running"
	stateCompleted = "completed"
	stateAborted   = "aborted"
)

const (
	eventStart  = "START"
	eventFinish = "FINISH"
	eventAbort  = "ABORT"
	eventReset  = "RESET"
)

// runContext is the statekit context of a run.
type runContext struct {
	StartedAt time.Time
}

// lifecycle tracks a run through idle → running → completed | aborted.
type lifecycle struct {
	interp *statekit.Interpreter[runContext]
}

func newLifecycle() (*lifecycle, error) {
	machine, err := statekit.NewMachine[runContext]("homestack-run").
		WithInitial(stateIdle).
		WithContext(runContext{StartedAt: time.Now()}).
		State(stateIdle).
		On(eventStart).Target(stateRunning).Done().
		State(stateRunning).
		On(eventFinish).Target(stateCompleted).
		On(eventAbort).Target(stateAborted).Done().
		State(stateCompleted).
		On(eventReset).Target(stateIdle).Done().
		State(stateAborted).
		On(eventReset).Target(stateIdle).Done().
		Build()
	if err != nil {
		return nil, fmt.Errorf("build run state machine: %w", err)
	}

	interp := statekit.NewInterpreter(machine)
	interp.Start()
	return &lifecycle{interp: interp}, nil
}

func (l *lifecycle) send(event string) {
	l.interp.Send(statekit.Event{Type: statekit.EventType(event)})
}

func (l *lifecycle) phase() Phase {
	return Phase(l.interp.State().Value)
}

func (l *lifecycle) stop() {
	l.interp.Stop()
}
