// Package mocks provides test doubles for the ports interfaces.
package mocks

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/felixgeelhaar/homestack/internal/ports"
)

// CommandHandler produces a result for a command invocation.
type CommandHandler func(args []string) (ports.CommandResult, error)

// CommandRunner is a thread-safe test double for ports.CommandRunner.
// Exact command lines are matched first, then per-command handlers.
type CommandRunner struct {
	mu       sync.Mutex
	results  map[string]ports.CommandResult
	errors   map[string]error
	handlers map[string]CommandHandler
	calls    []ports.CommandCall
}

// NewCommandRunner creates a new CommandRunner mock.
func NewCommandRunner() *CommandRunner {
	return &CommandRunner{
		results:  make(map[string]ports.CommandResult),
		errors:   make(map[string]error),
		handlers: make(map[string]CommandHandler),
	}
}

// AddResult registers the result for an exact command line.
func (m *CommandRunner) AddResult(command string, args []string, result ports.CommandResult) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results[buildKey(command, args)] = result
}

// AddError registers an exact command line that fails to start.
func (m *CommandRunner) AddError(command string, args []string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[buildKey(command, args)] = err
}

// Handle registers a fallback handler for any invocation of command.
func (m *CommandRunner) Handle(command string, handler CommandHandler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[command] = handler
}

// Run executes a mock command.
func (m *CommandRunner) Run(_ context.Context, command string, args ...string) (ports.CommandResult, error) {
	m.mu.Lock()
	recorded := make([]string, len(args))
	copy(recorded, args)
	m.calls = append(m.calls, ports.CommandCall{Command: command, Args: recorded})

	key := buildKey(command, args)
	if err, ok := m.errors[key]; ok {
		m.mu.Unlock()
		return ports.CommandResult{}, err
	}
	if result, ok := m.results[key]; ok {
		m.mu.Unlock()
		return result, nil
	}
	handler, ok := m.handlers[command]
	m.mu.Unlock()

	if ok {
		return handler(recorded)
	}
	return ports.CommandResult{}, fmt.Errorf("no mock result for command: %s %v", command, args)
}

// Calls returns all recorded invocations in order.
func (m *CommandRunner) Calls() []ports.CommandCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	calls := make([]ports.CommandCall, len(m.calls))
	copy(calls, m.calls)
	return calls
}

// CommandLines returns the recorded invocations rendered as strings.
func (m *CommandRunner) CommandLines() []string {
	calls := m.Calls()
	lines := make([]string, len(calls))
	for i, c := range calls {
		lines[i] = c.String()
	}
	return lines
}

// Called reports whether the exact command line was invoked.
func (m *CommandRunner) Called(command string, args ...string) bool {
	want := buildKey(command, args)
	for _, c := range m.Calls() {
		if buildKey(c.Command, c.Args) == want {
			return true
		}
	}
	return false
}

// Reset clears registrations and recorded calls.
func (m *CommandRunner) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = make(map[string]ports.CommandResult)
	m.errors = make(map[string]error)
	m.handlers = make(map[string]CommandHandler)
	m.calls = nil
}

func buildKey(command string, args []string) string {
	return command + "\x00" + strings.Join(args, "\x00")
}

var _ ports.CommandRunner = (*CommandRunner)(nil)
