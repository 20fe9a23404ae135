package execution

import (
	"fmt"

	"github.com/felixgeelhaar/homestack/internal/domain/step"
)

// Plan is the fixed, ordered list of steps for one run. Order is the
// dependency order: a step may rely on everything before it.
type Plan struct {
	steps []step.Step
	ids   map[string]bool
}

// NewPlan creates an empty Plan.
func NewPlan() *Plan {
	return &Plan{ids: make(map[string]bool)}
}

// Add appends steps, rejecting duplicate IDs.
func (p *Plan) Add(steps ...step.Step) error {
	for _, s := range steps {
		id := s.ID().String()
		if p.ids[id] {
			return fmt.Errorf("duplicate step %q in plan", id)
		}
		p.ids[id] = true
		p.steps = append(p.steps, s)
	}
	return nil
}

// MustAdd is Add for statically assembled plans.
func (p *Plan) MustAdd(steps ...step.Step) *Plan {
	if err := p.Add(steps...); err != nil {
		panic(err)
	}
	return p
}

// Len returns the number of steps.
func (p *Plan) Len() int {
	return len(p.steps)
}

// Steps returns the steps in execution order.
func (p *Plan) Steps() []step.Step {
	out := make([]step.Step, len(p.steps))
	copy(out, p.steps)
	return out
}
