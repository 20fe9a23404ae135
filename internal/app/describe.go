package app

import (
	"github.com/felixgeelhaar/homestack/internal/domain/hostconfig"
	"github.com/felixgeelhaar/homestack/internal/domain/step"
)

// StepDescription pairs a planned step with its explanation.
type StepDescription struct {
	ID          step.ID
	Policy      step.Policy
	Explanation step.Explanation
}

// Describe lists the steps Apply would run for b, in order. It does not
// probe the host.
func (h *Homestack) Describe(b hostconfig.Bundle, verbose bool) ([]StepDescription, error) {
	plan, err := h.BuildPlan(b)
	if err != nil {
		return nil, err
	}
	ec := step.NewExplainContext().WithVerbose(verbose)
	out := make([]StepDescription, 0, plan.Len())
	for _, s := range plan.Steps() {
		out = append(out, StepDescription{
			ID:          s.ID(),
			Policy:      s.Policy(),
			Explanation: s.Explain(ec),
		})
	}
	return out, nil
}
