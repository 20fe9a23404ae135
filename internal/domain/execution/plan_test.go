package execution

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/homestack/internal/domain/step"
)

func TestPlan_RejectsDuplicates(t *testing.T) {
	p := NewPlan()
	require.NoError(t, p.Add(newFakeStep("a:one", step.Mandatory, nil)))

	err := p.Add(newFakeStep("a:one", step.Tolerable, nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate step")
	assert.Equal(t, 1, p.Len())
}

func TestPlan_MustAddPanicsOnDuplicate(t *testing.T) {
	assert.Panics(t, func() {
		NewPlan().MustAdd(
			newFakeStep("a:one", step.Mandatory, nil),
			newFakeStep("a:one", step.Mandatory, nil),
		)
	})
}

func TestPlan_StepsPreservesOrder(t *testing.T) {
	p := NewPlan().MustAdd(
		newFakeStep("c", step.Mandatory, nil),
		newFakeStep("a", step.Mandatory, nil),
		newFakeStep("b", step.Mandatory, nil),
	)

	ids := make([]string, 0, p.Len())
	for _, s := range p.Steps() {
		ids = append(ids, s.ID().String())
	}
	assert.Equal(t, []string{"c", "a", "b"}, ids)
}
