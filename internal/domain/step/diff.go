package step

import "fmt"

// DiffType is the kind of change a step will make.
type DiffType string

const (
	// DiffTypeAdd indicates a new resource will be created.
	DiffTypeAdd DiffType = "add"
	// DiffTypeModify indicates an existing resource will be changed.
	DiffTypeModify DiffType = "modify"
	// DiffTypeNone indicates no change is needed.
	DiffTypeNone DiffType = "none"
)

// Diff is a planned change.
type Diff struct {
	diffType DiffType
	resource string
	name     string
	oldValue string
	newValue string
}

// NewDiff creates a new Diff.
func NewDiff(diffType DiffType, resource, name, oldValue, newValue string) Diff {
	return Diff{
		diffType: diffType,
		resource: resource,
		name:     name,
		oldValue: oldValue,
		newValue: newValue,
	}
}

// Type returns the diff type.
func (d Diff) Type() DiffType { return d.diffType }

// Resource returns the resource kind (e.g. "package", "file").
func (d Diff) Resource() string { return d.resource }

// Name returns the resource name.
func (d Diff) Name() string { return d.name }

// OldValue returns the current value, empty for additions.
func (d Diff) OldValue() string { return d.oldValue }

// NewValue returns the target value.
func (d Diff) NewValue() string { return d.newValue }

// IsEmpty returns true for the zero Diff or a DiffTypeNone diff.
func (d Diff) IsEmpty() bool {
	return d.diffType == "" || d.diffType == DiffTypeNone
}

// Summary returns a one-line description of the change.
func (d Diff) Summary() string {
	switch d.diffType {
	case DiffTypeAdd:
		return fmt.Sprintf("+ %s %s → %s", d.resource, d.name, d.newValue)
	case DiffTypeModify:
		return fmt.Sprintf("~ %s %s: %s → %s", d.resource, d.name, d.oldValue, d.newValue)
	case DiffTypeNone:
		return fmt.Sprintf("  %s %s (no change)", d.resource, d.name)
	}
	return ""
}
