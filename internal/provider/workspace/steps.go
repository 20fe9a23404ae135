// Package workspace prepares the directories every later step writes into.
package workspace

import (
	"fmt"
	"os"

	"github.com/felixgeelhaar/homestack/internal/domain/step"
	"github.com/felixgeelhaar/homestack/internal/ports"
)

// DirMode is the permission of directories created by this provider.
const DirMode os.FileMode = 0o755

// DirStep ensures a directory exists and belongs to the target account.
type DirStep struct {
	id    step.ID
	dir   Dir
	owner ports.Account
	fs    ports.FileSystem
}

// NewDirStep creates a new DirStep.
func NewDirStep(dir Dir, owner ports.Account, fs ports.FileSystem) *DirStep {
	return &DirStep{
		id:    step.MustNewID("workspace:dir:" + dir.Path),
		dir:   dir,
		owner: owner,
		fs:    fs,
	}
}

// ID returns the step identifier.
func (s *DirStep) ID() step.ID {
	return s.id
}

// Policy returns Mandatory: every later step writes beneath these paths.
func (s *DirStep) Policy() step.Policy {
	return step.Mandatory
}

// Check reports whether the directory exists with the expected owner.
func (s *DirStep) Check(_ step.RunContext) (step.Status, error) {
	if !s.fs.IsDir(s.dir.Path) {
		if s.fs.Exists(s.dir.Path) {
			return step.StatusUnknown, fmt.Errorf("%s exists and is not a directory", s.dir.Path)
		}
		return step.StatusNeedsApply, nil
	}
	if !s.dir.AlwaysOwn {
		return step.StatusSatisfied, nil
	}

	uid, gid, err := s.fs.Owner(s.dir.Path)
	if err != nil {
		return step.StatusUnknown, fmt.Errorf("stat %s: %w", s.dir.Path, err)
	}
	if uid != s.owner.UID || gid != s.owner.GID {
		return step.StatusNeedsApply, nil
	}
	return step.StatusSatisfied, nil
}

// Plan returns the diff for this step.
func (s *DirStep) Plan(_ step.RunContext) (step.Diff, error) {
	owner := fmt.Sprintf("owned by %s", s.owner.Name)
	if !s.fs.IsDir(s.dir.Path) {
		return step.NewDiff(step.DiffTypeAdd, "directory", s.dir.Path, "", owner), nil
	}
	uid, gid, err := s.fs.Owner(s.dir.Path)
	if err != nil {
		return step.Diff{}, err
	}
	return step.NewDiff(step.DiffTypeModify, "directory", s.dir.Path, fmt.Sprintf("owned by %d:%d", uid, gid), owner), nil
}

// Apply creates the directory and hands it to the target account.
// Pre-existing directories that are not always owned keep their owner.
func (s *DirStep) Apply(ctx step.RunContext) error {
	existed := s.fs.IsDir(s.dir.Path)
	if !existed {
		if err := s.fs.MkdirAll(s.dir.Path, DirMode); err != nil {
			return fmt.Errorf("create %s: %w", s.dir.Path, err)
		}
	}
	if existed && !s.dir.AlwaysOwn {
		return nil
	}
	if err := s.fs.Chown(s.dir.Path, s.owner.UID, s.owner.GID); err != nil {
		return fmt.Errorf("chown %s to %s: %w", s.dir.Path, s.owner.Name, err)
	}
	ctx.Logger().Debug(ctx.Context(), "directory ready",
		ports.F("path", s.dir.Path), ports.F("owner", s.owner.Name))
	return nil
}

// Explain provides a human-readable explanation.
func (s *DirStep) Explain(_ step.ExplainContext) step.Explanation {
	return step.NewExplanation(
		"Prepare "+s.dir.Path,
		fmt.Sprintf("Creates %s if missing and sets its owner to %s.", s.dir.Path, s.owner.Name),
		nil,
	)
}
