// Package git keeps local checkouts on the tip of a remote branch.
package git

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/felixgeelhaar/homestack/internal/domain/step"
	"github.com/felixgeelhaar/homestack/internal/ports"
)

// promptFree keeps git from waiting on a credential prompt when a remote
// is private or does not exist.
var promptFree = []string{"GIT_TERMINAL_PROMPT=0", "GIT_ASKPASS=", "LC_ALL=C"}

// Repo is a checkout to converge.
type Repo struct {
	// Name is the short label used in the step ID, e.g. "stack".
	Name   string
	URL    string
	Dir    string
	// Branch to track. Empty follows the remote's default branch.
	Branch string
}

// ref is what to fetch and compare against at the remote.
func (r Repo) ref() string {
	if r.Branch == "" {
		return "HEAD"
	}
	return r.Branch
}

// remoteRef is the ls-remote pattern for ref.
func (r Repo) remoteRef() string {
	if r.Branch == "" {
		return "HEAD"
	}
	return "refs/heads/" + r.Branch
}

// localBranch names the branch created when adopting a directory.
func (r Repo) localBranch() string {
	if r.Branch == "" {
		return "main"
	}
	return r.Branch
}

// SyncStep clones a repository or fast-forwards it to the remote branch.
// Commands run through the runner it is given; pass one that runs as the
// owner of Dir.
type SyncStep struct {
	id     step.ID
	repo   Repo
	policy step.Policy
	runner ports.CommandRunner
	fs     ports.FileSystem
}

// NewSyncStep creates a new SyncStep.
func NewSyncStep(repo Repo, policy step.Policy, runner ports.CommandRunner, fs ports.FileSystem) *SyncStep {
	return &SyncStep{
		id:     step.MustNewID("git:sync:" + repo.Name),
		repo:   repo,
		policy: policy,
		runner: runner,
		fs:     fs,
	}
}

// ID returns the step identifier.
func (s *SyncStep) ID() step.ID {
	return s.id
}

// Policy returns the policy the step was built with.
func (s *SyncStep) Policy() step.Policy {
	return s.policy
}

// Check compares the local checkout with the remote branch tip.
func (s *SyncStep) Check(ctx step.RunContext) (step.Status, error) {
	if s.repo.URL == "" {
		return step.StatusUnknown, step.Skip("no source URL configured for " + s.repo.Dir)
	}
	st, err := s.probe(ctx)
	if err != nil {
		return step.StatusUnknown, err
	}
	if st.current() {
		return step.StatusSatisfied, nil
	}
	return step.StatusNeedsApply, nil
}

// Plan returns the diff for this step.
func (s *SyncStep) Plan(ctx step.RunContext) (step.Diff, error) {
	target := s.repo.ref() + "@" + s.repo.URL
	st, err := s.probe(ctx)
	if err != nil {
		return step.Diff{}, err
	}
	switch {
	case !st.exists:
		return step.NewDiff(step.DiffTypeAdd, "checkout", s.repo.Dir, "", target), nil
	case !st.isRepo:
		return step.NewDiff(step.DiffTypeModify, "checkout", s.repo.Dir, "not a repository", target), nil
	}
	return step.NewDiff(step.DiffTypeModify, "checkout", s.repo.Dir, st.describe(), target), nil
}

// Apply clones, adopts or fast-forwards the checkout. Local commits that
// diverge from the remote make the pull fail rather than being discarded.
func (s *SyncStep) Apply(ctx step.RunContext) error {
	st, err := s.probe(ctx)
	if err != nil {
		return err
	}

	switch {
	case !st.exists:
		return s.clone(ctx)
	case !st.isRepo:
		return s.adopt(ctx)
	}

	if st.originURL != s.repo.URL {
		if err := s.git(ctx, "set-url", "remote", "set-url", "origin", s.repo.URL); err != nil {
			return err
		}
	}
	if err := s.git(ctx, "fetch", "fetch", "origin", s.repo.ref()); err != nil {
		return err
	}
	if s.repo.Branch != "" && st.branch != s.repo.Branch {
		if err := s.git(ctx, "checkout", "checkout", s.repo.Branch); err != nil {
			return err
		}
	}
	if err := s.git(ctx, "pull", "pull", "--ff-only", "origin", s.repo.ref()); err != nil {
		return err
	}
	ctx.Logger().Info(ctx.Context(), "repository updated",
		ports.F("dir", s.repo.Dir), ports.F("ref", s.repo.ref()))
	return nil
}

// Explain provides a human-readable explanation.
func (s *SyncStep) Explain(_ step.ExplainContext) step.Explanation {
	return step.NewExplanation(
		"Sync "+s.repo.Name+" repository",
		fmt.Sprintf("Clones %s (%s) into %s, or fast-forwards an existing checkout.", s.repo.URL, s.repo.ref(), s.repo.Dir),
		nil,
	)
}

func (s *SyncStep) clone(ctx step.RunContext) error {
	args := append(append([]string{}, promptFree...), "git", "clone")
	if s.repo.Branch != "" {
		args = append(args, "--branch", s.repo.Branch)
	}
	args = append(args, s.repo.URL, s.repo.Dir)
	result, err := s.runner.Run(ctx.Context(), "env", args...)
	if err != nil {
		return &SyncError{Op: "clone", Dir: s.repo.Dir, URL: s.repo.URL, Reason: err.Error()}
	}
	if !result.Success() {
		return &SyncError{Op: "clone", Dir: s.repo.Dir, URL: s.repo.URL, Reason: result.Output()}
	}
	ctx.Logger().Info(ctx.Context(), "repository cloned",
		ports.F("dir", s.repo.Dir), ports.F("ref", s.repo.ref()))
	return nil
}

// adopt turns an existing plain directory into a checkout of the branch.
// Untracked files that collide with tracked ones make checkout fail;
// nothing is overwritten.
func (s *SyncStep) adopt(ctx step.RunContext) error {
	steps := [][]string{
		{"init", "init", "--quiet"},
		{"remote", "remote", "add", "origin", s.repo.URL},
		{"fetch", "fetch", "origin", s.repo.ref()},
		{"checkout", "checkout", "-B", s.repo.localBranch(), "FETCH_HEAD"},
	}
	for _, a := range steps {
		if err := s.git(ctx, a[0], a[1:]...); err != nil {
			return err
		}
	}
	ctx.Logger().Info(ctx.Context(), "existing directory adopted as checkout", ports.F("dir", s.repo.Dir))
	return nil
}

func (s *SyncStep) git(ctx step.RunContext, op string, args ...string) error {
	_, err := s.output(ctx, op, args...)
	return err
}

func (s *SyncStep) output(ctx step.RunContext, op string, args ...string) (string, error) {
	argv := make([]string, 0, len(promptFree)+len(args)+3)
	argv = append(argv, promptFree...)
	argv = append(argv, "git", "-C", s.repo.Dir)
	argv = append(argv, args...)

	result, err := s.runner.Run(ctx.Context(), "env", argv...)
	if err != nil {
		return "", &SyncError{Op: op, Dir: s.repo.Dir, URL: s.repo.URL, Reason: err.Error()}
	}
	if !result.Success() {
		return "", &SyncError{Op: op, Dir: s.repo.Dir, URL: s.repo.URL, Reason: result.Output()}
	}
	return strings.TrimSpace(result.Stdout), nil
}

// state is what the probe found on disk and at the remote.
type state struct {
	exists    bool
	isRepo    bool
	originURL string
	branch    string
	head      string
	remote    string
}

func (st state) current() bool {
	return st.isRepo && st.head != "" && st.head == st.remote
}

func (st state) describe() string {
	head := st.head
	if len(head) > 12 {
		head = head[:12]
	}
	if head == "" {
		head = "no commits"
	}
	return st.branch + "@" + head
}

func (s *SyncStep) probe(ctx step.RunContext) (state, error) {
	var st state
	st.exists = s.fs.Exists(s.repo.Dir)
	st.isRepo = s.fs.Exists(filepath.Join(s.repo.Dir, ".git"))
	if !st.isRepo {
		return st, nil
	}

	// A freshly initialized repository has no origin or HEAD yet; those
	// probes failing only means the checkout needs work.
	st.originURL, _ = s.output(ctx, "remote", "remote", "get-url", "origin")
	st.head, _ = s.output(ctx, "rev-parse", "rev-parse", "HEAD")
	st.branch, _ = s.output(ctx, "rev-parse", "rev-parse", "--abbrev-ref", "HEAD")

	if st.originURL != s.repo.URL || (s.repo.Branch != "" && st.branch != s.repo.Branch) {
		return st, nil
	}

	out, err := s.output(ctx, "ls-remote", "ls-remote", "origin", s.repo.remoteRef())
	if err != nil {
		return st, err
	}
	sha, _, _ := strings.Cut(out, "\t")
	if sha == "" {
		return st, &SyncError{Op: "ls-remote", Dir: s.repo.Dir, URL: s.repo.URL, Reason: s.repo.remoteRef() + " not found"}
	}
	st.remote = sha
	return st, nil
}
