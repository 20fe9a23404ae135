package validation

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	gitBranchPattern = regexp.MustCompile(`^[a-zA-Z0-9/_.-]+$`)

	gitRemoteURLPatterns = []*regexp.Regexp{
		// https://github.com/user/repo(.git)
		regexp.MustCompile(`^https://[a-zA-Z0-9.-]+(:[0-9]+)?/[a-zA-Z0-9_./-]+$`),
		// git@github.com:user/repo.git
		regexp.MustCompile(`^git@[a-zA-Z0-9.-]+:[a-zA-Z0-9_./-]+$`),
		// ssh://git@github.com/user/repo.git
		regexp.MustCompile(`^ssh://[a-zA-Z0-9@.-]+(:[0-9]+)?/[a-zA-Z0-9_./-]+$`),
		// file:///srv/git/repo
		regexp.MustCompile(`^file:///[a-zA-Z0-9_./-]+$`),
		// /srv/git/repo
		regexp.MustCompile(`^/[a-zA-Z0-9_./-]+$`),
	}
)

// ValidateGitBranch validates a branch name.
func ValidateGitBranch(branch string) error {
	if branch == "" {
		return ErrEmptyInput
	}
	if len(branch) > 255 {
		return fmt.Errorf("branch name too long (max 255 characters)")
	}
	if err := ValidateNoShellMeta(branch); err != nil {
		return err
	}
	if !gitBranchPattern.MatchString(branch) {
		return fmt.Errorf("invalid branch name %q: must contain only alphanumeric characters, hyphens, underscores, slashes, and dots", branch)
	}
	if strings.Contains(branch, "..") || strings.HasPrefix(branch, "-") || strings.HasSuffix(branch, ".lock") {
		return fmt.Errorf("invalid branch name %q", branch)
	}
	return nil
}

// ValidateGitRemoteURL validates a git remote URL or local repository path.
func ValidateGitRemoteURL(url string) error {
	if url == "" {
		return ErrEmptyInput
	}
	if len(url) > 2048 {
		return fmt.Errorf("remote URL too long (max 2048 characters)")
	}
	if err := ValidateNoShellMeta(url); err != nil {
		return err
	}
	for _, pattern := range gitRemoteURLPatterns {
		if pattern.MatchString(url) {
			return nil
		}
	}
	return fmt.Errorf("invalid git remote URL %q: must be HTTPS, SSH URL, or local path", url)
}
