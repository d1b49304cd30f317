package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidRepo is returned when a repository string has fewer than two path segments
var ErrInvalidRepo = errors.New("invalid repo format")

// RepoContext identifies a repository on GitHub
type RepoContext struct {
	Owner string `json:"owner"`
	Repo  string `json:"repo"`
}

// ParseRepo parses "owner/repo", "owner/repo.git" or a repository URL.
// The last two path segments are used as owner and repo.
func ParseRepo(repo string) (RepoContext, error) {
	trimmed := strings.TrimSuffix(strings.TrimSpace(repo), ".git")
	trimmed = strings.TrimSuffix(trimmed, "/")

	chunks := strings.Split(trimmed, "/")
	if len(chunks) < 2 {
		return RepoContext{}, fmt.Errorf("%w: %q", ErrInvalidRepo, repo)
	}

	rc := RepoContext{
		Owner: chunks[len(chunks)-2],
		Repo:  chunks[len(chunks)-1],
	}
	if rc.Owner == "" || rc.Repo == "" {
		return RepoContext{}, fmt.Errorf("%w: %q", ErrInvalidRepo, repo)
	}
	return rc, nil
}

// FullName returns "owner/repo"
func (r RepoContext) FullName() string {
	return r.Owner + "/" + r.Repo
}

func (r RepoContext) String() string {
	return r.FullName()
}
