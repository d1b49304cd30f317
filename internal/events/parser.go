// Package events reads the GitHub Actions event that triggered the current run.
package events

import (
	"fmt"
	"os"

	"github.com/qiniu/omni-comment/pkg/models"

	"github.com/google/go-github/v58/github"
	"github.com/qiniu/x/log"
)

// Environment variables set by GitHub Actions
const (
	EnvEventName  = "GITHUB_EVENT_NAME"
	EnvEventPath  = "GITHUB_EVENT_PATH"
	EnvRepository = "GITHUB_REPOSITORY"
)

// Context describes the workflow run
type Context struct {
	EventName  string
	EventPath  string
	Repository string
}

// FromEnv reads the workflow run context from the environment
func FromEnv() Context {
	return Context{
		EventName:  os.Getenv(EnvEventName),
		EventPath:  os.Getenv(EnvEventPath),
		Repository: os.Getenv(EnvRepository),
	}
}

// IssueNumber resolves the issue or pull request number from the event payload file
func (c Context) IssueNumber() (int, error) {
	if c.EventName == "" || c.EventPath == "" {
		return 0, NewEventError("read", c.EventName, ErrEventNotFound, "no event payload in environment")
	}

	payload, err := os.ReadFile(c.EventPath)
	if err != nil {
		return 0, NewEventError("read", c.EventName, err, c.EventPath)
	}
	return ResolveIssueNumber(c.EventName, payload)
}

// ResolveIssueNumber returns the issue or pull request number an event refers to
func ResolveIssueNumber(eventName string, payload []byte) (int, error) {
	if !models.EventType(eventName).HasIssue() {
		return 0, UnsupportedEventTypeError(eventName)
	}

	event, err := github.ParseWebHook(eventName, payload)
	if err != nil {
		return 0, ParsingError(eventName, err)
	}

	var number int
	switch e := event.(type) {
	case *github.IssuesEvent:
		number = e.GetIssue().GetNumber()
	case *github.IssueCommentEvent:
		number = e.GetIssue().GetNumber()
	case *github.PullRequestEvent:
		number = e.GetNumber()
		if number == 0 {
			number = e.GetPullRequest().GetNumber()
		}
	case *github.PullRequestTargetEvent:
		number = e.GetNumber()
		if number == 0 {
			number = e.GetPullRequest().GetNumber()
		}
	case *github.PullRequestReviewEvent:
		number = e.GetPullRequest().GetNumber()
	case *github.PullRequestReviewCommentEvent:
		number = e.GetPullRequest().GetNumber()
	default:
		return 0, UnsupportedEventTypeError(eventName)
	}

	if number == 0 {
		return 0, MissingIssueError(eventName)
	}

	log.Debugf("Resolved #%d from %s event", number, eventName)
	return number, nil
}

// String implements fmt.Stringer
func (c Context) String() string {
	return fmt.Sprintf("%s event for %s", c.EventName, c.Repository)
}
