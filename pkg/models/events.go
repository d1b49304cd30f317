package models

// EventType defines GitHub event types
type EventType string

const (
	EventIssueComment             EventType = "issue_comment"
	EventPullRequestReview        EventType = "pull_request_review"
	EventPullRequestReviewComment EventType = "pull_request_review_comment"
	EventIssues                   EventType = "issues"
	EventPullRequest              EventType = "pull_request"
	EventPullRequestTarget        EventType = "pull_request_target"
	EventWorkflowDispatch         EventType = "workflow_dispatch"
	EventSchedule                 EventType = "schedule"
	EventPush                     EventType = "push"
)

// IsValidEventType reports whether eventType is a known GitHub event
func IsValidEventType(eventType string) bool {
	switch EventType(eventType) {
	case EventIssueComment, EventPullRequestReview, EventPullRequestReviewComment,
		EventIssues, EventPullRequest, EventPullRequestTarget,
		EventWorkflowDispatch, EventSchedule, EventPush:
		return true
	default:
		return false
	}
}

// HasIssue reports whether events of this type carry an issue or pull request
func (t EventType) HasIssue() bool {
	switch t {
	case EventIssueComment, EventPullRequestReview, EventPullRequestReviewComment,
		EventIssues, EventPullRequest, EventPullRequestTarget:
		return true
	default:
		return false
	}
}
