// Package comment locates, creates and updates the managed comment of an issue.
package comment

import (
	"context"

	"github.com/qiniu/omni-comment/internal/config"
	"github.com/qiniu/omni-comment/internal/document"
	"github.com/qiniu/omni-comment/pkg/models"

	"github.com/google/go-github/v58/github"
	"github.com/qiniu/x/xlog"
)

// CommentClient is the part of the GitHub API the manager needs
type CommentClient interface {
	// ListIssueComments returns every comment of an issue in listing order
	ListIssueComments(ctx context.Context, owner, repo string, number int) ([]*github.IssueComment, error)
	CreateIssueComment(ctx context.Context, owner, repo string, number int, body string) (*github.IssueComment, error)
	GetIssueComment(ctx context.Context, owner, repo string, commentID int64) (*github.IssueComment, error)
	EditIssueComment(ctx context.Context, owner, repo string, commentID int64, body string) (*github.IssueComment, error)
}

// Manager operates on the managed comments of one repository
type Manager struct {
	client CommentClient
	repo   models.RepoContext
	codec  *document.Codec
}

// NewManager creates a manager. A nil codec selects document.Default().
func NewManager(client CommentClient, repo models.RepoContext, codec *document.Codec) *Manager {
	if codec == nil {
		codec = document.Default()
	}
	return &Manager{
		client: client,
		repo:   repo,
		codec:  codec,
	}
}

// Find returns the first managed comment on the issue, or nil when there is none
func (m *Manager) Find(ctx context.Context, issueNumber int) (*github.IssueComment, error) {
	xl := xlog.NewWith(ctx)

	comments, err := m.client.ListIssueComments(ctx, m.repo.Owner, m.repo.Repo, issueNumber)
	if err != nil {
		return nil, issueError("find", issueNumber, err)
	}

	for _, c := range comments {
		if m.codec.IsManaged(c.GetBody()) {
			xl.Debugf("Found managed comment %d on %s#%d", c.GetID(), m.repo, issueNumber)
			return c, nil
		}
	}

	xl.Debugf("No managed comment among %d comments on %s#%d", len(comments), m.repo, issueNumber)
	return nil, nil
}

// Create posts a new managed comment laid out from meta, with w already written into it
func (m *Manager) Create(ctx context.Context, issueNumber int, meta config.Metadata, w document.Write) (*github.IssueComment, error) {
	xl := xlog.NewWith(ctx)

	body := m.codec.WriteSection(m.codec.RenderBlank(meta), w)
	c, err := m.client.CreateIssueComment(ctx, m.repo.Owner, m.repo.Repo, issueNumber, body)
	if err != nil {
		return nil, issueError("create", issueNumber, err)
	}

	xl.Infof("Created comment %d on %s#%d with section %q", c.GetID(), m.repo, issueNumber, w.Section)
	return c, nil
}

// Update rewrites one section of an existing managed comment
func (m *Manager) Update(ctx context.Context, commentID int64, w document.Write) (*github.IssueComment, error) {
	xl := xlog.NewWith(ctx)

	current, err := m.client.GetIssueComment(ctx, m.repo.Owner, m.repo.Repo, commentID)
	if err != nil {
		return nil, commentError("update", commentID, err)
	}

	body := current.GetBody()
	if body == "" {
		return nil, commentError("update", commentID, ErrEmptyCommentBody)
	}

	c, err := m.client.EditIssueComment(ctx, m.repo.Owner, m.repo.Repo, commentID, m.codec.WriteSection(body, w))
	if err != nil {
		return nil, commentError("update", commentID, err)
	}

	xl.Infof("Updated section %q of comment %d", w.Section, commentID)
	return c, nil
}
