package github

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/qiniu/omni-comment/internal/config"
	"github.com/qiniu/omni-comment/internal/github/auth"

	"github.com/google/go-github/v58/github"
	"github.com/qiniu/x/log"
)

// Client wraps the GitHub REST API calls needed to manage a comment and its lock
type Client struct {
	client  *github.Client
	monitor *RateLimitMonitor
}

// NewClient creates a client on top of an already authenticated HTTP client
func NewClient(httpClient *http.Client, cfg *config.GitHubConfig) (*Client, error) {
	if cfg == nil {
		cfg = &config.Default().GitHub
	}

	client := github.NewClient(httpClient)
	if cfg.BaseURL != "" {
		baseURL := cfg.BaseURL
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		var err error
		client, err = client.WithEnterpriseURLs(baseURL, baseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid GitHub base URL %q: %w", cfg.BaseURL, err)
		}
	}

	return &Client{
		client:  client,
		monitor: NewRateLimitMonitor(&cfg.API),
	}, nil
}

// NewTokenClient creates a client authenticated with a personal access or installation token
func NewTokenClient(ctx context.Context, token string, cfg *config.GitHubConfig) (*Client, error) {
	if token == "" {
		return nil, fmt.Errorf("GitHub token is required")
	}

	httpClient, err := auth.NewPATAuthenticator(token).HTTPClient(ctx)
	if err != nil {
		return nil, err
	}
	return NewClient(httpClient, cfg)
}

// NewClientFromGitHub wraps an existing go-github client
func NewClientFromGitHub(client *github.Client, monitor *RateLimitMonitor) *Client {
	if monitor == nil {
		monitor = NewRateLimitMonitor(&config.GitHubAPIConfig{})
	}
	return &Client{
		client:  client,
		monitor: monitor,
	}
}

// GitHub returns the underlying go-github client
func (c *Client) GitHub() *github.Client {
	return c.client
}

func (c *Client) RateLimitMonitor() *RateLimitMonitor {
	return c.monitor
}

// ListIssueComments returns every comment on an issue in listing order, following pagination
func (c *Client) ListIssueComments(ctx context.Context, owner, repo string, number int) ([]*github.IssueComment, error) {
	opts := &github.IssueListCommentsOptions{
		ListOptions: github.ListOptions{
			PerPage: 100,
		},
	}

	var allComments []*github.IssueComment
	for {
		comments, resp, err := c.client.Issues.ListComments(ctx, owner, repo, number, opts)
		c.monitor.RecordResponse(resp)
		if err != nil {
			return nil, fmt.Errorf("failed to list comments on #%d: %w", number, err)
		}

		allComments = append(allComments, comments...)

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	log.Debugf("Retrieved %d comments on %s/%s#%d", len(allComments), owner, repo, number)
	return allComments, nil
}

// CreateIssueComment creates a comment on an issue or pull request
func (c *Client) CreateIssueComment(ctx context.Context, owner, repo string, number int, body string) (*github.IssueComment, error) {
	comment, resp, err := c.client.Issues.CreateComment(ctx, owner, repo, number, &github.IssueComment{
		Body: &body,
	})
	c.monitor.RecordResponse(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to create comment on #%d: %w", number, err)
	}
	return comment, nil
}

// GetIssueComment fetches a single issue comment
func (c *Client) GetIssueComment(ctx context.Context, owner, repo string, commentID int64) (*github.IssueComment, error) {
	comment, resp, err := c.client.Issues.GetComment(ctx, owner, repo, commentID)
	c.monitor.RecordResponse(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to get comment %d: %w", commentID, err)
	}
	return comment, nil
}

// EditIssueComment replaces the body of an issue comment
func (c *Client) EditIssueComment(ctx context.Context, owner, repo string, commentID int64, body string) (*github.IssueComment, error) {
	comment, resp, err := c.client.Issues.EditComment(ctx, owner, repo, commentID, &github.IssueComment{
		Body: &body,
	})
	c.monitor.RecordResponse(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to edit comment %d: %w", commentID, err)
	}
	return comment, nil
}

// CreateIssueReaction adds a reaction to an issue. created is true when GitHub answered
// 201 Created, false when the same user had already left that reaction (200 OK).
func (c *Client) CreateIssueReaction(ctx context.Context, owner, repo string, number int, content string) (*github.Reaction, bool, error) {
	reaction, resp, err := c.client.Reactions.CreateIssueReaction(ctx, owner, repo, number, content)
	c.monitor.RecordResponse(resp)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create %q reaction on #%d: %w", content, number, err)
	}
	return reaction, resp != nil && resp.StatusCode == http.StatusCreated, nil
}

// DeleteIssueReaction removes a reaction from an issue
func (c *Client) DeleteIssueReaction(ctx context.Context, owner, repo string, number int, reactionID int64) error {
	resp, err := c.client.Reactions.DeleteIssueReaction(ctx, owner, repo, number, reactionID)
	c.monitor.RecordResponse(resp)
	if err != nil {
		return fmt.Errorf("failed to delete reaction %d on #%d: %w", reactionID, number, err)
	}
	return nil
}
