// Package omnicomment writes one section of the managed comment of an issue,
// serialised with every other writer by a reaction lock.
package omnicomment

import (
	"context"
	"fmt"

	"github.com/qiniu/omni-comment/internal/comment"
	"github.com/qiniu/omni-comment/internal/config"
	"github.com/qiniu/omni-comment/internal/document"
	"github.com/qiniu/omni-comment/internal/github"
	"github.com/qiniu/omni-comment/internal/lock"
	"github.com/qiniu/omni-comment/pkg/models"

	"github.com/qiniu/x/xlog"
)

// Status tells whether Comment created or updated the managed comment
type Status string

const (
	StatusCreated Status = "created"
	StatusUpdated Status = "updated"
)

// Result identifies the comment written by Comment
type Result struct {
	HTMLURL string `json:"html_url"`
	ID      int64  `json:"id"`
	Status  Status `json:"status"`
}

// Commenter runs section writes
type Commenter struct {
	newClient ClientFactory
	lockOpts  []lock.Option
	codec     *document.Codec
	githubCfg *config.GitHubConfig
}

func New(opts ...Option) *Commenter {
	c := &Commenter{
		codec: document.Default(),
	}
	c.newClient = c.tokenClient
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var defaultCommenter = New()

// Comment writes a section with the default Commenter
func Comment(ctx context.Context, opts Options) (*Result, error) {
	return defaultCommenter.Comment(ctx, opts)
}

// Comment writes opts.Message into opts.Section of the managed comment on the
// issue. When the issue has no managed comment yet, one is created from the
// metadata file, unless the message is empty: then nothing is written and
// Comment returns a nil Result and a nil error.
func (c *Commenter) Comment(ctx context.Context, opts Options) (result *Result, err error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	repo, err := models.ParseRepo(opts.Repo)
	if err != nil {
		return nil, err
	}

	xl := xlog.NewWith(ctx)

	client, err := c.newClient(ctx, opts.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub client: %w", err)
	}
	if rc, ok := client.(*github.Client); ok {
		defer rc.RateLimitMonitor().LogStatistics()
	}

	guard, err := lock.NewMutex(client, repo, c.lockOpts...).Acquire(ctx, opts.IssueNumber)
	if err != nil {
		return nil, err
	}
	defer func() {
		releaseErr := guard.Release(context.WithoutCancel(ctx))
		if releaseErr == nil {
			return
		}
		if err != nil {
			xl.Errorf("%v", releaseErr)
			return
		}
		err = releaseErr
	}()

	return c.write(ctx, client, repo, opts)
}

func (c *Commenter) write(ctx context.Context, client API, repo models.RepoContext, opts Options) (*Result, error) {
	xl := xlog.NewWith(ctx)
	manager := comment.NewManager(client, repo, c.codec)

	existing, err := manager.Find(ctx, opts.IssueNumber)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		updated, err := manager.Update(ctx, existing.GetID(), opts.write())
		if err != nil {
			return nil, err
		}
		return &Result{HTMLURL: updated.GetHTMLURL(), ID: updated.GetID(), Status: StatusUpdated}, nil
	}

	if opts.Message == "" {
		xl.Infof("No managed comment on %s#%d and no message for section %q, nothing to do", repo, opts.IssueNumber, opts.Section)
		return nil, nil
	}

	meta, err := config.LoadMetadata(opts.configPath())
	if err != nil {
		return nil, err
	}

	created, err := manager.Create(ctx, opts.IssueNumber, *meta, opts.write())
	if err != nil {
		return nil, err
	}
	return &Result{HTMLURL: created.GetHTMLURL(), ID: created.GetID(), Status: StatusCreated}, nil
}
