package omnicomment

import (
	"context"

	"github.com/qiniu/omni-comment/internal/comment"
	"github.com/qiniu/omni-comment/internal/config"
	"github.com/qiniu/omni-comment/internal/document"
	"github.com/qiniu/omni-comment/internal/github"
	"github.com/qiniu/omni-comment/internal/lock"
)

// Options describes one section write
type Options struct {
	IssueNumber int
	// Repo is "owner/name", a clone URL is accepted too
	Repo    string
	Section string
	Token   string
	// Collapsed renders the titled section closed
	Collapsed bool
	// ConfigPath is the metadata file used to lay out a new comment.
	// Defaults to config.DefaultMetadataPath.
	ConfigPath string
	Message    string
	Title      string
}

func (o *Options) validate() error {
	switch {
	case o.IssueNumber <= 0:
		return ErrIssueNumberRequired
	case o.Repo == "":
		return ErrRepoRequired
	case o.Section == "":
		return ErrSectionRequired
	case o.Token == "":
		return ErrTokenRequired
	}
	return nil
}

func (o *Options) configPath() string {
	if o.ConfigPath == "" {
		return config.DefaultMetadataPath
	}
	return o.ConfigPath
}

func (o *Options) write() document.Write {
	return document.Write{
		Section:   o.Section,
		Content:   o.Message,
		Title:     o.Title,
		Collapsed: o.Collapsed,
	}
}

// API is everything a Commenter needs from GitHub
type API interface {
	comment.CommentClient
	lock.ReactionClient
}

// ClientFactory turns a token into a GitHub API
type ClientFactory func(ctx context.Context, token string) (API, error)

// Option configures a Commenter
type Option func(*Commenter)

// WithClientFactory replaces how the GitHub API is built from a token
func WithClientFactory(factory ClientFactory) Option {
	return func(c *Commenter) {
		if factory != nil {
			c.newClient = factory
		}
	}
}

// WithLockOptions passes options to the reaction mutex
func WithLockOptions(opts ...lock.Option) Option {
	return func(c *Commenter) {
		c.lockOpts = append(c.lockOpts, opts...)
	}
}

// WithCodec selects the marker namespace of managed comments
func WithCodec(codec *document.Codec) Option {
	return func(c *Commenter) {
		if codec != nil {
			c.codec = codec
		}
	}
}

// WithConfig applies runtime settings: GitHub endpoint and rate monitoring for
// the default client factory, and the lock tuning.
func WithConfig(cfg *config.Config) Option {
	return func(c *Commenter) {
		if cfg == nil {
			return
		}
		c.githubCfg = &cfg.GitHub
		c.lockOpts = append(c.lockOpts, lock.WithConfig(cfg.Lock))
	}
}

func (c *Commenter) tokenClient(ctx context.Context, token string) (API, error) {
	return github.NewTokenClient(ctx, token, c.githubCfg)
}
