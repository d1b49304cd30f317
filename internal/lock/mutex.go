// Package lock implements an advisory mutex on top of an issue reaction.
//
// Creating a reaction the user already left answers 200 instead of 201, which
// makes reaction creation a test-and-set shared by every job running with the
// same credentials. The lock has no expiry: a job that dies while holding it
// leaves the reaction behind until a contender gives up and deletes it.
package lock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/qiniu/omni-comment/internal/config"
	"github.com/qiniu/omni-comment/pkg/models"

	"github.com/google/go-github/v58/github"
	"github.com/qiniu/x/xlog"
)

// ReactionClient is the part of the GitHub API the mutex needs
type ReactionClient interface {
	// CreateIssueReaction reports created=true only when the reaction did not exist yet
	CreateIssueReaction(ctx context.Context, owner, repo string, number int, content string) (*github.Reaction, bool, error)
	DeleteIssueReaction(ctx context.Context, owner, repo string, number int, reactionID int64) error
}

// Mutex serialises writers of one repository's issues
type Mutex struct {
	client ReactionClient
	repo   models.RepoContext

	maxAttempts int
	delay       time.Duration
	reaction    string
	sleep       func(ctx context.Context, d time.Duration) error
}

func NewMutex(client ReactionClient, repo models.RepoContext, opts ...Option) *Mutex {
	m := &Mutex{
		client:      client,
		repo:        repo,
		maxAttempts: config.DefaultLockMaxAttempts,
		delay:       config.DefaultLockDelay,
		reaction:    config.DefaultLockReaction,
		sleep:       sleepContext,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Acquire takes the lock on issueNumber. It makes up to maxAttempts attempts with
// a fixed delay between them. When the last attempt finds a reaction already in
// place, that reaction is deleted before giving up so the next run can proceed.
func (m *Mutex) Acquire(ctx context.Context, issueNumber int) (*Guard, error) {
	xl := xlog.NewWith(ctx)

	var lastErr error
	for attempt := 1; attempt <= m.maxAttempts; attempt++ {
		reaction, created, err := m.client.CreateIssueReaction(ctx, m.repo.Owner, m.repo.Repo, issueNumber, m.reaction)
		switch {
		case err != nil:
			lastErr = err
			xl.Warnf("Lock attempt %d/%d on %s#%d failed: %v", attempt, m.maxAttempts, m.repo, issueNumber, err)
		case created:
			xl.Debugf("Acquired lock on %s#%d (reaction %d)", m.repo, issueNumber, reaction.GetID())
			return &Guard{
				client:      m.client,
				repo:        m.repo,
				issueNumber: issueNumber,
				reactionID:  reaction.GetID(),
			}, nil
		default:
			lastErr = nil
			xl.Debugf("Lock on %s#%d is held, attempt %d/%d", m.repo, issueNumber, attempt, m.maxAttempts)
		}

		if attempt == m.maxAttempts {
			if err == nil && reaction != nil {
				m.breakStale(ctx, issueNumber, reaction.GetID())
			}
			break
		}

		if err := m.sleep(ctx, m.delay); err != nil {
			return nil, fmt.Errorf("waiting for lock on %s#%d: %w", m.repo, issueNumber, err)
		}
	}

	if lastErr != nil {
		return nil, fmt.Errorf("%w on %s#%d after %d attempts: %w", ErrLockNotAcquired, m.repo, issueNumber, m.maxAttempts, lastErr)
	}
	return nil, fmt.Errorf("%w on %s#%d after %d attempts", ErrLockNotAcquired, m.repo, issueNumber, m.maxAttempts)
}

func (m *Mutex) breakStale(ctx context.Context, issueNumber int, reactionID int64) {
	xl := xlog.NewWith(ctx)
	if err := m.client.DeleteIssueReaction(ctx, m.repo.Owner, m.repo.Repo, issueNumber, reactionID); err != nil {
		xl.Warnf("Failed to remove stale lock reaction %d on %s#%d: %v", reactionID, m.repo, issueNumber, err)
		return
	}
	xl.Infof("Removed stale lock reaction %d on %s#%d", reactionID, m.repo, issueNumber)
}

// Guard is a held lock
type Guard struct {
	client      ReactionClient
	repo        models.RepoContext
	issueNumber int
	reactionID  int64

	once sync.Once
	err  error
}

// ReactionID is the id of the reaction backing the lock
func (g *Guard) ReactionID() int64 {
	if g == nil {
		return 0
	}
	return g.reactionID
}

// Release deletes the lock reaction. Only the first call does any work.
func (g *Guard) Release(ctx context.Context) error {
	if g == nil {
		return nil
	}
	g.once.Do(func() {
		if err := g.client.DeleteIssueReaction(ctx, g.repo.Owner, g.repo.Repo, g.issueNumber, g.reactionID); err != nil {
			g.err = fmt.Errorf("failed to release lock on %s#%d: %w", g.repo, g.issueNumber, err)
			return
		}
		xlog.NewWith(ctx).Debugf("Released lock on %s#%d", g.repo, g.issueNumber)
	})
	return g.err
}
