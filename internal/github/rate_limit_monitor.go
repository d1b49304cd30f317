package github

import (
	"sync"
	"time"

	"github.com/qiniu/omni-comment/internal/config"

	"github.com/google/go-github/v58/github"
	"github.com/qiniu/x/log"
)

// RateLimitMonitor monitors and logs GitHub REST API rate limit usage
type RateLimitMonitor struct {
	config *config.GitHubAPIConfig
	mutex  sync.RWMutex
	limit  RateLimitStatus
	calls  int64
}

// RateLimitStatus represents the current rate limit status
type RateLimitStatus struct {
	Limit     int       `json:"limit"`
	Remaining int       `json:"remaining"`
	ResetAt   time.Time `json:"reset_at"`
	LastCheck time.Time `json:"last_check"`
}

// RateLimitStatistics is a snapshot of the monitor
type RateLimitStatistics struct {
	Calls       int64           `json:"calls"`
	Limit       RateLimitStatus `json:"limit"`
	LastUpdated time.Time       `json:"last_updated"`
}

func NewRateLimitMonitor(config *config.GitHubAPIConfig) *RateLimitMonitor {
	return &RateLimitMonitor{config: config}
}

// RecordResponse records the rate limit headers of a REST response. nil responses are ignored.
func (m *RateLimitMonitor) RecordResponse(resp *github.Response) {
	if m == nil || resp == nil || !m.config.EnableRateMonitoring {
		return
	}
	m.RecordRESTAPICall(resp.Rate.Limit, resp.Rate.Remaining, resp.Rate.Reset.Time)
}

// RecordRESTAPICall records a REST API call and its rate limit info
func (m *RateLimitMonitor) RecordRESTAPICall(limit, remaining int, resetAt time.Time) {
	if !m.config.EnableRateMonitoring {
		return
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.calls++
	if limit == 0 {
		return
	}
	m.limit = RateLimitStatus{
		Limit:     limit,
		Remaining: remaining,
		ResetAt:   resetAt,
		LastCheck: time.Now(),
	}

	m.checkAndWarnRateLimit(remaining, limit)
	log.Debugf("REST API rate limit: %d/%d remaining, resets at %s",
		remaining, limit, resetAt.Format("15:04:05"))
}

func (m *RateLimitMonitor) checkAndWarnRateLimit(remaining, limit int) {
	if remaining > m.config.RateLimitThreshold {
		return
	}

	percentage := float64(remaining) / float64(limit) * 100
	log.Warnf("REST API rate limit warning: %d/%d remaining (%.1f%%), resets at %s",
		remaining, limit, percentage, m.limit.ResetAt.Format("15:04:05"))

	if percentage < 10 {
		log.Errorf("REST API rate limit critically low: %d/%d remaining (%.1f%%)",
			remaining, limit, percentage)
	}
}

// GetStatistics returns current rate limit statistics
func (m *RateLimitMonitor) GetStatistics() RateLimitStatistics {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	return RateLimitStatistics{
		Calls:       m.calls,
		Limit:       m.limit,
		LastUpdated: time.Now(),
	}
}

// LogStatistics logs the number of calls made and the remaining budget
func (m *RateLimitMonitor) LogStatistics() {
	if m == nil || !m.config.EnableRateMonitoring {
		return
	}

	stats := m.GetStatistics()
	if stats.Limit.Limit > 0 {
		log.Debugf("GitHub REST API calls: %d, rate limit %d/%d remaining",
			stats.Calls, stats.Limit.Remaining, stats.Limit.Limit)
		return
	}
	log.Debugf("GitHub REST API calls: %d", stats.Calls)
}

// IsRateLimitCritical reports whether less than 10% of the budget remains
func (m *RateLimitMonitor) IsRateLimitCritical() bool {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	if m.limit.Limit == 0 {
		return false
	}
	return float64(m.limit.Remaining)/float64(m.limit.Limit)*100 < 10
}
