// Package access gates the agent's outward actions behind access codes with
// capability tables and daily caps. The manager is constructed once per
// process and injected wherever it is needed; there is no package-level
// state.
package access

import (
	"fmt"
	"sync"
	"time"
)

// Action names the gated operations.
const (
	ActionPostTweet    = "postTweet"
	ActionReplyToTweet = "replyToTweet"
)

// Code is an access code with its capability table.
type Code struct {
	Code             string
	Level            string
	Description      string
	CanPostTweets    bool
	CanReplyTweets   bool
	MaxTweetsPerDay  int
	MaxRepliesPerDay int
}

// Decision is the outcome of a permission check.
type Decision struct {
	Allowed bool
	Message string
}

// UsageStats reports today's recorded actions.
type UsageStats struct {
	TweetsToday  int
	RepliesToday int
	LastActivity time.Time
}

// Manager tracks the active code, admin bypass, and per-day usage counters.
type Manager struct {
	mu          sync.Mutex
	now         func() time.Time
	codes       map[string]Code
	current     Code
	adminBypass bool

	usageDay     string
	tweetsToday  int
	repliesToday int
	lastActivity time.Time
}

// OpenAccessCode is the always-allowed code the agent ships with.
const OpenAccessCode = "FOXY_ACTIVE"

func defaultCodes() map[string]Code {
	return map[string]Code{
		OpenAccessCode: {
			Code:             OpenAccessCode,
			Level:            "premium",
			Description:      "Foxy AI Agent - Full Access",
			CanPostTweets:    true,
			CanReplyTweets:   true,
			MaxTweetsPerDay:  999,
			MaxRepliesPerDay: 999,
		},
		"FOXY_GUEST": {
			Code:             "FOXY_GUEST",
			Level:            "basic",
			Description:      "Foxy AI Agent - Read Only",
			CanPostTweets:    false,
			CanReplyTweets:   false,
			MaxTweetsPerDay:  0,
			MaxRepliesPerDay: 0,
		},
	}
}

// NewManager builds a manager with the built-in code table. The clock is
// injectable for tests.
func NewManager(now func() time.Time) *Manager {
	if now == nil {
		now = time.Now
	}
	codes := defaultCodes()
	return &Manager{
		now:     now,
		codes:   codes,
		current: codes[OpenAccessCode],
	}
}

// SetCode activates a known access code. Unknown codes are rejected and
// leave the current code unchanged.
func (m *Manager) SetCode(code string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.codes[code]
	if !ok {
		return false
	}
	m.current = c
	return true
}

// Current returns the active code.
func (m *Manager) Current() Code {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// EnableAdminBypass lifts all restrictions, used by scheduled jobs.
func (m *Manager) EnableAdminBypass() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.adminBypass = true
}

// DisableAdminBypass restores normal gating.
func (m *Manager) DisableAdminBypass() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.adminBypass = false
}

// CanPerformAction checks the active code's capabilities and daily caps.
func (m *Manager) CanPerformAction(action string) Decision {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rollDayLocked()

	if m.adminBypass {
		return Decision{Allowed: true, Message: "Foxy is ready!"}
	}

	switch action {
	case ActionPostTweet:
		if !m.current.CanPostTweets {
			return Decision{Message: fmt.Sprintf("🔒 Posting is not enabled for access level %q. Ask for an upgraded access code to post tweets.", m.current.Level)}
		}
		if m.tweetsToday >= m.current.MaxTweetsPerDay {
			return Decision{Message: fmt.Sprintf("🔒 Daily tweet limit reached (%d). Try again tomorrow.", m.current.MaxTweetsPerDay)}
		}
	case ActionReplyToTweet:
		if !m.current.CanReplyTweets {
			return Decision{Message: fmt.Sprintf("🔒 Replying is not enabled for access level %q.", m.current.Level)}
		}
		if m.repliesToday >= m.current.MaxRepliesPerDay {
			return Decision{Message: fmt.Sprintf("🔒 Daily reply limit reached (%d). Try again tomorrow.", m.current.MaxRepliesPerDay)}
		}
	default:
		return Decision{Message: fmt.Sprintf("🔒 Unknown action %q.", action)}
	}
	return Decision{Allowed: true, Message: "Foxy is ready!"}
}

// RecordAction counts a performed action against today's caps.
func (m *Manager) RecordAction(action string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rollDayLocked()
	switch action {
	case ActionPostTweet:
		m.tweetsToday++
	case ActionReplyToTweet:
		m.repliesToday++
	}
	m.lastActivity = m.now()
}

// UsageStats returns today's counters.
func (m *Manager) UsageStats() UsageStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rollDayLocked()
	return UsageStats{
		TweetsToday:  m.tweetsToday,
		RepliesToday: m.repliesToday,
		LastActivity: m.lastActivity,
	}
}

func (m *Manager) rollDayLocked() {
	day := m.now().Format("2006-01-02")
	if day != m.usageDay {
		m.usageDay = day
		m.tweetsToday = 0
		m.repliesToday = 0
	}
}
