package store

import (
	"context"
	"sync"
)

// Memory is the in-process store used when no database path is configured
// and in tests.
type Memory struct {
	mu           sync.Mutex
	interactions []Interaction
	lastGm       *GmTweetRecord
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Initialize(ctx context.Context) error {
	return nil
}

// RecentInteractions returns up to n interactions, newest first.
func (m *Memory) RecentInteractions(ctx context.Context, n int) ([]Interaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n > len(m.interactions) {
		n = len(m.interactions)
	}
	out := make([]Interaction, 0, n)
	for i := len(m.interactions) - 1; i >= len(m.interactions)-n; i-- {
		out = append(out, m.interactions[i])
	}
	return out, nil
}

func (m *Memory) LearnFromInteraction(ctx context.Context, rec Interaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.interactions = append(m.interactions, rec)
	if len(m.interactions) > maxInteractions {
		m.interactions = m.interactions[len(m.interactions)-maxInteractions:]
	}
	return nil
}

func (m *Memory) LastGmTweet(ctx context.Context) (*GmTweetRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.lastGm == nil {
		return nil, nil
	}
	rec := *m.lastGm
	return &rec, nil
}

func (m *Memory) StoreGmTweet(ctx context.Context, rec GmTweetRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastGm = &rec
	return nil
}

func (m *Memory) Close() error {
	return nil
}

var _ Store = (*Memory)(nil)
