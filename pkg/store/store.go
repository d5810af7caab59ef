// Package store persists the agent's interaction log and scheduled-tweet
// bookkeeping. Interactions are append-only; the log keeps the most recent
// entries and drops the oldest past the retention cap.
package store

import (
	"context"
	"time"
)

// maxInteractions caps the interaction log. Older rows are discarded.
const maxInteractions = 1000

// InteractionContext captures what the classifier saw in one chat turn.
type InteractionContext struct {
	Topic       string   `json:"topic"`
	Sentiment   string   `json:"sentiment"`
	Intent      string   `json:"intent"`
	NFTMentions []string `json:"nft_mentions,omitempty"`
}

// Engagement holds platform metrics backfilled after posting. All zero at
// creation time.
type Engagement struct {
	Likes       int `json:"likes"`
	Retweets    int `json:"retweets"`
	Replies     int `json:"replies"`
	Impressions int `json:"impressions"`
}

// Interaction is one processed chat turn. Records are never mutated after
// they are written.
type Interaction struct {
	ID         string
	UserID     string
	Message    string
	AIResponse string
	Context    InteractionContext
	Engagement Engagement
	CreatedAt  time.Time
}

// GmTweetRecord tracks the last scheduled morning tweet. Date is the
// calendar-day string used for dedup.
type GmTweetRecord struct {
	ID        string
	Date      string
	Timestamp time.Time
	Success   bool
}

// Store is the persistence contract shared by the sqlite and in-memory
// implementations.
type Store interface {
	Initialize(ctx context.Context) error
	RecentInteractions(ctx context.Context, n int) ([]Interaction, error)
	LearnFromInteraction(ctx context.Context, rec Interaction) error
	LastGmTweet(ctx context.Context) (*GmTweetRecord, error)
	StoreGmTweet(ctx context.Context, rec GmTweetRecord) error
	Close() error
}
