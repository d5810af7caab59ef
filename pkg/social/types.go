// Package social is the thin adapter over the platform's post/reply/mentions
// API. Adapter results are tagged rather than duck-typed: callers branch on
// OK and read either the value or the error, never both.
package social

import "context"

// Mention is a post referencing the agent's account. Read-only.
type Mention struct {
	ID       string `json:"id"`
	AuthorID string `json:"author_id"`
	Text     string `json:"text"`
}

// PostResult is the outcome of a post or reply attempt.
type PostResult struct {
	OK      bool
	TweetID string
	Err     error
}

// MentionsResult is the outcome of a mentions fetch. Mentions are ordered
// newest first.
type MentionsResult struct {
	OK       bool
	Mentions []Mention
	Err      error
}

// Client is the platform contract the dispatcher sequences against.
type Client interface {
	PostTweet(ctx context.Context, text string) PostResult
	ReplyToTweet(ctx context.Context, tweetID, text string) PostResult
	GetMentions(ctx context.Context) MentionsResult
}
