package social

import (
	"context"

	"github.com/rs/xid"
	"github.com/rs/zerolog"
)

// MockClient stands in for the platform API when no credentials are
// configured. Posts succeed with fabricated IDs and mentions come from a
// small canned set, newest first.
type MockClient struct {
	log zerolog.Logger
}

func NewMockClient(log zerolog.Logger) *MockClient {
	return &MockClient{log: log.With().Str("component", "social-mock").Logger()}
}

func (m *MockClient) PostTweet(ctx context.Context, text string) PostResult {
	id := xid.New().String()
	m.log.Info().Str("tweet_id", id).Str("text", text).Msg("mock tweet posted")
	return PostResult{OK: true, TweetID: id}
}

func (m *MockClient) ReplyToTweet(ctx context.Context, tweetID, text string) PostResult {
	id := xid.New().String()
	m.log.Info().Str("tweet_id", id).Str("in_reply_to", tweetID).Str("text", text).Msg("mock reply posted")
	return PostResult{OK: true, TweetID: id}
}

func (m *MockClient) GetMentions(ctx context.Context) MentionsResult {
	return MentionsResult{OK: true, Mentions: []Mention{
		{ID: "1879200000000000103", AuthorID: "4201", Text: "@OnChainFoxes what's the floor price looking like?"},
		{ID: "1879200000000000102", AuthorID: "4202", Text: "@OnChainFoxes love the new traits drop 🦊"},
		{ID: "1879200000000000101", AuthorID: "4203", Text: "@OnChainFoxes gm! when mint?"},
	}}
}

var (
	_ Client = (*MockClient)(nil)
	_ Client = (*HTTPClient)(nil)
)
