package social

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ryjin111/foxAI/pkg/httputil"
)

const defaultBaseURL = "https://api.twitter.com"

// HTTPClient talks to the platform's v2 API with bearer-token auth.
type HTTPClient struct {
	baseURL string
	bearer  string
	timeout time.Duration
	log     zerolog.Logger
}

// NewHTTPClient builds a real platform client.
func NewHTTPClient(baseURL, bearerToken string, log zerolog.Logger) *HTTPClient {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &HTTPClient{
		baseURL: baseURL,
		bearer:  bearerToken,
		timeout: 15 * time.Second,
		log:     log.With().Str("component", "social").Logger(),
	}
}

func (c *HTTPClient) headers() map[string]string {
	return map[string]string{"Authorization": "Bearer " + c.bearer}
}

type tweetResponse struct {
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

// PostTweet publishes text as a new post.
func (c *HTTPClient) PostTweet(ctx context.Context, text string) PostResult {
	payload := map[string]any{"text": text}
	body, _, err := httputil.PostJSON(ctx, c.baseURL+"/2/tweets", c.headers(), payload, c.timeout)
	if err != nil {
		return PostResult{Err: fmt.Errorf("posting tweet: %w", err)}
	}
	var resp tweetResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return PostResult{Err: fmt.Errorf("decoding tweet response: %w", err)}
	}
	c.log.Info().Str("tweet_id", resp.Data.ID).Msg("tweet posted")
	return PostResult{OK: true, TweetID: resp.Data.ID}
}

// ReplyToTweet publishes text as a reply to tweetID.
func (c *HTTPClient) ReplyToTweet(ctx context.Context, tweetID, text string) PostResult {
	payload := map[string]any{
		"text":  text,
		"reply": map[string]string{"in_reply_to_tweet_id": tweetID},
	}
	body, _, err := httputil.PostJSON(ctx, c.baseURL+"/2/tweets", c.headers(), payload, c.timeout)
	if err != nil {
		return PostResult{Err: fmt.Errorf("replying to %s: %w", tweetID, err)}
	}
	var resp tweetResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return PostResult{Err: fmt.Errorf("decoding reply response: %w", err)}
	}
	c.log.Info().Str("tweet_id", resp.Data.ID).Str("in_reply_to", tweetID).Msg("reply posted")
	return PostResult{OK: true, TweetID: resp.Data.ID}
}

type mentionsResponse struct {
	Data []Mention `json:"data"`
}

// GetMentions fetches recent mentions of the agent's account, newest first.
func (c *HTTPClient) GetMentions(ctx context.Context) MentionsResult {
	body, _, err := httputil.GetJSON(ctx, c.baseURL+"/2/users/me/mentions", c.headers(), c.timeout)
	if err != nil {
		return MentionsResult{Err: fmt.Errorf("fetching mentions: %w", err)}
	}
	var resp mentionsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return MentionsResult{Err: fmt.Errorf("decoding mentions: %w", err)}
	}
	return MentionsResult{OK: true, Mentions: resp.Data}
}
