// Package intent maps free-text chat messages onto the agent's fixed intent
// set and pulls out the entities the dispatcher needs. Matching is ordered
// keyword containment; the rule order is the behavior.
package intent

import "strings"

// Intent is the classified purpose of a user message.
type Intent string

const (
	PostTweet      Intent = "post_tweet"
	ReplyToTweet   Intent = "reply_to_tweet"
	ReplyToMention Intent = "reply_to_mention"
	GetData        Intent = "get_data"
	Greeting       Intent = "greeting"
	ShareTweet     Intent = "share_tweet"
	Conversation   Intent = "conversation"
)

// Classify returns exactly one intent for any input. First matching rule
// wins; there is no scoring.
func Classify(message string) Intent {
	lower := strings.ToLower(message)

	switch {
	case strings.Contains(lower, "post") && strings.Contains(lower, "tweet"):
		return PostTweet
	case strings.Contains(lower, "reply") || strings.Contains(lower, "respond to"):
		return ReplyToTweet
	case strings.Contains(lower, "mention"):
		return ReplyToMention
	case strings.Contains(lower, "data") || strings.Contains(lower, "get"):
		return GetData
	case strings.Contains(lower, "hello") || strings.Contains(lower, "hi"):
		return Greeting
	}

	if strings.Contains(message, "twitter.com/") || strings.Contains(message, "x.com/") {
		if strings.Contains(lower, "reply") || strings.Contains(lower, "respond") {
			return ReplyToTweet
		}
		return ShareTweet
	}

	return Conversation
}
