package intent

import (
	"regexp"
	"strconv"
	"strings"
)

// Sentiment is the keyword-count sentiment of a message.
type Sentiment string

const (
	Positive Sentiment = "positive"
	Negative Sentiment = "negative"
	Neutral  Sentiment = "neutral"
)

var (
	statusURLRE     = regexp.MustCompile(`https?://(?:www\.)?(?:twitter\.com|x\.com)/\w+/status/(\d+)`)
	bareTweetIDRE   = regexp.MustCompile(`(\d{19,})`)
	mentionNumberRE = regexp.MustCompile(`(?i)mention #?(\d+)`)

	topics        = []string{"onchainhyperfoxes", "fox", "hyperliquid", "nft", "crypto", "blockchain", "defi", "evm"}
	positiveWords = []string{"good", "great", "awesome", "love", "like", "excellent", "amazing"}
	negativeWords = []string{"bad", "terrible", "hate", "dislike", "awful", "horrible"}

	nftPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)onchainhyperfoxes`),
		regexp.MustCompile(`(?i)fox`),
		regexp.MustCompile(`(?i)hyperliquid`),
		regexp.MustCompile(`(?i)nft`),
		regexp.MustCompile(`(?i)collection`),
		regexp.MustCompile(`(?i)floor`),
		regexp.MustCompile(`(?i)mint`),
	}
)

// ExtractTweetID finds a tweet ID, preferring an explicit status URL over a
// bare run of 19 or more digits.
func ExtractTweetID(message string) (string, bool) {
	if m := statusURLRE.FindStringSubmatch(message); m != nil {
		return m[1], true
	}
	if m := bareTweetIDRE.FindStringSubmatch(message); m != nil {
		return m[1], true
	}
	return "", false
}

// MentionNumber parses a 1-based "mention #N" reference.
func MentionNumber(message string) (int, bool) {
	m := mentionNumberRE.FindStringSubmatch(message)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// ExtractTopic returns the first vocabulary keyword present in the message,
// or "general".
func ExtractTopic(message string) string {
	lower := strings.ToLower(message)
	for _, topic := range topics {
		if strings.Contains(lower, topic) {
			return topic
		}
	}
	return "general"
}

// AnalyzeSentiment counts positive and negative keyword hits; ties are
// neutral.
func AnalyzeSentiment(message string) Sentiment {
	lower := strings.ToLower(message)
	positives := 0
	for _, w := range positiveWords {
		if strings.Contains(lower, w) {
			positives++
		}
	}
	negatives := 0
	for _, w := range negativeWords {
		if strings.Contains(lower, w) {
			negatives++
		}
	}
	switch {
	case positives > negatives:
		return Positive
	case negatives > positives:
		return Negative
	default:
		return Neutral
	}
}

// ExtractNFTMentions collects all matches of the fixed pattern list,
// de-duplicated case-insensitively in first-occurrence order.
func ExtractNFTMentions(message string) []string {
	seen := make(map[string]bool)
	var mentions []string
	for _, re := range nftPatterns {
		for _, m := range re.FindAllString(message, -1) {
			key := strings.ToLower(m)
			if seen[key] {
				continue
			}
			seen[key] = true
			mentions = append(mentions, m)
		}
	}
	return mentions
}

// MaxAutoReplies is 5 when the request spells out the digit 5, otherwise 3.
func MaxAutoReplies(message string) int {
	if strings.Contains(message, "5") {
		return 5
	}
	return 3
}
