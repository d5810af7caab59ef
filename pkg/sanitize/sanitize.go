// Package sanitize enforces the public-posting format contract: no markdown
// decorations, no hashtags, no emoji, no leading filler phrases, and a hard
// 280 character cap.
package sanitize

import (
	"regexp"
	"strings"
)

// Limit is the maximum length of an emitted post, in runes.
const Limit = 280

var (
	prefixRE    = regexp.MustCompile(`(?i)^(here's|here is|i'll post|posting|tweet:?|content:?|reply:?)\s*`)
	greetingRE  = regexp.MustCompile(`(?i)^(gm|good morning|hello|hey)\s+`)
	boldRE      = regexp.MustCompile(`\*+`)
	bracketRE   = regexp.MustCompile(`[\[\]()]`)
	separatorRE = regexp.MustCompile(`-{3,}`)
	hashtagRE   = regexp.MustCompile(`#\w+`)
	emojiRE     = regexp.MustCompile(`[\x{1F300}-\x{1FAFF}]`)
	spaceRE     = regexp.MustCompile(`\s+`)
	quoteRE     = regexp.MustCompile(`^["']|["']$`)

	// Lines carrying post-confirmation boilerplate are never usable as
	// fallback content.
	excludedFragments = []string{"Posted", "Successfully", "View on X", "Tweet ID"}
)

// ForPost cleans raw model output into text safe to hand to the social
// adapter. It never fails; worst case it returns an empty or truncated
// string. Truncation is rune-index based, not word-boundary aware.
func ForPost(raw string) string {
	text := clean(raw)
	if len([]rune(text)) > Limit {
		if line, ok := fallbackLine(raw); ok {
			text = clean(line)
		}
	}
	return truncate(text)
}

// clean applies the ordered substitution pipeline. The greeting strip runs
// before markdown removal on purpose: a bold "**GM ..." keeps its greeting,
// a bare "GM ..." prefix is filler and drops.
func clean(text string) string {
	text = prefixRE.ReplaceAllString(text, "")
	text = greetingRE.ReplaceAllString(text, "")
	text = boldRE.ReplaceAllString(text, "")
	text = bracketRE.ReplaceAllString(text, "")
	text = separatorRE.ReplaceAllString(text, " ")
	text = hashtagRE.ReplaceAllString(text, "")
	text = emojiRE.ReplaceAllString(text, "")
	text = spaceRE.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)
	text = quoteRE.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// fallbackLine scans the original text line by line for the first line that
// looks like usable post content: it mentions someone, carries a hashtag, or
// simply fits the character limit without confirmation boilerplate.
func fallbackLine(raw string) (string, bool) {
	for _, line := range strings.Split(raw, "\n") {
		candidate := strings.TrimSpace(bracketRE.ReplaceAllString(boldRE.ReplaceAllString(line, ""), ""))
		if candidate == "" {
			continue
		}
		if strings.Contains(candidate, "@") || strings.Contains(candidate, "#") {
			return line, true
		}
		if len([]rune(candidate)) <= Limit && !containsExcluded(candidate) {
			return line, true
		}
	}
	return "", false
}

func containsExcluded(line string) bool {
	for _, fragment := range excludedFragments {
		if strings.Contains(line, fragment) {
			return true
		}
	}
	return false
}

func truncate(text string) string {
	runes := []rune(text)
	if len(runes) <= Limit {
		return text
	}
	return string(runes[:Limit])
}
