package sanitize

import (
	"strings"
	"testing"
)

func TestForPostPinnedExample(t *testing.T) {
	got := ForPost("**GM Fox Fam!** Check #floor now (rare traits).")
	want := "GM Fox Fam! Check now rare traits."
	if got != want {
		t.Fatalf("ForPost pinned example:\n got  %q\n want %q", got, want)
	}
}

func TestForPostLengthInvariant(t *testing.T) {
	inputs := []string{
		"",
		"short",
		strings.Repeat("a", 279),
		strings.Repeat("a", 280),
		strings.Repeat("a", 281),
		strings.Repeat("word ", 200),
		strings.Repeat("🦊", 500),
		"line one\n" + strings.Repeat("x", 400) + "\nline three",
	}
	for _, in := range inputs {
		if got := ForPost(in); len([]rune(got)) > Limit {
			t.Errorf("ForPost(%d chars) produced %d runes, limit %d", len(in), len([]rune(got)), Limit)
		}
	}
}

func TestForPostIdempotent(t *testing.T) {
	inputs := []string{
		"GM Fox Fam! Check now rare traits.",
		"Floor moving, chads accumulating while paper hands fold.",
		"plain ascii text with no markdown at all",
		strings.Repeat("z ", 100),
	}
	for _, in := range inputs {
		once := ForPost(in)
		twice := ForPost(once)
		if once != twice {
			t.Errorf("ForPost not idempotent:\n once  %q\n twice %q", once, twice)
		}
	}
}

func TestForPostStripsDecorations(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"leading phrase", "Here's a fresh take on foxes", "a fresh take on foxes"},
		{"tweet prefix", "Tweet: foxes stay winning", "foxes stay winning"},
		{"bare greeting", "Hey everyone, foxes are great", "everyone, foxes are great"},
		{"hashtags", "alpha incoming #FoxFam #NFTs", "alpha incoming"},
		{"emoji", "foxes 🦊 stay 🚀 winning", "foxes stay winning"},
		{"surrounding quotes", `"quoted post content"`, "quoted post content"},
		{"separator lines", "real content --- trailing section", "real content trailing section"},
		{"newlines", "first line\nsecond line", "first line second line"},
	}
	for _, tc := range cases {
		if got := ForPost(tc.in); got != tc.want {
			t.Errorf("%s: ForPost(%q) = %q, want %q", tc.name, tc.in, got, tc.want)
		}
	}
}

func TestForPostFallbackLine(t *testing.T) {
	long := strings.Repeat("filler Posted Successfully ", 20)
	raw := long + "\n@foxfam floor is moving, rare traits only\n" + long
	got := ForPost(raw)
	if !strings.Contains(got, "floor is moving") {
		t.Fatalf("fallback did not pick the mention line, got %q", got)
	}
	if len([]rune(got)) > Limit {
		t.Fatalf("fallback result over limit: %d runes", len([]rune(got)))
	}
}

func TestForPostHardTruncates(t *testing.T) {
	// A single overlong line with no viable fallback still comes back capped.
	raw := strings.Repeat("Posted Successfully View on X ", 30)
	if got := ForPost(raw); len([]rune(got)) > Limit {
		t.Fatalf("expected hard truncation, got %d runes", len([]rune(got)))
	}
}
