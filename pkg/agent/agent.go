// Package agent sequences one chat turn: classify the message, talk to the
// LLM, run the requested social actions, append market data, and log the
// interaction.
package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/xid"
	"github.com/rs/zerolog"

	"github.com/ryjin111/foxAI/pkg/access"
	"github.com/ryjin111/foxAI/pkg/intent"
	"github.com/ryjin111/foxAI/pkg/llm"
	"github.com/ryjin111/foxAI/pkg/market"
	"github.com/ryjin111/foxAI/pkg/personality"
	"github.com/ryjin111/foxAI/pkg/sanitize"
	"github.com/ryjin111/foxAI/pkg/social"
	"github.com/ryjin111/foxAI/pkg/store"
)

var (
	ErrNoMessages      = errors.New("agent: messages array is empty")
	ErrLLMUnconfigured = errors.New("agent: DEEPSEEK_API_KEY not configured")
)

// ChatClient is the LLM surface the orchestrator needs.
type ChatClient interface {
	Configured() bool
	Chat(ctx context.Context, msgs []llm.Message) (string, error)
}

// HyperliquidData serves collection and exchange snapshots.
type HyperliquidData interface {
	FoxCollectionData(ctx context.Context) market.FoxCollection
	MarketAnalytics(ctx context.Context) market.MarketAnalytics
	EcosystemProjects(ctx context.Context) market.Ecosystem
}

// CoinGeckoData serves coin and NFT market snapshots.
type CoinGeckoData interface {
	PriceData(ctx context.Context) market.PriceData
	TrendingCoins(ctx context.Context) market.Trending
	NFTCollections(ctx context.Context) market.NFTCollections
}

// Request is one incoming chat turn.
type Request struct {
	Messages   []llm.Message `json:"messages"`
	AccessCode string        `json:"accessCode,omitempty"`
}

// Response is the assembled reply for one turn.
type Response struct {
	Content string
}

// Deps are the orchestrator's collaborators, injected at construction.
type Deps struct {
	LLM         ChatClient
	Social      social.Client
	Hyperliquid HyperliquidData
	CoinGecko   CoinGeckoData
	Access      *access.Manager
	Store       store.Store
	Persona     *personality.Persona
	Log         zerolog.Logger
	Now         func() time.Time
	Sleep       func(time.Duration)
	ReplyDelay  time.Duration
}

// Orchestrator runs the per-turn dispatch flow.
type Orchestrator struct {
	deps Deps
	log  zerolog.Logger
}

func New(deps Deps) *Orchestrator {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Sleep == nil {
		deps.Sleep = time.Sleep
	}
	return &Orchestrator{
		deps: deps,
		log:  deps.Log.With().Str("component", "agent").Logger(),
	}
}

// Process handles one chat turn end to end. Collaborator failures degrade
// into the reply text; only missing input or a missing API key are errors.
func (o *Orchestrator) Process(ctx context.Context, req Request) (Response, error) {
	if req.AccessCode != "" {
		ok := o.deps.Access.SetCode(req.AccessCode)
		o.log.Info().Str("code", req.AccessCode).Bool("accepted", ok).Msg("access code set")
	}
	if len(req.Messages) == 0 {
		return Response{}, ErrNoMessages
	}
	if !o.deps.LLM.Configured() {
		return Response{}, ErrLLMUnconfigured
	}

	userMessage := strings.ToLower(req.Messages[len(req.Messages)-1].Content)

	llmReply, err := o.deps.LLM.Chat(ctx, o.buildMessages(ctx, req.Messages))
	if err != nil {
		o.log.Error().Err(err).Msg("chat completion failed")
		content := "Error: " + err.Error()
		o.logInteraction(ctx, userMessage, content)
		return Response{Content: content}, nil
	}

	var additionalData, toolResults strings.Builder

	if strings.Contains(userMessage, "post") && strings.Contains(userMessage, "tweet") {
		o.handlePost(ctx, llmReply, &toolResults)
	}
	tweetID, hasTweetID := intent.ExtractTweetID(userMessage)
	if containsAny(userMessage, "check replies", "check responses", "see replies") {
		o.handleCheckReplies(ctx, &toolResults)
	}
	if containsAny(userMessage, "auto reply", "reply to first", "reply to all") {
		o.handleAutoReply(ctx, userMessage, &toolResults)
	}
	if strings.Contains(userMessage, "reply") || strings.Contains(userMessage, "respond to") {
		o.handleReply(ctx, userMessage, tweetID, llmReply, &toolResults)
	}
	if hasTweetID && !strings.Contains(userMessage, "reply") && !strings.Contains(userMessage, "respond to") {
		toolResults.WriteString("\n\n🔗 **I detected a tweet link in your message!**\n\nWant me to reply to this tweet? Just say \"reply to this tweet\" or \"respond to this tweet\" and I'll post a reply! 🚀")
	}

	o.appendMarketData(ctx, userMessage, &additionalData)

	content := llmReply + additionalData.String() + toolResults.String()
	o.logInteraction(ctx, userMessage, content)
	return Response{Content: content}, nil
}

// buildMessages prepends the persona system prompt and short-term memory of
// recent turns to the caller's conversation.
func (o *Orchestrator) buildMessages(ctx context.Context, msgs []llm.Message) []llm.Message {
	out := []llm.Message{llm.SystemMessage(o.deps.Persona.SystemPrompt())}
	recent, err := o.deps.Store.RecentInteractions(ctx, 3)
	if err != nil {
		o.log.Warn().Err(err).Msg("loading recent interactions failed")
	}
	for _, rec := range recent {
		out = append(out, llm.SystemMessage(fmt.Sprintf(
			"Previous interaction: User asked %q and I responded about %q", rec.Message, rec.Context.Topic)))
	}
	return append(out, msgs...)
}

func (o *Orchestrator) handlePost(ctx context.Context, llmReply string, toolResults *strings.Builder) {
	decision := o.deps.Access.CanPerformAction(access.ActionPostTweet)
	if !decision.Allowed {
		toolResults.WriteString("\n\n" + decision.Message)
		return
	}
	content := sanitize.ForPost(llmReply)
	if content == "" {
		return
	}
	result := o.deps.Social.PostTweet(ctx, content)
	if !result.OK {
		fmt.Fprintf(toolResults, "\n\n❌ **Failed to post tweet:** %v", result.Err)
		return
	}
	o.deps.Access.RecordAction(access.ActionPostTweet)
	fmt.Fprintf(toolResults, "\n\n✅ **Tweet Posted Successfully!**\nTweet ID: %s\nView: https://x.com/%s/status/%s",
		result.TweetID, o.deps.Persona.Account, result.TweetID)
}

func (o *Orchestrator) handleCheckReplies(ctx context.Context, toolResults *strings.Builder) {
	mentions := o.deps.Social.GetMentions(ctx)
	if !mentions.OK || len(mentions.Mentions) == 0 {
		toolResults.WriteString("\n\n📱 **No recent mentions found.**")
		return
	}
	recent := mentions.Mentions
	if len(recent) > 5 {
		recent = recent[:5]
	}
	toolResults.WriteString("\n\n📱 **Recent Mentions/Replies:**\n")
	for i, mention := range recent {
		fmt.Fprintf(toolResults, "\n%d. **@%s**: %q\n   [View Tweet](https://x.com/%s/status/%s)",
			i+1, mention.AuthorID, snippet(mention.Text, 50), o.deps.Persona.Account, mention.ID)
	}
	toolResults.WriteString("\n\n💡 **Want me to reply to any of these?** Just say \"reply to mention #1\" or \"respond to the first mention\"")
}

func (o *Orchestrator) handleAutoReply(ctx context.Context, userMessage string, toolResults *strings.Builder) {
	mentions := o.deps.Social.GetMentions(ctx)
	if !mentions.OK || len(mentions.Mentions) == 0 {
		toolResults.WriteString("\n\n📱 **No mentions found to reply to.**")
		return
	}
	max := intent.MaxAutoReplies(userMessage)
	targets := mentions.Mentions
	if len(targets) > max {
		targets = targets[:max]
	}
	fmt.Fprintf(toolResults, "\n\n🤖 **Auto-replying to first %d mentions...**\n", max)
	for i, mention := range targets {
		replyContent := truncateRunes(o.deps.Persona.ReplyFor(mention.Text), sanitize.Limit)
		result := o.deps.Social.ReplyToTweet(ctx, mention.ID, replyContent)
		if result.OK {
			o.deps.Access.RecordAction(access.ActionReplyToTweet)
			fmt.Fprintf(toolResults, "\n✅ **Replied to @%s**: %q\n   [View Reply](https://x.com/%s/status/%s)",
				mention.AuthorID, replyContent, o.deps.Persona.Account, result.TweetID)
		} else {
			fmt.Fprintf(toolResults, "\n❌ **Failed to reply to @%s**: %v", mention.AuthorID, result.Err)
		}
		if i < len(targets)-1 {
			o.deps.Sleep(o.deps.ReplyDelay)
		}
	}
	fmt.Fprintf(toolResults, "\n\n🎯 **Auto-reply complete!** Replied to %d mentions.", len(targets))
}

// handleReply resolves the reply target: explicit tweet ID, then "mention
// #N", then the latest mention.
func (o *Orchestrator) handleReply(ctx context.Context, userMessage, tweetID, llmReply string, toolResults *strings.Builder) {
	target := tweetID
	if n, ok := intent.MentionNumber(userMessage); ok {
		mentions := o.deps.Social.GetMentions(ctx)
		if mentions.OK && n <= len(mentions.Mentions) {
			target = mentions.Mentions[n-1].ID
		}
	}
	if target == "" {
		mentions := o.deps.Social.GetMentions(ctx)
		if mentions.OK && len(mentions.Mentions) > 0 {
			target = mentions.Mentions[0].ID
		}
	}
	if target == "" {
		toolResults.WriteString("\n\n❌ **No tweet found to reply to.** Please provide a tweet ID or mention.")
		return
	}
	replyContent := sanitize.ForPost(llmReply)
	result := o.deps.Social.ReplyToTweet(ctx, target, replyContent)
	if !result.OK {
		fmt.Fprintf(toolResults, "\n\n❌ **Failed to reply:** %v", result.Err)
		return
	}
	o.deps.Access.RecordAction(access.ActionReplyToTweet)
	fmt.Fprintf(toolResults, "\n\n✅ **Posted:** [View on X](https://twitter.com/%s/status/%s)",
		o.deps.Persona.Account, result.TweetID)
}

// appendMarketData adds keyword-gated data sections in a fixed order.
func (o *Orchestrator) appendMarketData(ctx context.Context, userMessage string, additionalData *strings.Builder) {
	if containsAny(userMessage, "get fox data", "show fox", "fox stats", "fox information", "onchainhyperfoxes") {
		additionalData.WriteString(o.deps.Hyperliquid.FoxCollectionData(ctx).Appendix())
	}
	if containsAny(userMessage, "get market data", "show market", "market stats", "hyperliquid market") {
		additionalData.WriteString(o.deps.Hyperliquid.MarketAnalytics(ctx).Appendix())
	}
	if containsAny(userMessage, "ecosystem", "projects", "get ecosystem data") {
		additionalData.WriteString(o.deps.Hyperliquid.EcosystemProjects(ctx).Appendix())
	}
	if containsAny(userMessage, "market data", "crypto prices", "trending coins", "bitcoin", "ethereum") {
		additionalData.WriteString(o.deps.CoinGecko.PriceData(ctx).Appendix())
	}
	if containsAny(userMessage, "trending", "top gainers", "market movers") {
		additionalData.WriteString(o.deps.CoinGecko.TrendingCoins(ctx).Appendix())
	}
	if containsAny(userMessage, "nft market", "nft collections", "nft data") {
		additionalData.WriteString(o.deps.CoinGecko.NFTCollections(ctx).Appendix())
	}
}

func (o *Orchestrator) logInteraction(ctx context.Context, userMessage, finalContent string) {
	rec := store.Interaction{
		ID:         xid.New().String(),
		UserID:     "anonymous",
		Message:    userMessage,
		AIResponse: finalContent,
		Context: store.InteractionContext{
			Topic:       intent.ExtractTopic(userMessage),
			Sentiment:   string(intent.AnalyzeSentiment(userMessage)),
			Intent:      string(intent.Classify(userMessage)),
			NFTMentions: intent.ExtractNFTMentions(userMessage),
		},
		CreatedAt: o.deps.Now(),
	}
	if err := o.deps.Store.LearnFromInteraction(ctx, rec); err != nil {
		o.log.Warn().Err(err).Msg("storing interaction failed")
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func snippet(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
