// Package llm wraps the DeepSeek chat completion API. DeepSeek speaks the
// OpenAI wire protocol, so the client is the OpenAI SDK pointed at a custom
// base URL.
package llm

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/rs/zerolog"

	"github.com/ryjin111/foxAI/pkg/personality"
)

// Role is a chat message role.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one chat turn, ordered chronologically by the caller.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Options configure the client.
type Options struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float64
}

// Client calls the chat completion endpoint, or serves canned persona lines
// when no API key is configured.
type Client struct {
	api     openai.Client
	opts    Options
	persona *personality.Persona
	rng     *rand.Rand
	log     zerolog.Logger
}

// NewClient builds a client. A missing API key is not an error; the client
// reports Configured() == false and only Fallback() is usable.
func NewClient(opts Options, persona *personality.Persona, rng *rand.Rand, log zerolog.Logger) *Client {
	c := &Client{
		opts:    opts,
		persona: persona,
		rng:     rng,
		log:     log.With().Str("component", "llm").Logger(),
	}
	if opts.APIKey != "" {
		reqOpts := []option.RequestOption{option.WithAPIKey(opts.APIKey)}
		if opts.BaseURL != "" {
			reqOpts = append(reqOpts, option.WithBaseURL(opts.BaseURL))
		}
		c.api = openai.NewClient(reqOpts...)
	}
	return c
}

// Configured reports whether a real API key is present.
func (c *Client) Configured() bool {
	return c.opts.APIKey != ""
}

// SystemMessage builds a system-role message.
func SystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// Chat sends the conversation and returns the assistant's reply text.
func (c *Client) Chat(ctx context.Context, msgs []Message) (string, error) {
	if !c.Configured() {
		return "", errors.New("llm: no API key configured")
	}

	params := openai.ChatCompletionNewParams{
		Model:       c.opts.Model,
		Messages:    toParams(msgs),
		MaxTokens:   openai.Int(int64(c.opts.MaxTokens)),
		Temperature: openai.Float(c.opts.Temperature),
	}
	resp, err := c.api.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion: empty choices")
	}
	content := resp.Choices[0].Message.Content
	c.log.Debug().Int("chars", len(content)).Msg("chat completion received")
	return content, nil
}

// Fallback returns a canned persona line for keyless deployments.
func (c *Client) Fallback() string {
	return c.persona.FallbackLine(c.rng)
}

func toParams(msgs []Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(msgs))
	for _, m := range msgs {
		switch m.Role {
		case RoleSystem:
			out = append(out, openai.SystemMessage(m.Content))
		case RoleAssistant:
			out = append(out, openai.AssistantMessage(m.Content))
		default:
			out = append(out, openai.UserMessage(m.Content))
		}
	}
	return out
}
