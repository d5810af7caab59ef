package server

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/ryjin111/foxAI/pkg/access"
	"github.com/ryjin111/foxAI/pkg/agent"
	"github.com/ryjin111/foxAI/pkg/llm"
	"github.com/ryjin111/foxAI/pkg/market"
	"github.com/ryjin111/foxAI/pkg/personality"
	"github.com/ryjin111/foxAI/pkg/scheduler"
	"github.com/ryjin111/foxAI/pkg/social"
	"github.com/ryjin111/foxAI/pkg/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeAgent struct {
	resp agent.Response
	err  error
	got  agent.Request
}

func (f *fakeAgent) Process(ctx context.Context, req agent.Request) (agent.Response, error) {
	f.got = req
	return f.resp, f.err
}

type fakeChatLLM struct {
	configured bool
	reply      string
	err        error
}

func (f *fakeChatLLM) Configured() bool { return f.configured }

func (f *fakeChatLLM) Chat(ctx context.Context, msgs []llm.Message) (string, error) {
	return f.reply, f.err
}

func (f *fakeChatLLM) Fallback() string { return "🦊 canned fallback" }

type fakeSocial struct {
	posts    []string
	mentions []social.Mention
	failPost bool
}

func (f *fakeSocial) PostTweet(ctx context.Context, text string) social.PostResult {
	if f.failPost {
		return social.PostResult{Err: errors.New("platform down")}
	}
	f.posts = append(f.posts, text)
	return social.PostResult{OK: true, TweetID: "9200000000000000001"}
}

func (f *fakeSocial) ReplyToTweet(ctx context.Context, tweetID, text string) social.PostResult {
	return social.PostResult{OK: true, TweetID: "9300000000000000001"}
}

func (f *fakeSocial) GetMentions(ctx context.Context) social.MentionsResult {
	return social.MentionsResult{OK: true, Mentions: f.mentions}
}

type fakeMarket struct{}

func (fakeMarket) MarketAnalytics(ctx context.Context) market.MarketAnalytics {
	return market.MarketAnalytics{Volume24h: "2,345.67 ETH", TotalTrades: 12345, ActiveUsers: 2345}
}

type harness struct {
	srv    *Server
	router *gin.Engine
	agent  *fakeAgent
	llm    *fakeChatLLM
	social *fakeSocial
	store  *store.Memory
}

func newHarness(t *testing.T, cronSecret string) *harness {
	t.Helper()
	persona, err := personality.Default()
	if err != nil {
		t.Fatal(err)
	}
	h := &harness{
		agent:  &fakeAgent{resp: agent.Response{Content: "hello from foxy"}},
		llm:    &fakeChatLLM{configured: true, reply: "chat reply"},
		social: &fakeSocial{},
		store:  store.NewMemory(),
	}
	rng := rand.New(rand.NewSource(3))
	now := func() time.Time { return time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC) }
	sched, err := scheduler.New(scheduler.Deps{
		Social:    h.social,
		Store:     h.store,
		Access:    access.NewManager(nil),
		Persona:   persona,
		DripTrade: market.NewDripTrade(rng),
		Market:    fakeMarket{},
		Rng:       rng,
		Log:       zerolog.Nop(),
		Now:       now,
	})
	if err != nil {
		t.Fatal(err)
	}
	h.srv = New(Deps{
		Agent:      h.agent,
		LLM:        h.llm,
		Scheduler:  sched,
		Access:     access.NewManager(nil),
		Store:      h.store,
		Persona:    persona,
		Rng:        rng,
		CronSecret: cronSecret,
		Log:        zerolog.Nop(),
		Now:        now,
	})
	h.router = h.srv.Router()
	return h
}

func (h *harness) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

func TestAgentChatSSE(t *testing.T) {
	h := newHarness(t, "")
	w := h.do(http.MethodPost, "/api/agent", `{"messages":[{"role":"user","content":"hi"}]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/event-stream") {
		t.Errorf("content type %q", ct)
	}
	body := w.Body.String()
	if !strings.HasPrefix(body, "data: ") || !strings.HasSuffix(body, "data: [DONE]\n\n") {
		t.Fatalf("bad SSE framing: %q", body)
	}
	first := strings.SplitN(body, "\n\n", 2)[0]
	var chunk struct {
		Content string `json:"content"`
	}
	if err := json.Unmarshal([]byte(strings.TrimPrefix(first, "data: ")), &chunk); err != nil {
		t.Fatalf("chunk not JSON: %v", err)
	}
	if chunk.Content != "hello from foxy" {
		t.Errorf("content %q", chunk.Content)
	}
}

func TestAgentChatBadBody(t *testing.T) {
	h := newHarness(t, "")
	w := h.do(http.MethodPost, "/api/agent", `{not json`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status %d", w.Code)
	}
	h.agent.err = agent.ErrNoMessages
	w = h.do(http.MethodPost, "/api/agent", `{"messages":[]}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("empty messages: status %d", w.Code)
	}
}

func TestAgentChatUnconfiguredLLM(t *testing.T) {
	h := newHarness(t, "")
	h.agent.err = agent.ErrLLMUnconfigured
	w := h.do(http.MethodPost, "/api/agent", `{"messages":[{"role":"user","content":"hi"}]}`)
	if w.Code != http.StatusInternalServerError {
		t.Errorf("status %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "DEEPSEEK_API_KEY") {
		t.Errorf("body %q", w.Body.String())
	}
}

func TestAgentStatusAndTestCode(t *testing.T) {
	h := newHarness(t, "")
	w := h.do(http.MethodGet, "/api/agent", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Foxy AI Agent API") {
		t.Fatalf("status body: %d %s", w.Code, w.Body.String())
	}

	w = h.do(http.MethodGet, "/api/agent?testCode=FOXY_GUEST", "")
	var resp struct {
		Success       bool   `json:"success"`
		CurrentAccess string `json:"currentAccess"`
		CanPost       bool   `json:"canPost"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Success || resp.CurrentAccess != "FOXY_GUEST" || resp.CanPost {
		t.Errorf("testCode response: %+v", resp)
	}
}

func TestChatFallbackWithoutKey(t *testing.T) {
	h := newHarness(t, "")
	h.llm.configured = false
	w := h.do(http.MethodPost, "/api/chat", `{"messages":[{"role":"user","content":"hi"}]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	if w.Body.String() != "🦊 canned fallback" {
		t.Errorf("body %q", w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("content type %q", ct)
	}
}

func TestChatWithKey(t *testing.T) {
	h := newHarness(t, "")
	w := h.do(http.MethodPost, "/api/chat", `{"messages":[{"role":"user","content":"hi"}]}`)
	if w.Code != http.StatusOK || w.Body.String() != "chat reply" {
		t.Errorf("status %d body %q", w.Code, w.Body.String())
	}
}

func TestCronSecretGate(t *testing.T) {
	h := newHarness(t, "hunter2")
	w := h.do(http.MethodGet, "/api/cron/gm-tweet", "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("missing secret: status %d", w.Code)
	}
	w = h.do(http.MethodGet, "/api/cron/gm-tweet?secret=wrong", "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("wrong secret: status %d", w.Code)
	}
	w = h.do(http.MethodGet, "/api/cron/gm-tweet?secret=hunter2", "")
	if w.Code != http.StatusOK {
		t.Fatalf("right secret: status %d: %s", w.Code, w.Body.String())
	}
}

func TestGmTweetEndpointDedups(t *testing.T) {
	h := newHarness(t, "")
	w := h.do(http.MethodGet, "/api/cron/gm-tweet", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "GM tweet posted successfully") {
		t.Fatalf("first call: %d %s", w.Code, w.Body.String())
	}
	w = h.do(http.MethodGet, "/api/cron/gm-tweet", "")
	if !strings.Contains(w.Body.String(), "GM tweet already posted today") {
		t.Fatalf("second call should dedup: %s", w.Body.String())
	}
	if len(h.social.posts) != 1 {
		t.Errorf("expected 1 post, got %d", len(h.social.posts))
	}

	// Manual trigger skips the dedup.
	w = h.do(http.MethodPost, "/api/cron/gm-tweet", "")
	if w.Code != http.StatusOK || len(h.social.posts) != 2 {
		t.Errorf("manual trigger: %d, %d posts", w.Code, len(h.social.posts))
	}
}

func TestCommunityEngagementEndpoint(t *testing.T) {
	h := newHarness(t, "")
	w := h.do(http.MethodGet, "/api/cron/community-engagement", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "No mentions found to reply to") {
		t.Fatalf("empty mentions: %d %s", w.Code, w.Body.String())
	}
	h.social.mentions = []social.Mention{{ID: "1879200000000000101", AuthorID: "u1", Text: "gm fox"}}
	w = h.do(http.MethodGet, "/api/cron/community-engagement", "")
	if !strings.Contains(w.Body.String(), `"repliesPosted":1`) {
		t.Errorf("reply count missing: %s", w.Body.String())
	}
}

func TestDailyReportEndpointFailure(t *testing.T) {
	h := newHarness(t, "")
	h.social.failPost = true
	w := h.do(http.MethodGet, "/api/cron/daily-report", "")
	if w.Code != http.StatusInternalServerError {
		t.Errorf("status %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "platform down") {
		t.Errorf("error missing: %s", w.Body.String())
	}
}

func TestHourlyMarketUpdateEndpoint(t *testing.T) {
	h := newHarness(t, "")
	w := h.do(http.MethodGet, "/api/cron/hourly-market-update", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Hourly market update posted successfully") {
		t.Fatalf("%d %s", w.Code, w.Body.String())
	}
}

func TestElizaEndpoints(t *testing.T) {
	h := newHarness(t, "")

	w := h.do(http.MethodGet, "/api/eliza", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Foxy is ready for manual interaction") {
		t.Fatalf("/api/eliza: %d %s", w.Code, w.Body.String())
	}

	w = h.do(http.MethodGet, "/api/elizaos", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"totalTasks":4`) {
		t.Fatalf("/api/elizaos: %d %s", w.Code, w.Body.String())
	}

	w = h.do(http.MethodPost, "/api/elizaos/actions", `{"action":"start"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("start action: %d", w.Code)
	}
	w = h.do(http.MethodPost, "/api/elizaos/actions", `{"action":"message","message":"tell me about hyperliquid"}`)
	if !strings.Contains(w.Body.String(), "Hyperliquid EVM") {
		t.Errorf("message action: %s", w.Body.String())
	}
	w = h.do(http.MethodPost, "/api/elizaos/actions", `{"action":"bogus"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("bogus action: %d", w.Code)
	}

	h.store.LearnFromInteraction(context.Background(), store.Interaction{
		ID: "rec-1", Message: "what's the floor", Context: store.InteractionContext{Intent: "get_data"},
		CreatedAt: time.Date(2025, 6, 2, 11, 0, 0, 0, time.UTC),
	})
	w = h.do(http.MethodGet, "/api/elizaos/status", "")
	if w.Code != http.StatusOK {
		t.Fatalf("/api/elizaos/status: %d", w.Code)
	}
	var status struct {
		IsActive    bool `json:"isActive"`
		Personality struct {
			Name string `json:"name"`
		} `json:"personality"`
		Workflows      []any `json:"workflows"`
		RecentMemories []any `json:"recentMemories"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &status); err != nil {
		t.Fatal(err)
	}
	if !status.IsActive || status.Personality.Name != "Foxy" || len(status.Workflows) != 4 || len(status.RecentMemories) != 1 {
		t.Errorf("status shape: %+v", status)
	}
}

func TestHealthEndpoint(t *testing.T) {
	h := newHarness(t, "")
	w := h.do(http.MethodGet, "/api/health", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"status":"ok"`) {
		t.Fatalf("%d %s", w.Code, w.Body.String())
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("missing request id header")
	}
}
