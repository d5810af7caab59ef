// Package server exposes the agent over HTTP: the chat endpoints, the
// cron-trigger endpoints, and the status surface.
package server

import (
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ryjin111/foxAI/pkg/access"
	"github.com/ryjin111/foxAI/pkg/agent"
	"github.com/ryjin111/foxAI/pkg/llm"
	"github.com/ryjin111/foxAI/pkg/personality"
	"github.com/ryjin111/foxAI/pkg/scheduler"
	"github.com/ryjin111/foxAI/pkg/store"
)

// Agent is the chat-turn surface the server dispatches to.
type Agent interface {
	Process(ctx context.Context, req agent.Request) (agent.Response, error)
}

// ChatLLM is the plain-chat surface for /api/chat.
type ChatLLM interface {
	Configured() bool
	Chat(ctx context.Context, msgs []llm.Message) (string, error)
	Fallback() string
}

// Deps are the server's collaborators.
type Deps struct {
	Agent       Agent
	LLM         ChatLLM
	Scheduler   *scheduler.Scheduler
	Access      *access.Manager
	Store       store.Store
	Persona     *personality.Persona
	Rng         *rand.Rand
	CronSecret  string
	TwitterLive bool
	Log         zerolog.Logger
	Now         func() time.Time
}

// Server wires the routes.
type Server struct {
	deps Deps
	log  zerolog.Logger
}

func New(deps Deps) *Server {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Server{
		deps: deps,
		log:  deps.Log.With().Str("component", "server").Logger(),
	}
}

// Router builds the gin engine with every route attached.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestID)

	r.GET("/api/health", s.handleHealth)

	r.GET("/api/agent", s.handleAgentStatus)
	r.POST("/api/agent", s.handleAgentChat)
	r.POST("/api/chat", s.handleChat)

	cron := r.Group("/api/cron", s.cronAuth)
	cron.GET("/gm-tweet", s.handleGmTweet)
	cron.POST("/gm-tweet", s.handleGmTweetManual)
	cron.GET("/community-engagement", s.handleCommunityEngagement)
	cron.GET("/daily-report", s.handleDailyReport)
	cron.GET("/hourly-market-update", s.handleHourlyMarketUpdate)

	r.GET("/api/eliza", s.handleEliza)
	r.GET("/api/elizaos", s.handleElizaOS)
	r.POST("/api/elizaos/actions", s.handleElizaOSActions)
	r.GET("/api/elizaos/status", s.handleElizaOSStatus)

	return r
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": s.deps.Now().Format(time.RFC3339),
		"message":   "Foxy agent API is running",
		"version":   "1.0.0",
	})
}

// handleAgentStatus reports API status, or tests an access code when
// ?testCode= is present.
func (s *Server) handleAgentStatus(c *gin.Context) {
	if testCode := c.Query("testCode"); testCode != "" {
		ok := s.deps.Access.SetCode(testCode)
		current := s.deps.Access.Current()
		canPost := s.deps.Access.CanPerformAction(access.ActionPostTweet)
		c.JSON(http.StatusOK, gin.H{
			"message":       "Access code test",
			"testCode":      testCode,
			"success":       ok,
			"currentAccess": current.Code,
			"canPost":       canPost.Allowed,
			"timestamp":     s.deps.Now().Format(time.RFC3339),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Foxy AI Agent API",
		"status":  "running",
		"endpoints": gin.H{
			"chat": "POST /api/agent",
		},
	})
}

// handleAgentChat runs one chat turn and streams the assembled reply as a
// single SSE chunk followed by the done marker.
func (s *Server) handleAgentChat(c *gin.Context) {
	var req agent.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format. Expected messages array."})
		return
	}
	resp, err := s.deps.Agent.Process(c.Request.Context(), req)
	switch err {
	case nil:
	case agent.ErrNoMessages:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format. Expected messages array."})
		return
	case agent.ErrLLMUnconfigured:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "DEEPSEEK_API_KEY not configured. Please add it to your environment."})
		return
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	chunk, err := json.Marshal(gin.H{"content": resp.Content})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Writer.WriteString("data: " + string(chunk) + "\n\n")
	c.Writer.WriteString("data: [DONE]\n\n")
}

type chatRequest struct {
	Messages []llm.Message `json:"messages"`
}

// handleChat is the plain-text completion endpoint. Without an API key it
// answers from the persona's canned lines.
func (s *Server) handleChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Messages) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format. Expected messages array."})
		return
	}
	if !s.deps.LLM.Configured() {
		c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(s.deps.LLM.Fallback()))
		return
	}
	msgs := append([]llm.Message{llm.SystemMessage(s.deps.Persona.SystemPrompt())}, req.Messages...)
	reply, err := s.deps.LLM.Chat(c.Request.Context(), msgs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(reply))
}

// requestID tags every response with an X-Request-ID, minting one when the
// caller didn't send its own.
func (s *Server) requestID(c *gin.Context) {
	id := c.GetHeader("X-Request-ID")
	if id == "" {
		id = uuid.NewString()
	}
	c.Header("X-Request-ID", id)
	c.Next()
}

// cronAuth gates the cron endpoints behind ?secret= when a secret is set.
func (s *Server) cronAuth(c *gin.Context) {
	if s.deps.CronSecret != "" && c.Query("secret") != s.deps.CronSecret {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	c.Next()
}

func (s *Server) handleGmTweet(c *gin.Context) {
	res, err := s.deps.Scheduler.ExecuteGmTweet(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	if res.AlreadyPosted {
		c.JSON(http.StatusOK, gin.H{
			"message": "GM tweet already posted today",
			"date":    res.Date,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "GM tweet posted successfully",
		"tweetId": res.TweetID,
		"content": res.Content,
		"date":    res.Date,
	})
}

// handleGmTweetManual posts a GM tweet regardless of the daily dedup.
func (s *Server) handleGmTweetManual(c *gin.Context) {
	date := s.deps.Now().Format("Mon Jan 02 2006")
	res, err := s.deps.Scheduler.PostGmTweet(c.Request.Context(), date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "GM tweet posted successfully",
		"tweetId": res.TweetID,
		"content": res.Content,
	})
}

func (s *Server) handleCommunityEngagement(c *gin.Context) {
	replies, err := s.deps.Scheduler.ExecuteCommunityEngagement(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	if len(replies) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "No mentions found to reply to",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"message":       "Community engagement complete",
		"repliesPosted": len(replies),
		"replies":       replies,
	})
}

func (s *Server) handleDailyReport(c *gin.Context) {
	result, content, err := s.deps.Scheduler.ExecuteDailyReport(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "Daily market intelligence report posted successfully! 📊",
		"tweetId":   result.TweetID,
		"content":   content,
		"timestamp": s.deps.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleHourlyMarketUpdate(c *gin.Context) {
	result, content, err := s.deps.Scheduler.ExecuteHourlyMarketUpdate(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "Hourly market update posted successfully! 🦊✨",
		"tweetId":   result.TweetID,
		"content":   content,
		"timestamp": s.deps.Now().Format(time.RFC3339),
	})
}
