package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// handleEliza reports the agent's interactive-mode status.
func (s *Server) handleEliza(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"status": gin.H{
			"isRunning":   true,
			"personality": s.deps.Persona.Role,
			"mode":        "Manual Control - Use chat interface to interact with " + s.deps.Persona.Name,
			"capabilities": []string{
				"Market Analysis - Ask about current market sentiment",
				"NFT Collections - Get NFT performance insights",
				"Twitter Posting - Generate and post tweets",
				"Crypto Insights - Get Hyperliquid EVM analysis",
			},
			"services": gin.H{
				"twitter": s.deps.TwitterLive,
				"crypto":  true,
			},
		},
		"message": s.deps.Persona.Name + " is ready for manual interaction! Use the chat interface.",
	})
}

// handleElizaOS summarizes the workflow engine.
func (s *Server) handleElizaOS(c *gin.Context) {
	st := s.deps.Scheduler.Status()
	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"isRunning":    st.Running,
		"totalTasks":   st.TotalTasks,
		"enabledTasks": st.EnabledTasks,
		"nextTask":     st.NextTask,
	})
}

type elizaAction struct {
	Action  string `json:"action"`
	Message string `json:"message"`
}

// handleElizaOSActions services the start/stop/message control verbs.
func (s *Server) handleElizaOSActions(c *gin.Context) {
	var req elizaAction
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid action"})
		return
	}
	switch req.Action {
	case "start":
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Agent started successfully"})
	case "stop":
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Agent stopped successfully"})
	case "message":
		if req.Message == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Message is required"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "response": s.cannedResponse(req.Message)})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid action"})
	}
}

func (s *Server) cannedResponse(message string) string {
	lower := strings.ToLower(message)
	switch {
	case strings.Contains(lower, "hello") || strings.Contains(lower, "hi"):
		return "Hello! I'm " + s.deps.Persona.Name + ", your AI assistant. How can I help you today?"
	case strings.Contains(lower, "crypto") || strings.Contains(lower, "market"):
		return "I'd be happy to help with crypto analysis! What specific information are you looking for?"
	case strings.Contains(lower, "twitter") || strings.Contains(lower, "post"):
		return "I can help you post to Twitter! What would you like to share?"
	case strings.Contains(lower, "hyperliquid"):
		return "Hyperliquid EVM is where the foxes live! I can help you analyze market data, track NFTs, and monitor trading activity. What specific aspect interests you?"
	default:
		return "I'm here to help! Feel free to ask me about crypto, market analysis, or social media posting."
	}
}

// handleElizaOSStatus produces the detailed status view: persona, a lightly
// randomized agent state, and the workflow table with recent memory.
func (s *Server) handleElizaOSStatus(c *gin.Context) {
	st := s.deps.Scheduler.Status()

	workflows := make([]gin.H, 0, len(st.Tasks))
	for _, task := range st.Tasks {
		w := gin.H{
			"id":       task.ID,
			"name":     task.Description,
			"isActive": task.Enabled,
		}
		if !task.LastRun.IsZero() {
			w["lastRun"] = task.LastRun.Format(time.RFC3339)
		}
		workflows = append(workflows, w)
	}

	var memories []gin.H
	recent, err := s.deps.Store.RecentInteractions(c.Request.Context(), 3)
	if err != nil {
		s.log.Warn().Err(err).Msg("loading recent interactions failed")
	}
	for _, rec := range recent {
		memories = append(memories, gin.H{
			"id":        rec.ID,
			"timestamp": rec.CreatedAt.Format(time.RFC3339),
			"type":      rec.Context.Intent,
			"content":   rec.Message,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"isActive": true,
		"personality": gin.H{
			"name":   s.deps.Persona.Name,
			"traits": s.deps.Persona.Traits,
			"goals":  s.deps.Persona.Interests,
		},
		"state": gin.H{
			"mood":        "focused",
			"energy":      80 + s.deps.Rng.Intn(20),
			"currentTask": "Monitoring crypto markets",
			"lastAction":  "Analyzed Hyperliquid EVM data",
		},
		"plugins": []gin.H{
			{"id": "twitter", "name": "Twitter Plugin", "isEnabled": s.deps.TwitterLive},
			{"id": "crypto", "name": "Crypto Plugin", "isEnabled": true},
		},
		"workflows":      workflows,
		"recentMemories": memories,
	})
}
