// Package relay accepts Slack event callbacks and bridges them to the
// message-processing agent. It keeps no state beyond in-memory sessions.
package relay

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tagocar/fms-backend/internal/agent"
	"github.com/tagocar/fms-backend/internal/middleware"
	"github.com/tagocar/fms-backend/internal/slackapi"
)

type Relay struct {
	r        *gin.Engine
	sessions *SessionStore
	slack    slackapi.Client
	agent    agent.Client
}

// New builds the relay router. Middleware must be supplied here: gin binds
// handler chains at registration time.
func New(slack slackapi.Client, agentClient agent.Client, sessions *SessionStore, mw ...gin.HandlerFunc) *Relay {
	rl := &Relay{
		r:        gin.New(),
		sessions: sessions,
		slack:    slack,
		agent:    agentClient,
	}

	rl.r.Use(gin.Recovery())
	rl.r.Use(mw...)

	rl.r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	rl.r.POST("/slack/events", rl.eventsHandler)

	return rl
}

func (rl *Relay) Router() *gin.Engine {
	return rl.r
}

type slackEvent struct {
	Type      string `json:"type"`
	Challenge string `json:"challenge"`
	Event     struct {
		Type    string `json:"type"`
		User    string `json:"user"`
		Text    string `json:"text"`
		Channel string `json:"channel"`
		BotID   string `json:"bot_id"`
	} `json:"event"`
}

func (rl *Relay) eventsHandler(c *gin.Context) {
	logger := middleware.GetLogger(c)

	var ev slackEvent
	if err := c.ShouldBindJSON(&ev); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": err.Error()})
		return
	}

	// Slack sends a one-time handshake when the events URL is registered.
	if ev.Type == "url_verification" {
		c.JSON(http.StatusOK, gin.H{"challenge": ev.Challenge})
		return
	}

	if ev.Type != "event_callback" || ev.Event.Type != "message" {
		c.Status(http.StatusOK)
		return
	}
	// Ignore our own (and any other bot's) messages or Slack loops forever.
	if ev.Event.BotID != "" || ev.Event.User == "" {
		c.Status(http.StatusOK)
		return
	}

	text := strings.TrimSpace(ev.Event.Text)
	if text == "" {
		c.Status(http.StatusOK)
		return
	}

	sess := rl.sessions.GetOrCreate(ev.Event.User)

	reply, err := rl.agent.SendMessage(c, sess.UserID, text)
	if err != nil {
		logger.ErrorContext(c, "agent call failed", "user", sess.UserID, "error", err)
		reply = "Sorry, something went wrong handling your message. Please try again."
	} else {
		rl.sessions.Update(sess.UserID, func(s *Session) {
			s.State = "awaiting_user"
			s.Metadata["last_message_at"] = time.Now().UTC().Format(time.RFC3339)
		})
	}

	if err := rl.slack.PostMessage(c, ev.Event.Channel, reply); err != nil {
		logger.ErrorContext(c, "failed to post slack reply", "channel", ev.Event.Channel, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.Status(http.StatusOK)
}
