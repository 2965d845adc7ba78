package relay

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tagocar/fms-backend/internal/agent"
	"github.com/tagocar/fms-backend/internal/slackapi"
)

func newTestRelay(agentClient *agent.FakeClient, slack *slackapi.FakeClient) *Relay {
	gin.SetMode(gin.TestMode)
	return New(slack, agentClient, NewSessionStore(time.Hour))
}

func postEvent(t *testing.T, rl *Relay, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		t.Fatalf("failed to encode event: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/slack/events", &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	rl.Router().ServeHTTP(w, req)
	return w
}

func TestEvents_URLVerification(t *testing.T) {
	rl := newTestRelay(&agent.FakeClient{}, slackapi.NewFakeClient())

	w := postEvent(t, rl, map[string]any{
		"type":      "url_verification",
		"challenge": "ch4ll3nge",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "ch4ll3nge") {
		t.Errorf("expected challenge echoed, got %s", w.Body.String())
	}
}

func TestEvents_MessageForwardedAndReplied(t *testing.T) {
	agentClient := &agent.FakeClient{Reply: "Route created."}
	slack := slackapi.NewFakeClient()
	rl := newTestRelay(agentClient, slack)

	w := postEvent(t, rl, map[string]any{
		"type": "event_callback",
		"event": map[string]any{
			"type":    "message",
			"user":    "U123",
			"channel": "C456",
			"text":    "create a route from Seoul Station to Busan Station",
		},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	if len(agentClient.Received) != 1 || !strings.Contains(agentClient.Received[0], "Seoul Station") {
		t.Errorf("agent did not receive the message: %v", agentClient.Received)
	}
	sent := slack.Messages()
	if len(sent) != 1 || sent[0].ChannelID != "C456" || sent[0].Text != "Route created." {
		t.Errorf("unexpected slack reply: %v", sent)
	}
}

func TestEvents_BotMessagesIgnored(t *testing.T) {
	agentClient := &agent.FakeClient{Reply: "should never be sent"}
	slack := slackapi.NewFakeClient()
	rl := newTestRelay(agentClient, slack)

	w := postEvent(t, rl, map[string]any{
		"type": "event_callback",
		"event": map[string]any{
			"type":    "message",
			"bot_id":  "B789",
			"channel": "C456",
			"text":    "echo from ourselves",
		},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if len(agentClient.Received) != 0 || len(slack.Messages()) != 0 {
		t.Error("bot message must not be forwarded or answered")
	}
}

func TestEvents_AgentFailureStillReplies(t *testing.T) {
	agentClient := &agent.FakeClient{Err: errors.New("boom")}
	slack := slackapi.NewFakeClient()
	rl := newTestRelay(agentClient, slack)

	w := postEvent(t, rl, map[string]any{
		"type": "event_callback",
		"event": map[string]any{
			"type":    "message",
			"user":    "U123",
			"channel": "C456",
			"text":    "hello",
		},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	sent := slack.Messages()
	if len(sent) != 1 || !strings.Contains(sent[0].Text, "something went wrong") {
		t.Errorf("expected apology reply, got %v", sent)
	}
}
