// Package slackapi talks to the Slack Web API. Only the two message-posting
// calls the relay needs are implemented.
package slackapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

var ErrPostFailed = errors.New("failed to post slack message")

// Client is the surface the relay depends on.
type Client interface {
	PostMessage(ctx context.Context, channelID, text string) error
}

// HTTPClient implements Client against the real Slack Web API.
type HTTPClient struct {
	token      string
	baseURL    string
	httpClient *http.Client
}

func NewHTTPClient(token string) *HTTPClient {
	return &HTTPClient{
		token:   token,
		baseURL: "https://slack.com/api",
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type postMessageRequest struct {
	Channel string `json:"channel"`
	Text    string `json:"text"`
}

type postMessageResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

func (c *HTTPClient) PostMessage(ctx context.Context, channelID, text string) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(postMessageRequest{Channel: channelID, Text: text}); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat.postMessage", &buf)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPostFailed, err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPostFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrPostFailed, resp.StatusCode)
	}

	var body postMessageResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("%w: %v", ErrPostFailed, err)
	}
	if !body.OK {
		return fmt.Errorf("%w: %s", ErrPostFailed, body.Error)
	}
	return nil
}
