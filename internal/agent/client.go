// Package agent forwards free-text user messages to the external
// message-processing endpoint and returns its reply.
package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

var ErrAgentFailed = errors.New("agent request failed")

type Client interface {
	SendMessage(ctx context.Context, userID, text string) (string, error)
}

type HTTPClient struct {
	endpoint   string
	token      string
	httpClient *http.Client
}

func NewHTTPClient(endpoint, token string) *HTTPClient {
	return &HTTPClient{
		endpoint: endpoint,
		token:    token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type messageRequest struct {
	UserID  string `json:"userId"`
	Message string `json:"message"`
}

type messageResponse struct {
	Reply string `json:"reply"`
}

func (c *HTTPClient) SendMessage(ctx context.Context, userID, text string) (string, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(messageRequest{UserID: userID, Message: text}); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, &buf)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAgentFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAgentFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrAgentFailed, resp.StatusCode)
	}

	var body messageResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("%w: %v", ErrAgentFailed, err)
	}
	return body.Reply, nil
}

// FakeClient is a test implementation of Client.
type FakeClient struct {
	Reply string
	Err   error

	Received []string
}

func (c *FakeClient) SendMessage(ctx context.Context, userID, text string) (string, error) {
	if c.Err != nil {
		return "", c.Err
	}
	c.Received = append(c.Received, text)
	return c.Reply, nil
}
