package slackapi

import (
	"context"
	"sync"
)

// SentMessage records one PostMessage call.
type SentMessage struct {
	ChannelID string
	Text      string
}

// FakeClient is a test implementation of Client.
type FakeClient struct {
	mu   sync.Mutex
	Sent []SentMessage
	Err  error
}

func NewFakeClient() *FakeClient {
	return &FakeClient{}
}

func (c *FakeClient) PostMessage(ctx context.Context, channelID, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.Err != nil {
		return c.Err
	}
	c.Sent = append(c.Sent, SentMessage{ChannelID: channelID, Text: text})
	return nil
}

// Messages returns a copy of everything sent so far.
func (c *FakeClient) Messages() []SentMessage {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]SentMessage, len(c.Sent))
	copy(out, c.Sent)
	return out
}
