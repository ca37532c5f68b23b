// Package scoring submits documents to an external scoring model and models
// its chat-style reply envelope.
package scoring

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Client abstracts scoring providers. A nil envelope or an error is terminal
// for the current analysis run; callers do not retry.
type Client interface {
	Feedback(ctx context.Context, documentPath, instructions string) (*ReplyEnvelope, error)
}

// ContentBlock is one typed element of a block-style message content.
type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// MessageContent is either a plain string or a sequence of content blocks.
type MessageContent struct {
	Text   string
	Blocks []ContentBlock
}

// UnmarshalJSON accepts both wire shapes.
func (c *MessageContent) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		c.Text = s
		c.Blocks = nil
		return nil
	}
	var blocks []ContentBlock
	if err := json.Unmarshal(data, &blocks); err != nil {
		return fmt.Errorf("message content must be a string or a block list: %w", err)
	}
	c.Text = ""
	c.Blocks = blocks
	return nil
}

// MarshalJSON emits the shape the content was built with.
func (c MessageContent) MarshalJSON() ([]byte, error) {
	if c.Blocks != nil {
		return json.Marshal(c.Blocks)
	}
	return json.Marshal(c.Text)
}

// Message is the reply message carried by an envelope.
type Message struct {
	Role    string         `json:"role,omitempty"`
	Content MessageContent `json:"content"`
}

// ReplyEnvelope is the provider's reply wrapper.
type ReplyEnvelope struct {
	Message Message `json:"message"`
}

// Text returns the reply payload text. When the content is a block sequence,
// the FIRST block's text is the payload; later blocks are never consulted.
func (e *ReplyEnvelope) Text() (string, error) {
	if e == nil {
		return "", errors.New("nil reply envelope")
	}
	if len(e.Message.Content.Blocks) > 0 {
		return e.Message.Content.Blocks[0].Text, nil
	}
	return e.Message.Content.Text, nil
}
