package objects

import (
	"context"
	"fmt"

	"github.com/mmercad0/slack-objects/pkg/identity"
	"github.com/mmercad0/slack-objects/pkg/pagination"
)

// Message is the decoded shape of a Web API message object. Threads carry
// the parent's ts in thread_ts; file shares carry the file objects inline.
type Message struct {
	Type     string `mapstructure:"type"`
	User     string `mapstructure:"user"`
	Text     string `mapstructure:"text"`
	TS       string `mapstructure:"ts"`
	ThreadTS string `mapstructure:"thread_ts"`
	Files    []File `mapstructure:"files"`
}

// Messages bundles message-related operations.
type Messages struct {
	c *Client
}

// History returns channel messages via conversations.history, aggregating
// all pages. A limit > 0 truncates the aggregate.
func (m *Messages) History(ctx context.Context, channelID string, limit int) ([]Message, error) {
	if _, err := identity.ValidateID(channelID, "channel_id"); err != nil {
		return nil, err
	}

	fetch := func(ctx context.Context, cursor string) ([]Message, string, error) {
		args := map[string]any{"channel": channelID, "limit": 200}
		if cursor != "" {
			args["cursor"] = cursor
		}

		body, err := m.c.api.Call(ctx, "conversations.history", args)
		if err != nil {
			return nil, "", err
		}

		var page []Message
		if err := decode(body["messages"], &page); err != nil {
			return nil, "", fmt.Errorf("decode conversations.history page: %w", err)
		}
		return page, nextCursor(body), nil
	}

	return pagination.Collect(ctx, fetch, pagination.Options{Limit: limit})
}

// Replies returns a message thread via conversations.replies, aggregating
// all pages. The parent message is the first element. A limit > 0 truncates
// the aggregate.
func (m *Messages) Replies(ctx context.Context, channelID, threadTS string, limit int) ([]Message, error) {
	if _, err := identity.ValidateID(channelID, "channel_id"); err != nil {
		return nil, err
	}
	if threadTS == "" {
		return nil, fmt.Errorf("thread ts is required")
	}

	fetch := func(ctx context.Context, cursor string) ([]Message, string, error) {
		args := map[string]any{
			"channel":   channelID,
			"ts":        threadTS,
			"inclusive": true,
			"limit":     200,
		}
		if cursor != "" {
			args["cursor"] = cursor
		}

		body, err := m.c.api.Call(ctx, "conversations.replies", args)
		if err != nil {
			return nil, "", err
		}

		var page []Message
		if err := decode(body["messages"], &page); err != nil {
			return nil, "", fmt.Errorf("decode conversations.replies page: %w", err)
		}
		return page, nextCursor(body), nil
	}

	return pagination.Collect(ctx, fetch, pagination.Options{Limit: limit})
}

// Update rewrites an existing message's text via chat.update.
func (m *Messages) Update(ctx context.Context, channelID, ts, text string) error {
	if _, err := identity.ValidateID(channelID, "channel_id"); err != nil {
		return err
	}
	if ts == "" {
		return fmt.Errorf("message ts is required")
	}

	_, err := m.c.api.Call(ctx, "chat.update", map[string]any{
		"channel": channelID,
		"ts":      ts,
		"as_user": true,
		"text":    text,
	})
	return err
}

// Delete removes a message via chat.delete.
func (m *Messages) Delete(ctx context.Context, channelID, ts string) error {
	if _, err := identity.ValidateID(channelID, "channel_id"); err != nil {
		return err
	}
	if ts == "" {
		return fmt.Errorf("message ts is required")
	}

	_, err := m.c.api.Call(ctx, "chat.delete", map[string]any{
		"channel": channelID,
		"ts":      ts,
	})
	return err
}
