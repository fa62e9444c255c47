package objects

import (
	"context"
	"fmt"

	"github.com/mmercad0/slack-objects/pkg/identity"
	"github.com/mmercad0/slack-objects/pkg/pagination"
)

// Conversation is the decoded shape of a Web API conversation object.
type Conversation struct {
	ID         string `mapstructure:"id"`
	Name       string `mapstructure:"name"`
	IsArchived bool   `mapstructure:"is_archived"`
	IsPrivate  bool   `mapstructure:"is_private"`
	IsShared   bool   `mapstructure:"is_shared"`
	NumMembers int    `mapstructure:"num_members"`
}

// Conversations bundles channel-related operations.
type Conversations struct {
	c *Client
}

// Info fetches one conversation via conversations.info.
func (cv *Conversations) Info(ctx context.Context, channelID string) (*Conversation, error) {
	if _, err := identity.ValidateID(channelID, "channel_id"); err != nil {
		return nil, err
	}

	body, err := cv.c.api.Call(ctx, "conversations.info", map[string]any{"channel": channelID})
	if err != nil {
		return nil, err
	}

	var conv Conversation
	if err := decode(body["channel"], &conv); err != nil {
		return nil, fmt.Errorf("decode conversations.info response: %w", err)
	}
	return &conv, nil
}

// Archive archives a channel via admin.conversations.archive.
func (cv *Conversations) Archive(ctx context.Context, channelID string) error {
	if _, err := identity.ValidateID(channelID, "channel_id"); err != nil {
		return err
	}

	_, err := cv.c.api.Call(ctx, "admin.conversations.archive", map[string]any{"channel_id": channelID})
	return err
}

// Members returns the member user IDs of a channel via conversations.members,
// aggregating all pages. A limit > 0 truncates the aggregate.
func (cv *Conversations) Members(ctx context.Context, channelID string, limit int) ([]string, error) {
	if _, err := identity.ValidateID(channelID, "channel_id"); err != nil {
		return nil, err
	}

	fetch := func(ctx context.Context, cursor string) ([]string, string, error) {
		args := map[string]any{"channel": channelID, "limit": 200}
		if cursor != "" {
			args["cursor"] = cursor
		}

		body, err := cv.c.api.Call(ctx, "conversations.members", args)
		if err != nil {
			return nil, "", err
		}
		return stringList(body["members"]), nextCursor(body), nil
	}

	return pagination.Collect(ctx, fetch, pagination.Options{Limit: limit})
}

// Kick removes a user from a channel via admin.conversations.remove.
func (cv *Conversations) Kick(ctx context.Context, channelID, userID string) error {
	if _, err := identity.ValidateID(channelID, "channel_id"); err != nil {
		return err
	}
	if _, err := identity.ValidateID(userID, "user_id"); err != nil {
		return err
	}

	_, err := cv.c.api.Call(ctx, "admin.conversations.remove", map[string]any{
		"channel_ids": channelID,
		"user_id":     userID,
	})
	return err
}
