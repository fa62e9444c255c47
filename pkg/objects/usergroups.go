package objects

import (
	"context"
	"fmt"

	"github.com/mmercad0/slack-objects/pkg/identity"
)

// UserGroup is the decoded shape of a Web API usergroup object.
type UserGroup struct {
	ID        string `mapstructure:"id"`
	TeamID    string `mapstructure:"team_id"`
	Handle    string `mapstructure:"handle"`
	Name      string `mapstructure:"name"`
	UserCount int    `mapstructure:"user_count"`
}

// UserGroups bundles usergroup-related operations.
type UserGroups struct {
	c *Client
}

// List returns all user groups via usergroups.list (not paginated by the
// API).
func (ug *UserGroups) List(ctx context.Context) ([]UserGroup, error) {
	body, err := ug.c.api.Call(ctx, "usergroups.list", map[string]any{})
	if err != nil {
		return nil, err
	}

	var groups []UserGroup
	if err := decode(body["usergroups"], &groups); err != nil {
		return nil, fmt.Errorf("decode usergroups.list response: %w", err)
	}
	return groups, nil
}

// Users returns the member user IDs of a user group via
// usergroups.users.list.
func (ug *UserGroups) Users(ctx context.Context, groupID string) ([]string, error) {
	if _, err := identity.ValidateID(groupID, "usergroup_id"); err != nil {
		return nil, err
	}

	body, err := ug.c.api.Call(ctx, "usergroups.users.list", map[string]any{"usergroup": groupID})
	if err != nil {
		return nil, err
	}
	return stringList(body["users"]), nil
}
