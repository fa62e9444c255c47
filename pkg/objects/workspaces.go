package objects

import (
	"context"
	"fmt"

	"github.com/mmercad0/slack-objects/pkg/identity"
	"github.com/mmercad0/slack-objects/pkg/pagination"
)

// Workspace is the decoded shape of an Enterprise Grid team object.
type Workspace struct {
	ID     string `mapstructure:"id"`
	Name   string `mapstructure:"name"`
	Domain string `mapstructure:"domain"`
}

// Workspaces bundles Enterprise Grid workspace operations.
type Workspaces struct {
	c *Client
}

// List returns workspaces via admin.teams.list, aggregating all pages.
// A limit > 0 truncates the aggregate.
func (w *Workspaces) List(ctx context.Context, limit int) ([]Workspace, error) {
	fetch := func(ctx context.Context, cursor string) ([]Workspace, string, error) {
		args := map[string]any{"limit": 100}
		if cursor != "" {
			args["cursor"] = cursor
		}

		body, err := w.c.api.Call(ctx, "admin.teams.list", args)
		if err != nil {
			return nil, "", err
		}

		var page []Workspace
		if err := decode(body["teams"], &page); err != nil {
			return nil, "", fmt.Errorf("decode admin.teams.list page: %w", err)
		}
		return page, nextCursor(body), nil
	}

	return pagination.Collect(ctx, fetch, pagination.Options{Limit: limit})
}

// Admins returns the admin user IDs of a workspace via
// admin.teams.admins.list, aggregating all pages.
func (w *Workspaces) Admins(ctx context.Context, teamID string) ([]string, error) {
	if _, err := identity.ValidateID(teamID, "team_id"); err != nil {
		return nil, err
	}

	fetch := func(ctx context.Context, cursor string) ([]string, string, error) {
		args := map[string]any{"team_id": teamID, "limit": 100}
		if cursor != "" {
			args["cursor"] = cursor
		}

		body, err := w.c.api.Call(ctx, "admin.teams.admins.list", args)
		if err != nil {
			return nil, "", err
		}
		return stringList(body["admin_ids"]), nextCursor(body), nil
	}

	return pagination.Collect(ctx, fetch, pagination.Options{})
}
