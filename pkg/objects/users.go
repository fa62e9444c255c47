package objects

import (
	"context"
	"fmt"
	"strings"

	"github.com/mmercad0/slack-objects/pkg/identity"
	"github.com/mmercad0/slack-objects/pkg/pagination"
)

// contingentWorkerLabel marks externally contracted accounts in their
// display names, by workspace convention.
const contingentWorkerLabel = "[External]"

// User is the decoded shape of a Web API user object. Only the fields the
// helpers act on are typed; the rest stays in the raw body.
type User struct {
	ID                string      `mapstructure:"id"`
	TeamID            string      `mapstructure:"team_id"`
	Name              string      `mapstructure:"name"`
	RealName          string      `mapstructure:"real_name"`
	Deleted           bool        `mapstructure:"deleted"`
	IsAdmin           bool        `mapstructure:"is_admin"`
	IsOwner           bool        `mapstructure:"is_owner"`
	IsBot             bool        `mapstructure:"is_bot"`
	IsRestricted      bool        `mapstructure:"is_restricted"`
	IsUltraRestricted bool        `mapstructure:"is_ultra_restricted"`
	Profile           UserProfile `mapstructure:"profile"`
}

// UserProfile is the nested profile object.
type UserProfile struct {
	DisplayName string `mapstructure:"display_name"`
	RealName    string `mapstructure:"real_name"`
	Email       string `mapstructure:"email"`
}

// IsGuest reports whether the user is a single- or multi-channel guest.
func (u *User) IsGuest() bool {
	return u.IsRestricted || u.IsUltraRestricted
}

// IsContingentWorker reports whether the user's names carry the external
// worker label.
func (u *User) IsContingentWorker() bool {
	return strings.Contains(u.RealName, contingentWorkerLabel) ||
		strings.Contains(u.Profile.DisplayName, contingentWorkerLabel)
}

// Users bundles user-related operations.
type Users struct {
	c *Client
}

// Info fetches one user via users.info.
func (u *Users) Info(ctx context.Context, userID string) (*User, error) {
	if _, err := identity.ValidateID(userID, "user_id"); err != nil {
		return nil, err
	}

	body, err := u.c.api.Call(ctx, "users.info", map[string]any{"user": userID})
	if err != nil {
		return nil, err
	}

	var user User
	if err := decode(body["user"], &user); err != nil {
		return nil, fmt.Errorf("decode users.info response: %w", err)
	}
	return &user, nil
}

// LookupByEmail finds a user by email via users.lookupByEmail.
func (u *Users) LookupByEmail(ctx context.Context, email string) (*User, error) {
	body, err := u.c.api.Call(ctx, "users.lookupByEmail", map[string]any{"email": email})
	if err != nil {
		return nil, err
	}

	var user User
	if err := decode(body["user"], &user); err != nil {
		return nil, fmt.Errorf("decode users.lookupByEmail response: %w", err)
	}
	return &user, nil
}

// List returns users via users.list, aggregating all pages. A limit > 0
// truncates the aggregate to exactly that many users.
func (u *Users) List(ctx context.Context, limit int) ([]User, error) {
	fetch := func(ctx context.Context, cursor string) ([]User, string, error) {
		args := map[string]any{"limit": 200}
		if cursor != "" {
			args["cursor"] = cursor
		}

		body, err := u.c.api.Call(ctx, "users.list", args)
		if err != nil {
			return nil, "", err
		}

		var page []User
		if err := decode(body["members"], &page); err != nil {
			return nil, "", fmt.Errorf("decode users.list page: %w", err)
		}
		return page, nextCursor(body), nil
	}

	return pagination.Collect(ctx, fetch, pagination.Options{Limit: limit})
}

// MakeMultiChannelGuest converts a full member to a multi-channel guest via
// a SCIM patch with the Slack guest extension. The payload shape depends on
// the configured SCIM version.
func (u *Users) MakeMultiChannelGuest(ctx context.Context, userID string) error {
	scimClient, err := u.c.requireSCIM()
	if err != nil {
		return err
	}
	if _, err := identity.ValidateID(userID, "user_id"); err != nil {
		return err
	}

	var payload map[string]any
	switch scimClient.Version() {
	case "v2":
		payload = map[string]any{
			"schemas": []string{"urn:ietf:params:scim:api:messages:2.0:PatchOp"},
			"Operations": []map[string]any{{
				"path":  "urn:ietf:params:scim:schemas:extension:slack:guest:2.0:User",
				"op":    "add",
				"value": map[string]any{"type": "multi"},
			}},
		}
	case "v1":
		payload = map[string]any{
			"schemas": []string{
				"urn:scim:schemas:core:1.0",
				"urn:scim:schemas:extension:enterprise:1.0",
				"urn:scim:schemas:extension:slack:guest:1.0",
			},
			"urn:scim:schemas:extension:slack:guest:1.0": map[string]any{"type": "multi"},
		}
	default:
		return fmt.Errorf("unsupported scim version %q", scimClient.Version())
	}

	_, err = scimClient.Patch(ctx, "Users", userID, payload)
	return err
}

// Deactivate removes the user via a SCIM delete.
func (u *Users) Deactivate(ctx context.Context, userID string) error {
	scimClient, err := u.c.requireSCIM()
	if err != nil {
		return err
	}
	if _, err := identity.ValidateID(userID, "user_id"); err != nil {
		return err
	}

	_, err = scimClient.Delete(ctx, "Users", userID)
	return err
}
