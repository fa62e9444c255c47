package objects

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/mmercad0/slack-objects/pkg/identity"
	"github.com/mmercad0/slack-objects/pkg/pagination"
)

// IDPGroup is the decoded shape of a SCIM group resource.
type IDPGroup struct {
	ID          string `mapstructure:"id"`
	DisplayName string `mapstructure:"displayName"`
}

// GroupMember is one entry of a SCIM group's members list.
type GroupMember struct {
	Value   string `mapstructure:"value"`
	Display string `mapstructure:"display"`
}

// IDPGroups bundles identity-provider group operations, all SCIM-backed.
type IDPGroups struct {
	c *Client
}

// groupsPage fetches one page of the Groups listing.
func (g *IDPGroups) groupsPage(ctx context.Context, startIndex, count int) (pagination.IndexedPage[IDPGroup], error) {
	scimClient, err := g.c.requireSCIM()
	if err != nil {
		return pagination.IndexedPage[IDPGroup]{}, err
	}

	params := url.Values{}
	params.Set("count", strconv.Itoa(count))
	if startIndex > 1 {
		params.Set("startIndex", strconv.Itoa(startIndex))
	}

	resp, err := scimClient.List(ctx, "Groups", params)
	if err != nil {
		return pagination.IndexedPage[IDPGroup]{}, err
	}

	var groups []IDPGroup
	if err := decode(resp.Body["Resources"], &groups); err != nil {
		return pagination.IndexedPage[IDPGroup]{}, fmt.Errorf("decode Groups page: %w", err)
	}

	return pagination.IndexedPage[IDPGroup]{
		Items: groups,
		Total: asInt(resp.Body["totalResults"]),
	}, nil
}

// Groups returns all IdP groups visible to the SCIM token, walking the
// pages sequentially. fetchCount <= 0 uses the default page size.
func (g *IDPGroups) Groups(ctx context.Context, fetchCount int) ([]IDPGroup, error) {
	return pagination.CollectIndexed(ctx, g.groupsPage, fetchCount)
}

// GroupsConcurrent is Groups with the pages after the first fetched by a
// bounded worker pool. Useful for large grids; each page fetch still runs
// under the dispatcher's pacing.
func (g *IDPGroups) GroupsConcurrent(ctx context.Context, fetchCount int) ([]IDPGroup, error) {
	pager := pagination.NewBatchPager(g.groupsPage, pagination.DefaultBatchConfig())
	return pager.CollectAll(ctx, fetchCount)
}

// Members returns the members of a group from GET Groups/{id}.
func (g *IDPGroups) Members(ctx context.Context, groupID string) ([]GroupMember, error) {
	scimClient, err := g.c.requireSCIM()
	if err != nil {
		return nil, err
	}
	if _, err := identity.ValidateID(groupID, "group_id"); err != nil {
		return nil, err
	}

	resp, err := scimClient.Get(ctx, "Groups", groupID)
	if err != nil {
		return nil, err
	}

	var members []GroupMember
	if err := decode(resp.Body["members"], &members); err != nil {
		return nil, fmt.Errorf("decode group members: %w", err)
	}
	return members, nil
}

// IsMember reports whether userID belongs to groupID.
func (g *IDPGroups) IsMember(ctx context.Context, userID, groupID string) (bool, error) {
	if _, err := identity.ValidateID(userID, "user_id"); err != nil {
		return false, err
	}

	members, err := g.Members(ctx, groupID)
	if err != nil {
		return false, err
	}

	for _, member := range members {
		if member.Value == userID {
			return true, nil
		}
	}
	return false, nil
}
