package api

import (
	"context"
	"net/url"

	"github.com/aesconnect/cli/pkg/logger"
)

// SearchUsers searches members by username or full name.
func (c *Client) SearchUsers(ctx context.Context, query string) (*UserSearchResponse, error) {
	logger.Debug("Searching users", "query", query)

	var resp UserSearchResponse
	path := "/utils/search/users?q=" + url.QueryEscape(query)
	if err := c.GetJSON(ctx, "search.users", path, &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}

// SearchPosts searches post content.
func (c *Client) SearchPosts(ctx context.Context, query string) (*PostSearchResponse, error) {
	logger.Debug("Searching posts", "query", query)

	var resp PostSearchResponse
	path := "/utils/search/posts?q=" + url.QueryEscape(query)
	if err := c.GetJSON(ctx, "search.posts", path, &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}
