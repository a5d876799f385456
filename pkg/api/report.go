package api

import (
	"context"

	"github.com/aesconnect/cli/pkg/logger"
)

// Report flags a post or a user to moderation.
func (c *Client) Report(ctx context.Context, req ReportRequest) (*ReportResponse, error) {
	logger.Debug("Reporting content",
		"post_id", req.ReportedPostID, "user_id", req.ReportedUserID)

	var resp ReportResponse
	if err := c.PostJSON(ctx, "utils.report", "/utils/report", req, &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}

// Health checks the backend's health endpoint.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	logger.Debug("Checking API health")

	var resp HealthResponse
	if err := c.GetJSON(ctx, "utils.health", "/utils/health", &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}
