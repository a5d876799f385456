package api

import (
	"context"
	"fmt"

	"github.com/aesconnect/cli/pkg/logger"
)

// GetNotifications retrieves the viewer's notifications with the
// unread count.
func (c *Client) GetNotifications(ctx context.Context) (*NotificationsResponse, error) {
	logger.Debug("Fetching notifications")

	var resp NotificationsResponse
	err := c.GetJSON(ctx, "notifications.list", "/notifications/notifications", &resp)
	if err != nil {
		return nil, err
	}

	return &resp, nil
}

// InvalidateNotifications drops the cached notification list so the
// next fetch hits the network. Called after notification mutations and
// between watch polls.
func (c *Client) InvalidateNotifications() {
	c.InvalidatePath("/notifications/notifications")
}

// MarkNotificationRead marks a single notification as read.
func (c *Client) MarkNotificationRead(ctx context.Context, id int) error {
	logger.Debug("Marking notification read", "id", id)
	return c.PutJSON(ctx, "notifications.read", fmt.Sprintf("/notifications/%d/read", id), nil, nil)
}

// MarkAllNotificationsRead marks every notification as read.
func (c *Client) MarkAllNotificationsRead(ctx context.Context) error {
	logger.Debug("Marking all notifications read")
	return c.PutJSON(ctx, "notifications.read_all", "/notifications/mark-all-read", nil, nil)
}

// DeleteNotification removes a notification.
func (c *Client) DeleteNotification(ctx context.Context, id int) error {
	logger.Debug("Deleting notification", "id", id)
	return c.DeleteJSON(ctx, "notifications.delete", fmt.Sprintf("/notifications/%d", id), nil)
}
