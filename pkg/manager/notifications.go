package manager

import (
	"context"
	"sync"
	"time"

	"github.com/aesconnect/cli/pkg/api"
	"github.com/aesconnect/cli/pkg/logger"
)

// DefaultPollInterval is how often Watch polls for new notifications.
const DefaultPollInterval = 30 * time.Second

// NotificationManager owns the local notification collection and its
// unread count, kept in step with server mutations.
type NotificationManager struct {
	client *api.Client

	mu            sync.Mutex
	notifications []api.Notification
	unread        int
}

// NewNotificationManager creates a NotificationManager on top of the
// given client.
func NewNotificationManager(client *api.Client) *NotificationManager {
	return &NotificationManager{client: client}
}

// Load fetches the notifications and replaces the local collection.
func (m *NotificationManager) Load(ctx context.Context) ([]api.Notification, error) {
	resp, err := m.client.GetNotifications(ctx)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.notifications = resp.Notifications
	m.unread = resp.UnreadCount
	m.mu.Unlock()

	return m.Notifications(), nil
}

// Notifications returns a copy of the local collection.
func (m *NotificationManager) Notifications() []api.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]api.Notification, len(m.notifications))
	copy(out, m.notifications)
	return out
}

// UnreadCount returns the local unread count.
func (m *NotificationManager) UnreadCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.unread
}

// MarkRead marks one notification read, server first, then locally.
func (m *NotificationManager) MarkRead(ctx context.Context, id int) error {
	if err := m.client.MarkNotificationRead(ctx, id); err != nil {
		return err
	}
	m.client.InvalidateNotifications()

	m.mu.Lock()
	for i := range m.notifications {
		if m.notifications[i].ID == id {
			if !m.notifications[i].IsRead {
				m.notifications[i].IsRead = true
				m.unread--
			}
			break
		}
	}
	m.mu.Unlock()

	return nil
}

// MarkAllRead marks every notification read.
func (m *NotificationManager) MarkAllRead(ctx context.Context) error {
	if err := m.client.MarkAllNotificationsRead(ctx); err != nil {
		return err
	}
	m.client.InvalidateNotifications()

	m.mu.Lock()
	for i := range m.notifications {
		m.notifications[i].IsRead = true
	}
	m.unread = 0
	m.mu.Unlock()

	return nil
}

// Delete removes a notification, server first, then locally.
func (m *NotificationManager) Delete(ctx context.Context, id int) error {
	if err := m.client.DeleteNotification(ctx, id); err != nil {
		return err
	}
	m.client.InvalidateNotifications()

	m.mu.Lock()
	for i := range m.notifications {
		if m.notifications[i].ID == id {
			if !m.notifications[i].IsRead {
				m.unread--
			}
			m.notifications = append(m.notifications[:i], m.notifications[i+1:]...)
			break
		}
	}
	m.mu.Unlock()

	return nil
}

// Watch polls for notifications until the context is done, invoking fn
// with notifications not seen in a previous poll. Poll failures are
// logged and the loop keeps going.
func (m *NotificationManager) Watch(ctx context.Context, interval time.Duration, fn func([]api.Notification, int)) error {
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	seen := make(map[int]bool)

	poll := func() {
		m.client.InvalidateNotifications()
		resp, err := m.client.GetNotifications(ctx)
		if err != nil {
			logger.Warn("Notification poll failed", "error", err)
			return
		}

		m.mu.Lock()
		m.notifications = resp.Notifications
		m.unread = resp.UnreadCount
		m.mu.Unlock()

		var fresh []api.Notification
		for _, n := range resp.Notifications {
			if !seen[n.ID] {
				seen[n.ID] = true
				fresh = append(fresh, n)
			}
		}
		if len(fresh) > 0 && fn != nil {
			fn(fresh, resp.UnreadCount)
		}
	}

	poll()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			poll()
		}
	}
}
