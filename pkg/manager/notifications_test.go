package manager

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aesconnect/cli/pkg/api"
)

type fakeNotifBackend struct {
	mu            sync.Mutex
	notifications []api.Notification
}

func (b *fakeNotifBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/notifications/notifications", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		unread := 0
		for _, n := range b.notifications {
			if !n.IsRead {
				unread++
			}
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success":       true,
			"notifications": b.notifications,
			"unread_count":  unread,
		})
	})
	mux.HandleFunc("/notifications/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true}`))
	})
	mux.HandleFunc("/notifications/mark-all-read", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		for i := range b.notifications {
			b.notifications[i].IsRead = true
		}
		b.mu.Unlock()
		w.Write([]byte(`{"success":true}`))
	})
	return mux
}

func (b *fakeNotifBackend) add(n api.Notification) {
	b.mu.Lock()
	b.notifications = append(b.notifications, n)
	b.mu.Unlock()
}

func TestNotifications_LoadTracksUnread(t *testing.T) {
	backend := &fakeNotifBackend{notifications: []api.Notification{
		{ID: 1, Type: "like", Message: "Amadou a aimé votre publication", IsRead: false},
		{ID: 2, Type: "comment", Message: "Fatou a commenté", IsRead: true},
	}}
	srv := httptest.NewServer(backend.handler())
	defer srv.Close()

	m := NewNotificationManager(newTestClient(t, srv))

	got, err := m.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, 1, m.UnreadCount())
}

func TestNotifications_MarkReadDecrementsOnce(t *testing.T) {
	backend := &fakeNotifBackend{notifications: []api.Notification{
		{ID: 1, IsRead: false},
		{ID: 2, IsRead: false},
	}}
	srv := httptest.NewServer(backend.handler())
	defer srv.Close()

	m := NewNotificationManager(newTestClient(t, srv))
	_, err := m.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, m.UnreadCount())

	require.NoError(t, m.MarkRead(context.Background(), 1))
	assert.Equal(t, 1, m.UnreadCount())

	// Marking the same notification again is a no-op locally.
	require.NoError(t, m.MarkRead(context.Background(), 1))
	assert.Equal(t, 1, m.UnreadCount())

	for _, n := range m.Notifications() {
		if n.ID == 1 {
			assert.True(t, n.IsRead)
		}
	}
}

func TestNotifications_MarkAllRead(t *testing.T) {
	backend := &fakeNotifBackend{notifications: []api.Notification{
		{ID: 1, IsRead: false},
		{ID: 2, IsRead: false},
		{ID: 3, IsRead: true},
	}}
	srv := httptest.NewServer(backend.handler())
	defer srv.Close()

	m := NewNotificationManager(newTestClient(t, srv))
	_, err := m.Load(context.Background())
	require.NoError(t, err)

	require.NoError(t, m.MarkAllRead(context.Background()))
	assert.Equal(t, 0, m.UnreadCount())
	for _, n := range m.Notifications() {
		assert.True(t, n.IsRead)
	}
}

func TestNotifications_DeleteAdjustsUnread(t *testing.T) {
	backend := &fakeNotifBackend{notifications: []api.Notification{
		{ID: 1, IsRead: false},
		{ID: 2, IsRead: true},
	}}
	srv := httptest.NewServer(backend.handler())
	defer srv.Close()

	m := NewNotificationManager(newTestClient(t, srv))
	_, err := m.Load(context.Background())
	require.NoError(t, err)

	require.NoError(t, m.Delete(context.Background(), 1))
	assert.Equal(t, 0, m.UnreadCount())
	assert.Len(t, m.Notifications(), 1)

	require.NoError(t, m.Delete(context.Background(), 2))
	assert.Empty(t, m.Notifications())
	assert.Equal(t, 0, m.UnreadCount())
}

func TestNotifications_WatchReportsFreshOnly(t *testing.T) {
	backend := &fakeNotifBackend{notifications: []api.Notification{
		{ID: 1, Message: "ancienne", IsRead: true},
	}}
	srv := httptest.NewServer(backend.handler())
	defer srv.Close()

	m := NewNotificationManager(newTestClient(t, srv))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var batches [][]api.Notification

	done := make(chan error, 1)
	go func() {
		done <- m.Watch(ctx, 20*time.Millisecond, func(fresh []api.Notification, unread int) {
			mu.Lock()
			batches = append(batches, fresh)
			mu.Unlock()
		})
	}()

	// First poll reports the existing notification.
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(batches) == 1
	}, time.Second, 5*time.Millisecond)

	backend.add(api.Notification{ID: 2, Message: "nouvelle", IsRead: false})

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(batches) == 2
	}, time.Second, 5*time.Millisecond)

	mu.Lock()
	require.Len(t, batches[1], 1)
	assert.Equal(t, "nouvelle", batches[1][0].Message)
	mu.Unlock()

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}
