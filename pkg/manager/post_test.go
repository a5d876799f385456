package manager

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aesconnect/cli/pkg/api"
	"github.com/aesconnect/cli/pkg/cache"
	"github.com/aesconnect/cli/pkg/retry"
	"github.com/aesconnect/cli/pkg/toast"
)

func newTestClient(t *testing.T, srv *httptest.Server) *api.Client {
	t.Helper()

	c, err := api.NewClient(api.Options{
		BaseURL: srv.URL,
		Timeout: 5 * time.Second,
		Cache:   cache.New(time.Minute),
		Retry:   retry.NewPolicy(1, 0),
	})
	require.NoError(t, err)
	return c
}

func newTestToasts() *toast.Emitter {
	return toast.NewEmitter(io.Discard)
}

func feedHandler(posts *[]api.Post) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"posts":   *posts,
		})
	}
}

func TestToggleLike_OptimisticThenReconciled(t *testing.T) {
	posts := []api.Post{{ID: 1, Content: "Vive le Sahel", LikesCount: 3, UserLiked: false}}

	mux := http.NewServeMux()
	mux.HandleFunc("/posts/posts", feedHandler(&posts))
	mux.HandleFunc("/posts/like/1", func(w http.ResponseWriter, r *http.Request) {
		// Server settles on a different count than the optimistic one.
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true, "liked": true, "likes_count": 7,
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	m := NewPostManager(newTestClient(t, srv), newTestToasts())
	_, err := m.LoadPosts(context.Background())
	require.NoError(t, err)

	require.NoError(t, m.ToggleLike(context.Background(), 1))

	p, ok := m.Post(1)
	require.True(t, ok)
	assert.True(t, p.UserLiked)
	assert.Equal(t, 7, p.LikesCount)
}

func TestToggleLike_RollsBackOnFailure(t *testing.T) {
	posts := []api.Post{{ID: 1, Content: "Bonjour", LikesCount: 3, UserLiked: false}}

	mux := http.NewServeMux()
	mux.HandleFunc("/posts/posts", feedHandler(&posts))
	mux.HandleFunc("/posts/like/1", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"impossible"}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	m := NewPostManager(newTestClient(t, srv), newTestToasts())
	_, err := m.LoadPosts(context.Background())
	require.NoError(t, err)

	require.Error(t, m.ToggleLike(context.Background(), 1))

	p, _ := m.Post(1)
	assert.False(t, p.UserLiked)
	assert.Equal(t, 3, p.LikesCount)
	assert.False(t, m.LikeInFlight(1))
}

func TestToggleLike_OptimisticFlipVisibleBeforeResponse(t *testing.T) {
	posts := []api.Post{{ID: 1, LikesCount: 0, UserLiked: false}}
	release := make(chan struct{})

	mux := http.NewServeMux()
	mux.HandleFunc("/posts/posts", feedHandler(&posts))
	mux.HandleFunc("/posts/like/1", func(w http.ResponseWriter, r *http.Request) {
		<-release
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true, "liked": true, "likes_count": 1,
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	m := NewPostManager(newTestClient(t, srv), newTestToasts())
	_, err := m.LoadPosts(context.Background())
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- m.ToggleLike(context.Background(), 1) }()

	// The flip lands before the server has answered.
	assert.Eventually(t, func() bool {
		p, _ := m.Post(1)
		return p.UserLiked && p.LikesCount == 1
	}, time.Second, 5*time.Millisecond)

	close(release)
	require.NoError(t, <-done)
}

func TestToggleLike_SingleInFlightPerPost(t *testing.T) {
	posts := []api.Post{{ID: 1, LikesCount: 0, UserLiked: false}}
	var likeHits int32
	release := make(chan struct{})

	mux := http.NewServeMux()
	mux.HandleFunc("/posts/posts", feedHandler(&posts))
	mux.HandleFunc("/posts/like/1", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&likeHits, 1)
		<-release
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true, "liked": true, "likes_count": 1,
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	m := NewPostManager(newTestClient(t, srv), newTestToasts())
	_, err := m.LoadPosts(context.Background())
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- m.ToggleLike(context.Background(), 1) }()

	require.Eventually(t, func() bool {
		return m.LikeInFlight(1)
	}, time.Second, 5*time.Millisecond)

	// Second toggle while the first is pending is rejected locally.
	err = m.ToggleLike(context.Background(), 1)
	assert.ErrorIs(t, err, ErrToggleInFlight)

	close(release)
	require.NoError(t, <-done)

	assert.Equal(t, int32(1), atomic.LoadInt32(&likeHits))
	assert.False(t, m.LikeInFlight(1))
}

func TestToggleLike_UnknownPost(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	m := NewPostManager(newTestClient(t, srv), newTestToasts())
	assert.Error(t, m.ToggleLike(context.Background(), 42))
}

func TestCreatePost_InvalidatesCacheAndReloads(t *testing.T) {
	var posts []api.Post
	var feedHits int32
	nextID := 1

	mux := http.NewServeMux()
	mux.HandleFunc("/posts/posts", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&feedHits, 1)
		feedHandler(&posts)(w, r)
	})
	mux.HandleFunc("/posts/create", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		p := api.Post{ID: nextID, Content: r.FormValue("content")}
		nextID++
		posts = append([]api.Post{p}, posts...)
		json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "post": p})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	m := NewPostManager(newTestClient(t, srv), newTestToasts())

	// Prime the cache with an empty feed.
	_, err := m.LoadPosts(context.Background())
	require.NoError(t, err)
	require.Equal(t, int32(1), atomic.LoadInt32(&feedHits))

	created, err := m.CreatePost(context.Background(), "Bonjour Sahel", "")
	require.NoError(t, err)
	assert.Equal(t, "Bonjour Sahel", created.Content)

	// The reload bypassed the stale cached feed.
	assert.Equal(t, int32(2), atomic.LoadInt32(&feedHits))

	got := m.Posts()
	require.Len(t, got, 1)
	assert.Equal(t, "Bonjour Sahel", got[0].Content)
	assert.Equal(t, 0, got[0].LikesCount)
}

func TestCreatePost_EmptyContentRejectedLocally(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer srv.Close()

	m := NewPostManager(newTestClient(t, srv), newTestToasts())

	_, err := m.CreatePost(context.Background(), "   ", "")
	assert.ErrorIs(t, err, ErrEmptyContent)
	assert.Equal(t, int32(0), atomic.LoadInt32(&hits))
}

func TestAddComment_BumpsLocalCount(t *testing.T) {
	posts := []api.Post{{ID: 1, Content: "post", CommentsCount: 2}}

	mux := http.NewServeMux()
	mux.HandleFunc("/posts/posts", feedHandler(&posts))
	mux.HandleFunc("/posts/1/comments", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"comment": api.Comment{ID: 9, PostID: 1, Content: "bienvenue"},
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	m := NewPostManager(newTestClient(t, srv), newTestToasts())
	_, err := m.LoadPosts(context.Background())
	require.NoError(t, err)

	c, err := m.AddComment(context.Background(), 1, "bienvenue")
	require.NoError(t, err)
	assert.Equal(t, "bienvenue", c.Content)

	p, _ := m.Post(1)
	assert.Equal(t, 3, p.CommentsCount)
}

func TestLoadPosts_ReturnsCopy(t *testing.T) {
	posts := []api.Post{{ID: 1, Content: "original"}}

	mux := http.NewServeMux()
	mux.HandleFunc("/posts/posts", feedHandler(&posts))
	srv := httptest.NewServer(mux)
	defer srv.Close()

	m := NewPostManager(newTestClient(t, srv), newTestToasts())
	got, err := m.LoadPosts(context.Background())
	require.NoError(t, err)

	got[0].Content = "mutated"
	p, _ := m.Post(1)
	assert.Equal(t, "original", p.Content)
}

func TestToggleLike_IndependentPosts(t *testing.T) {
	posts := []api.Post{
		{ID: 1, LikesCount: 0, UserLiked: false},
		{ID: 2, LikesCount: 5, UserLiked: true},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/posts/posts", feedHandler(&posts))
	for _, id := range []int{1, 2} {
		id := id
		mux.HandleFunc(fmt.Sprintf("/posts/like/%d", id), func(w http.ResponseWriter, r *http.Request) {
			liked := id == 1
			count := 1
			if id == 2 {
				count = 4
			}
			json.NewEncoder(w).Encode(map[string]interface{}{
				"success": true, "liked": liked, "likes_count": count,
			})
		})
	}
	srv := httptest.NewServer(mux)
	defer srv.Close()

	m := NewPostManager(newTestClient(t, srv), newTestToasts())
	_, err := m.LoadPosts(context.Background())
	require.NoError(t, err)

	require.NoError(t, m.ToggleLike(context.Background(), 1))
	require.NoError(t, m.ToggleLike(context.Background(), 2))

	p1, _ := m.Post(1)
	p2, _ := m.Post(2)
	assert.True(t, p1.UserLiked)
	assert.Equal(t, 1, p1.LikesCount)
	assert.False(t, p2.UserLiked)
	assert.Equal(t, 4, p2.LikesCount)
}
