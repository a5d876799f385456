package manager

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/aesconnect/cli/pkg/api"
	"github.com/aesconnect/cli/pkg/logger"
	"github.com/aesconnect/cli/pkg/toast"
)

// ErrToggleInFlight is returned when a like toggle is requested for a
// post that already has one in flight.
var ErrToggleInFlight = errors.New("like toggle already in flight")

// ErrEmptyContent is returned when a post or comment has no content
// after trimming.
var ErrEmptyContent = errors.New("le contenu ne peut pas être vide")

// PostManager owns the local feed state. Likes are applied
// optimistically: the local post flips immediately, then reconciles to
// the server response or rolls back on failure.
type PostManager struct {
	client *api.Client
	toasts *toast.Emitter

	mu           sync.Mutex
	posts        []api.Post
	likeInFlight map[int]bool
}

// NewPostManager creates a PostManager on top of the given client.
func NewPostManager(client *api.Client, toasts *toast.Emitter) *PostManager {
	return &PostManager{
		client:       client,
		toasts:       toasts,
		likeInFlight: make(map[int]bool),
	}
}

// LoadPosts fetches the feed and replaces the local collection.
func (m *PostManager) LoadPosts(ctx context.Context) ([]api.Post, error) {
	resp, err := m.client.GetPosts(ctx)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.posts = resp.Posts
	m.mu.Unlock()

	return m.Posts(), nil
}

// Posts returns a copy of the local feed.
func (m *PostManager) Posts() []api.Post {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]api.Post, len(m.posts))
	copy(out, m.posts)
	return out
}

// Post returns the local copy of a single post.
func (m *PostManager) Post(id int) (api.Post, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, p := range m.posts {
		if p.ID == id {
			return p, true
		}
	}
	return api.Post{}, false
}

// CreatePost validates and creates a post, invalidates the response
// cache and reloads the feed so the new post shows up immediately.
func (m *PostManager) CreatePost(ctx context.Context, content, imagePath string) (*api.Post, error) {
	if strings.TrimSpace(content) == "" && imagePath == "" {
		return nil, ErrEmptyContent
	}

	resp, err := m.client.CreatePost(ctx, content, imagePath)
	if err != nil {
		m.toasts.Error("Erreur lors de la publication")
		return nil, err
	}

	m.client.ClearCache()
	if _, err := m.LoadPosts(ctx); err != nil {
		logger.Warn("Feed reload after create failed", "error", err)
	}

	m.toasts.Success("Publication créée avec succès !")
	return &resp.Post, nil
}

// ToggleLike flips the viewer's like on a post. The local post updates
// immediately, then reconciles to the server's liked state and count.
// On failure the local post rolls back to its previous state. Only one
// toggle per post may be in flight.
func (m *PostManager) ToggleLike(ctx context.Context, postID int) error {
	m.mu.Lock()
	if m.likeInFlight[postID] {
		m.mu.Unlock()
		return ErrToggleInFlight
	}
	m.likeInFlight[postID] = true

	idx := -1
	for i := range m.posts {
		if m.posts[i].ID == postID {
			idx = i
			break
		}
	}
	if idx < 0 {
		delete(m.likeInFlight, postID)
		m.mu.Unlock()
		return errors.New("publication non trouvée")
	}

	prevLiked := m.posts[idx].UserLiked
	prevCount := m.posts[idx].LikesCount

	// Optimistic flip before the network round trip.
	if prevLiked {
		m.posts[idx].UserLiked = false
		m.posts[idx].LikesCount = prevCount - 1
	} else {
		m.posts[idx].UserLiked = true
		m.posts[idx].LikesCount = prevCount + 1
	}
	m.mu.Unlock()

	resp, err := m.client.ToggleLike(ctx, postID)

	m.mu.Lock()
	defer func() {
		delete(m.likeInFlight, postID)
		m.mu.Unlock()
	}()

	idx = -1
	for i := range m.posts {
		if m.posts[i].ID == postID {
			idx = i
			break
		}
	}

	if err != nil {
		if idx >= 0 {
			m.posts[idx].UserLiked = prevLiked
			m.posts[idx].LikesCount = prevCount
		}
		m.toasts.Error("Impossible de mettre à jour le like")
		return err
	}

	// Reconcile to the server-authoritative state.
	if idx >= 0 {
		m.posts[idx].UserLiked = resp.Liked
		m.posts[idx].LikesCount = resp.LikesCount
	}
	return nil
}

// LikeInFlight reports whether a toggle is pending for the post.
func (m *PostManager) LikeInFlight(postID int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.likeInFlight[postID]
}

// Comments fetches the comments of a post.
func (m *PostManager) Comments(ctx context.Context, postID int) ([]api.Comment, error) {
	resp, err := m.client.GetComments(ctx, postID)
	if err != nil {
		return nil, err
	}
	return resp.Comments, nil
}

// AddComment posts a comment and bumps the local comment count.
func (m *PostManager) AddComment(ctx context.Context, postID int, content string) (*api.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}

	resp, err := m.client.AddComment(ctx, postID, content)
	if err != nil {
		m.toasts.Error("Erreur lors de l'ajout du commentaire")
		return nil, err
	}

	m.mu.Lock()
	for i := range m.posts {
		if m.posts[i].ID == postID {
			m.posts[i].CommentsCount++
			break
		}
	}
	m.mu.Unlock()

	return &resp.Comment, nil
}
