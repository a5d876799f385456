package manager

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/aesconnect/cli/pkg/api"
)

// DefaultDebounce matches the web client's keystroke debounce window.
const DefaultDebounce = 500 * time.Millisecond

// MinQueryLength is the shortest query that triggers a network search.
const MinQueryLength = 2

// SearchKind selects which index a search runs against.
type SearchKind string

const (
	SearchUsers SearchKind = "users"
	SearchPosts SearchKind = "posts"
)

// SearchResults is one query's result set. Result sets are replaced
// wholesale per query, never merged.
type SearchResults struct {
	Query string
	Users []api.User
	Posts []api.Post
}

// SearchManager debounces queries and drops stale responses: every
// query bumps a sequence number, and only the response matching the
// latest sequence is allowed to update results.
type SearchManager struct {
	client   *api.Client
	debounce time.Duration

	mu      sync.Mutex
	seq     uint64
	timer   *time.Timer
	results map[SearchKind]SearchResults
}

// NewSearchManager creates a SearchManager with the given debounce
// window. Zero means DefaultDebounce.
func NewSearchManager(client *api.Client, debounce time.Duration) *SearchManager {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &SearchManager{
		client:   client,
		debounce: debounce,
		results:  make(map[SearchKind]SearchResults),
	}
}

// Search runs a query immediately, bypassing the debounce. Used for
// one-shot lookups.
func (m *SearchManager) Search(ctx context.Context, kind SearchKind, query string) (SearchResults, error) {
	m.mu.Lock()
	m.seq++
	seq := m.seq
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	m.mu.Unlock()

	return m.run(ctx, seq, kind, query, nil)
}

// DebouncedSearch schedules a query after the debounce window. A newer
// call cancels the pending one, so only the trailing query fires. fn
// receives the results unless a later query superseded this one.
func (m *SearchManager) DebouncedSearch(ctx context.Context, kind SearchKind, query string, fn func(SearchResults, error)) {
	m.mu.Lock()
	m.seq++
	seq := m.seq
	if m.timer != nil {
		m.timer.Stop()
	}
	m.timer = time.AfterFunc(m.debounce, func() {
		m.run(ctx, seq, kind, query, fn)
	})
	m.mu.Unlock()
}

// Results returns the latest result set for the kind.
func (m *SearchManager) Results(kind SearchKind) SearchResults {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.results[kind]
}

func (m *SearchManager) run(ctx context.Context, seq uint64, kind SearchKind, query string, fn func(SearchResults, error)) (SearchResults, error) {
	query = strings.TrimSpace(query)

	res := SearchResults{Query: query}
	var err error

	// Short queries clear results without a network call.
	if len([]rune(query)) >= MinQueryLength {
		switch kind {
		case SearchPosts:
			var resp *api.PostSearchResponse
			if resp, err = m.client.SearchPosts(ctx, query); err == nil {
				res.Posts = resp.Posts
			}
		default:
			var resp *api.UserSearchResponse
			if resp, err = m.client.SearchUsers(ctx, query); err == nil {
				res.Users = resp.Users
			}
		}
	}

	m.mu.Lock()
	if seq != m.seq {
		// A newer query superseded this one; drop the response.
		m.mu.Unlock()
		return SearchResults{}, context.Canceled
	}
	if err == nil {
		m.results[kind] = res
	}
	m.mu.Unlock()

	if fn != nil {
		fn(res, err)
	}
	return res, err
}
