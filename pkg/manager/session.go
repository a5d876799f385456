package manager

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sync"
	"time"

	"github.com/aesconnect/cli/pkg/api"
	"github.com/aesconnect/cli/pkg/credentials"
	"github.com/aesconnect/cli/pkg/logger"
	"github.com/aesconnect/cli/pkg/toast"
)

var (
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]{3,}$`)
	emailRe    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// SessionManager owns the authentication lifecycle: login, logout,
// registration and the persisted session cookie.
type SessionManager struct {
	client *api.Client
	toasts *toast.Emitter

	mu     sync.Mutex
	viewer *api.User

	save   func(*credentials.Session) error
	load   func() (*credentials.Session, error)
	delete func() error
}

// NewSessionManager creates a SessionManager on top of the given client.
func NewSessionManager(client *api.Client, toasts *toast.Emitter) *SessionManager {
	return &SessionManager{
		client: client,
		toasts: toasts,
		save:   credentials.Save,
		load:   credentials.Load,
		delete: credentials.Delete,
	}
}

// Restore installs a previously persisted session cookie into the
// client. Returns true when a stored session was found.
func (m *SessionManager) Restore() bool {
	sess, err := m.load()
	if err != nil {
		logger.Warn("Could not read stored session", "error", err)
		return false
	}
	if !sess.IsValid() {
		return false
	}

	m.client.SetSessionCookie(sess.CookieName, sess.CookieValue)

	m.mu.Lock()
	m.viewer = &api.User{
		ID:        sess.UserID,
		Username:  sess.Username,
		FullName:  sess.FullName,
		AvatarURL: sess.AvatarURL,
	}
	m.mu.Unlock()

	return true
}

// Login authenticates and persists the session cookie so later
// invocations stay logged in.
func (m *SessionManager) Login(ctx context.Context, username, password string) (*api.User, error) {
	resp, err := m.client.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	user := resp.User
	m.viewer = &user
	m.mu.Unlock()

	m.persist(&user)
	m.toasts.Success("Connexion réussie ! Bienvenue %s", user.Username)
	return &user, nil
}

// Logout ends the session. The server call is best-effort: local state
// clears whether or not the server answered.
func (m *SessionManager) Logout(ctx context.Context) error {
	if err := m.client.Logout(ctx); err != nil {
		logger.Warn("Server logout failed, clearing local session anyway", "error", err)
	}

	m.mu.Lock()
	m.viewer = nil
	m.mu.Unlock()

	m.client.ClearCache()
	if err := m.delete(); err != nil {
		return err
	}

	m.toasts.Info("Vous êtes déconnecté")
	return nil
}

// Register validates the form client-side, then creates the account.
// The backend logs the new user in, so the session persists like login.
func (m *SessionManager) Register(ctx context.Context, req api.RegisterRequest) (*api.User, error) {
	if err := ValidateRegistration(req); err != nil {
		return nil, err
	}

	resp, err := m.client.Register(ctx, req)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	user := resp.User
	m.viewer = &user
	m.mu.Unlock()

	m.persist(&user)
	m.toasts.Success("Compte créé avec succès ! Bienvenue %s", user.Username)
	return &user, nil
}

// CurrentViewer fetches the authenticated profile. Any failure counts
// as unauthenticated: the probe never blocks startup on a dead server.
func (m *SessionManager) CurrentViewer(ctx context.Context) (*api.User, error) {
	user, err := m.client.GetProfile(ctx)
	if err != nil {
		m.mu.Lock()
		m.viewer = nil
		m.mu.Unlock()
		return nil, err
	}

	m.mu.Lock()
	m.viewer = user
	m.mu.Unlock()

	return user, nil
}

// Viewer returns the cached viewer snapshot, which may be stale until
// CurrentViewer confirms it against the server.
func (m *SessionManager) Viewer() *api.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.viewer
}

// IsAuthenticated reports whether a viewer snapshot is present.
func (m *SessionManager) IsAuthenticated() bool {
	return m.Viewer() != nil
}

func (m *SessionManager) persist(user *api.User) {
	ck := m.client.SessionCookie()
	if ck == nil {
		logger.Warn("No session cookie after authentication")
		return
	}

	err := m.save(&credentials.Session{
		CookieName:  ck.Name,
		CookieValue: ck.Value,
		UserID:      user.ID,
		Username:    user.Username,
		FullName:    user.FullName,
		AvatarURL:   user.AvatarURL,
		SavedAt:     time.Now(),
	})
	if err != nil {
		logger.Warn("Could not persist session", "error", err)
	}
}

// ValidateRegistration checks the registration form before any network
// call, mirroring the signup form's client-side rules.
func ValidateRegistration(req api.RegisterRequest) error {
	if !usernameRe.MatchString(req.Username) {
		return errors.New("le nom d'utilisateur doit contenir au moins 3 caractères (lettres, chiffres, tiret bas)")
	}
	if !emailRe.MatchString(req.Email) {
		return errors.New("adresse email invalide")
	}
	if len(req.Password) < 6 {
		return fmt.Errorf("le mot de passe doit contenir au moins 6 caractères")
	}
	return nil
}
