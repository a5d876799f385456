package credentials

import (
	"encoding/json"
	"os"
	"time"

	"github.com/aesconnect/cli/pkg/config"
)

// Session is the persisted server session: the backend's session cookie
// plus a snapshot of the authenticated viewer. It is the CLI analog of
// the browser's cookie jar.
type Session struct {
	CookieName  string    `json:"cookie_name"`
	CookieValue string    `json:"cookie_value"`
	UserID      int       `json:"user_id"`
	Username    string    `json:"username"`
	FullName    string    `json:"full_name"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	SavedAt     time.Time `json:"saved_at"`
}

// Load loads the stored session from disk. Returns (nil, nil) when no
// session has been saved yet.
func Load() (*Session, error) {
	path := config.GetSessionPath()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, err
	}

	return &sess, nil
}

// Save saves the session to disk with owner-only permissions.
func Save(sess *Session) error {
	path := config.GetSessionPath()

	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}

// Delete removes the stored session. Missing files are not an error so
// logout stays best-effort.
func Delete() error {
	err := os.Remove(config.GetSessionPath())
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// IsValid reports whether the session carries a usable cookie.
func (s *Session) IsValid() bool {
	return s != nil && s.CookieValue != ""
}
