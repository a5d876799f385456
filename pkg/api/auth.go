package api

import (
	"context"

	"github.com/aesconnect/cli/pkg/logger"
)

// Login authenticates with username (or email) and password. The
// session cookie lands in the client's jar.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	logger.Debug("Attempting login", "username", username)

	var resp LoginResponse
	err := c.PostJSON(ctx, "auth.login", "/auth/login", LoginRequest{
		Username: username,
		Password: password,
	}, &resp)
	if err != nil {
		return nil, err
	}

	logger.Debug("Login successful", "username", resp.User.Username)
	return &resp, nil
}

// Logout invalidates the server session.
func (c *Client) Logout(ctx context.Context) error {
	logger.Debug("Logging out")
	return c.PostJSON(ctx, "auth.logout", "/auth/logout", nil, nil)
}

// Register creates a new account. The backend logs the new user in.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	logger.Debug("Registering account", "username", req.Username)

	var resp RegisterResponse
	if err := c.PostJSON(ctx, "auth.register", "/auth/register", req, &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}

// GetProfile fetches the authenticated viewer. Returns a 401 APIError
// when the session is missing or expired.
func (c *Client) GetProfile(ctx context.Context) (*User, error) {
	logger.Debug("Fetching current user profile")

	var user User
	if err := c.GetJSON(ctx, "auth.profile", "/auth/profile", &user); err != nil {
		return nil, err
	}

	return &user, nil
}

// UpdateProfile updates the viewer's editable profile fields.
func (c *Client) UpdateProfile(ctx context.Context, req UpdateProfileRequest) (*User, error) {
	logger.Debug("Updating profile")

	var resp struct {
		Success bool `json:"success"`
		User    User `json:"user"`
	}
	if err := c.PutJSON(ctx, "auth.profile.update", "/auth/profile", req, &resp); err != nil {
		return nil, err
	}

	return &resp.User, nil
}

// UploadAvatar uploads a new profile picture.
func (c *Client) UploadAvatar(ctx context.Context, imagePath string) (string, error) {
	logger.Debug("Uploading avatar", "file", imagePath)

	var resp struct {
		Success   bool   `json:"success"`
		AvatarURL string `json:"avatar_url"`
	}
	err := c.PostMultipart(ctx, "auth.avatar", "/auth/profile/avatar", nil, "avatar", imagePath, &resp)
	if err != nil {
		return "", err
	}

	return resp.AvatarURL, nil
}
