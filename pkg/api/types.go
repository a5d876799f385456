package api

import "time"

// Auth request/response types

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Country  string `json:"country,omitempty"`
	City     string `json:"city,omitempty"`
}

type LoginResponse struct {
	Message string `json:"message"`
	User    User   `json:"user"`
}

type RegisterResponse struct {
	Message string `json:"message"`
	User    User   `json:"user"`
}

// User is a member of the network. The same shape is returned by the
// profile endpoints and embedded in search results.
type User struct {
	ID        int       `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	FullName  string    `json:"full_name"`
	Bio       string    `json:"bio,omitempty"`
	Country   string    `json:"country,omitempty"`
	City      string    `json:"city,omitempty"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

type UpdateProfileRequest struct {
	FullName  string `json:"full_name,omitempty"`
	Bio       string `json:"bio,omitempty"`
	Country   string `json:"country,omitempty"`
	City      string `json:"city,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// Post is one feed entry, denormalized with its author and the
// viewer-relative like flag.
type Post struct {
	ID            int       `json:"id"`
	UserID        int       `json:"user_id"`
	Username      string    `json:"username"`
	FullName      string    `json:"full_name,omitempty"`
	AvatarURL     string    `json:"avatar_url,omitempty"`
	Content       string    `json:"content"`
	ImageURL      string    `json:"image_url,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	LikesCount    int       `json:"likes_count"`
	CommentsCount int       `json:"comments_count"`
	UserLiked     bool      `json:"user_liked"`
}

type PostsResponse struct {
	Success bool   `json:"success"`
	Posts   []Post `json:"posts"`
}

type CreatePostResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Post    Post   `json:"post"`
}

// LikeResponse carries the server-authoritative like state used to
// reconcile the optimistic local update.
type LikeResponse struct {
	Success    bool `json:"success"`
	Liked      bool `json:"liked"`
	LikesCount int  `json:"likes_count"`
}

type Comment struct {
	ID        int       `json:"id"`
	PostID    int       `json:"post_id"`
	UserID    int       `json:"user_id"`
	Username  string    `json:"username"`
	FullName  string    `json:"full_name,omitempty"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type CommentsResponse struct {
	Success  bool      `json:"success"`
	Comments []Comment `json:"comments"`
}

type AddCommentResponse struct {
	Success bool    `json:"success"`
	Comment Comment `json:"comment"`
}

// Notification is a server-side notification (like, comment, ...), not
// to be confused with the transient toast feedback.
type Notification struct {
	ID        int       `json:"id"`
	Type      string    `json:"type"`
	ActorID   int       `json:"actor_id,omitempty"`
	PostID    int       `json:"post_id,omitempty"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

type NotificationsResponse struct {
	Success       bool           `json:"success"`
	Notifications []Notification `json:"notifications"`
	UnreadCount   int            `json:"unread_count"`
}

// Search result sets, replaced wholesale per query

type UserSearchResponse struct {
	Success bool   `json:"success"`
	Users   []User `json:"users"`
}

type PostSearchResponse struct {
	Success bool   `json:"success"`
	Posts   []Post `json:"posts"`
}

type ReportRequest struct {
	ReportedPostID int    `json:"reported_post_id,omitempty"`
	ReportedUserID int    `json:"reported_user_id,omitempty"`
	Reason         string `json:"reason"`
}

type ReportResponse struct {
	Message  string `json:"message"`
	ReportID int    `json:"report_id"`
}

type HealthResponse struct {
	Message  string `json:"message"`
	Database string `json:"database,omitempty"`
}

type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
