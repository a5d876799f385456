package api

import (
	"context"
	"fmt"
	"os"

	"github.com/aesconnect/cli/pkg/logger"
)

// GetPosts retrieves the feed (newest first). Served from the response
// cache when fresh.
func (c *Client) GetPosts(ctx context.Context) (*PostsResponse, error) {
	logger.Debug("Fetching feed")

	var resp PostsResponse
	if err := c.GetJSON(ctx, "posts.feed", "/posts/posts", &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}

// CreatePost creates a post with optional image upload (multipart).
func (c *Client) CreatePost(ctx context.Context, content, imagePath string) (*CreatePostResponse, error) {
	logger.Debug("Creating post", "has_image", imagePath != "")

	if imagePath != "" {
		if _, err := os.Stat(imagePath); err != nil {
			return nil, fmt.Errorf("image introuvable: %s", imagePath)
		}
	}

	var resp CreatePostResponse
	err := c.PostMultipart(ctx, "posts.create", "/posts/create",
		map[string]string{"content": content}, "image", imagePath, &resp)
	if err != nil {
		return nil, err
	}

	return &resp, nil
}

// ToggleLike flips the viewer's like on a post and returns the
// server-authoritative like state.
func (c *Client) ToggleLike(ctx context.Context, postID int) (*LikeResponse, error) {
	logger.Debug("Toggling like", "post_id", postID)

	var resp LikeResponse
	err := c.PostJSON(ctx, "posts.like", fmt.Sprintf("/posts/like/%d", postID), nil, &resp)
	if err != nil {
		return nil, err
	}

	return &resp, nil
}

// GetComments retrieves the comments of a post.
func (c *Client) GetComments(ctx context.Context, postID int) (*CommentsResponse, error) {
	logger.Debug("Fetching comments", "post_id", postID)

	var resp CommentsResponse
	err := c.GetJSON(ctx, "posts.comments", fmt.Sprintf("/posts/%d/comments", postID), &resp)
	if err != nil {
		return nil, err
	}

	return &resp, nil
}

// AddComment adds a comment to a post.
func (c *Client) AddComment(ctx context.Context, postID int, content string) (*AddCommentResponse, error) {
	logger.Debug("Adding comment", "post_id", postID)

	var resp AddCommentResponse
	err := c.PostJSON(ctx, "posts.comment", fmt.Sprintf("/posts/%d/comments", postID),
		map[string]string{"content": content}, &resp)
	if err != nil {
		return nil, err
	}

	return &resp, nil
}
