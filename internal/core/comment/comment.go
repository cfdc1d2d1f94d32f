package comment

import (
	"time"

	"github.com/samliubearberkeley-oss/vibe-coding-community/internal/core/post"
)

// Comment is a single comment row joined with its author summary.
type Comment struct {
	ID        string      `json:"id"`
	Content   string      `json:"content"`
	CreatedAt time.Time   `json:"created_at"`
	UserID    string      `json:"user_id"`
	PostID    string      `json:"post_id"`
	Author    post.Author `json:"users"`
}

// OwnedBy reports whether userID wrote this comment.
func (c *Comment) OwnedBy(userID string) bool {
	return userID != "" && c.UserID == userID
}
