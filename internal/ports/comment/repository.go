package comment

import (
	"context"

	"github.com/samliubearberkeley-oss/vibe-coding-community/internal/core/comment"
)

// Repository is the outbound port for the comments table.
type Repository interface {
	// ListByPost fetches all comments for one post joined with their
	// author summary, ordered by created_at ascending.
	ListByPost(ctx context.Context, postID string) ([]*comment.Comment, error)

	// CountByPost returns the number of comments on one post.
	CountByPost(ctx context.Context, postID string) (int, error)

	// Create inserts a comment by userID on postID.
	Create(ctx context.Context, postID, userID, content string) (*comment.Comment, error)

	// Delete removes a comment, filtered by id and user_id.
	Delete(ctx context.Context, id, userID string) error
}
