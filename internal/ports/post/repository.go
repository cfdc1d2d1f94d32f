package post

import (
	"context"

	"github.com/samliubearberkeley-oss/vibe-coding-community/internal/core/post"
)

// Repository is the outbound port for the posts table.
type Repository interface {
	// List fetches up to limit posts joined with their author summary,
	// ordered by created_at descending.
	List(ctx context.Context, limit int) ([]*post.Post, error)

	// Create inserts a post owned by userID and returns the stored row.
	Create(ctx context.Context, userID string, draft post.Draft) (*post.Post, error)

	// Update rewrites a post's body. The write is filtered by both id
	// and user_id so a non-owner write matches nothing server-side.
	Update(ctx context.Context, id, userID string, draft post.Draft) (*post.Post, error)

	// Delete removes a post, filtered by id and user_id.
	Delete(ctx context.Context, id, userID string) error
}
