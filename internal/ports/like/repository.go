package like

import "context"

// Repository is the outbound port for the likes table.
type Repository interface {
	// Count returns the number of likes on one post.
	Count(ctx context.Context, postID string) (int, error)

	// Exists reports definitively whether a like row exists for the
	// (post, user) pair. A transport or query failure returns an error
	// rather than a false negative.
	Exists(ctx context.Context, postID, userID string) (bool, error)

	// Create inserts the like row for the pair.
	Create(ctx context.Context, postID, userID string) error

	// Delete removes the like row for the pair.
	Delete(ctx context.Context, postID, userID string) error
}
