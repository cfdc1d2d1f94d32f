package backend

import (
	"context"

	commentEntity "github.com/samliubearberkeley-oss/vibe-coding-community/internal/core/comment"
	commentPort "github.com/samliubearberkeley-oss/vibe-coding-community/internal/ports/comment"
)

// CommentRepositoryREST implements the comments port over the
// service's table CRUD surface.
type CommentRepositoryREST struct {
	client *Client
}

func NewCommentRepositoryREST(client *Client) *CommentRepositoryREST {
	return &CommentRepositoryREST{client: client}
}

func (r *CommentRepositoryREST) ListByPost(ctx context.Context, postID string) ([]*commentEntity.Comment, error) {
	var comments []*commentEntity.Comment
	err := r.client.From("comments").
		Select(authorJoin).
		Eq("post_id", postID).
		Order("created_at", false).
		Get(ctx, &comments)
	if err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *CommentRepositoryREST) CountByPost(ctx context.Context, postID string) (int, error) {
	var rows []struct {
		ID string `json:"id"`
	}
	err := r.client.From("comments").
		Select("id").
		Eq("post_id", postID).
		Get(ctx, &rows)
	if err != nil {
		return 0, err
	}
	return len(rows), nil
}

func (r *CommentRepositoryREST) Create(ctx context.Context, postID, userID, content string) (*commentEntity.Comment, error) {
	row := map[string]string{
		"post_id": postID,
		"user_id": userID,
		"content": content,
	}
	var created commentEntity.Comment
	err := r.client.From("comments").Single().Insert(ctx, row, &created)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *CommentRepositoryREST) Delete(ctx context.Context, id, userID string) error {
	return r.client.From("comments").
		Eq("id", id).
		Eq("user_id", userID).
		Delete(ctx)
}

var _ commentPort.Repository = (*CommentRepositoryREST)(nil)
