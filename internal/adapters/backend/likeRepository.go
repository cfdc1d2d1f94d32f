package backend

import (
	"context"
	"errors"

	likeEntity "github.com/samliubearberkeley-oss/vibe-coding-community/internal/core/like"
	likePort "github.com/samliubearberkeley-oss/vibe-coding-community/internal/ports/like"
)

// LikeRepositoryREST implements the likes port over the service's
// table CRUD surface.
type LikeRepositoryREST struct {
	client *Client
}

func NewLikeRepositoryREST(client *Client) *LikeRepositoryREST {
	return &LikeRepositoryREST{client: client}
}

func (r *LikeRepositoryREST) Count(ctx context.Context, postID string) (int, error) {
	var rows []struct {
		ID string `json:"id"`
	}
	err := r.client.From("likes").
		Select("id").
		Eq("post_id", postID).
		Get(ctx, &rows)
	if err != nil {
		return 0, err
	}
	return len(rows), nil
}

// Exists asks for the single (post, user) row. ErrNoRows is the
// definitive "not liked"; any other failure propagates so the caller
// can keep the state unknown.
func (r *LikeRepositoryREST) Exists(ctx context.Context, postID, userID string) (bool, error) {
	var row struct {
		ID string `json:"id"`
	}
	err := r.client.From("likes").
		Select("id").
		Eq("post_id", postID).
		Eq("user_id", userID).
		Single().
		Get(ctx, &row)
	if errors.Is(err, ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *LikeRepositoryREST) Create(ctx context.Context, postID, userID string) error {
	row := map[string]string{
		"post_id": postID,
		"user_id": userID,
	}
	var created likeEntity.Like
	return r.client.From("likes").Single().Insert(ctx, row, &created)
}

func (r *LikeRepositoryREST) Delete(ctx context.Context, postID, userID string) error {
	return r.client.From("likes").
		Eq("post_id", postID).
		Eq("user_id", userID).
		Delete(ctx)
}

var _ likePort.Repository = (*LikeRepositoryREST)(nil)
