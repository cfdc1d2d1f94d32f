package backend

import (
	"context"

	postEntity "github.com/samliubearberkeley-oss/vibe-coding-community/internal/core/post"
	postPort "github.com/samliubearberkeley-oss/vibe-coding-community/internal/ports/post"
)

// authorJoin embeds the author summary into post and comment rows.
const authorJoin = "*, users!inner(id, nickname, avatar_url)"

// postRow is the write shape for the posts table. Tags marshals to
// null when nil, keeping "no tags" distinct from an empty list.
type postRow struct {
	UserID  string   `json:"user_id,omitempty"`
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

// PostRepositoryREST implements the posts port over the service's
// table CRUD surface.
type PostRepositoryREST struct {
	client *Client
}

func NewPostRepositoryREST(client *Client) *PostRepositoryREST {
	return &PostRepositoryREST{client: client}
}

func (r *PostRepositoryREST) List(ctx context.Context, limit int) ([]*postEntity.Post, error) {
	var posts []*postEntity.Post
	err := r.client.From("posts").
		Select(authorJoin).
		Order("created_at", true).
		Limit(limit).
		Get(ctx, &posts)
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *PostRepositoryREST) Create(ctx context.Context, userID string, draft postEntity.Draft) (*postEntity.Post, error) {
	row := postRow{
		UserID:  userID,
		Title:   draft.Title,
		Content: draft.Content,
		Tags:    draft.Tags,
	}
	var created postEntity.Post
	err := r.client.From("posts").Single().Insert(ctx, row, &created)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *PostRepositoryREST) Update(ctx context.Context, id, userID string, draft postEntity.Draft) (*postEntity.Post, error) {
	changes := postRow{
		Title:   draft.Title,
		Content: draft.Content,
		Tags:    draft.Tags,
	}
	var updated postEntity.Post
	err := r.client.From("posts").
		Eq("id", id).
		Eq("user_id", userID).
		Single().
		Update(ctx, changes, &updated)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *PostRepositoryREST) Delete(ctx context.Context, id, userID string) error {
	return r.client.From("posts").
		Eq("id", id).
		Eq("user_id", userID).
		Delete(ctx)
}

var _ postPort.Repository = (*PostRepositoryREST)(nil)
