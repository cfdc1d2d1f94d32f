package likeapp

import (
	"context"
	"errors"
	"testing"

	likeEntity "github.com/samliubearberkeley-oss/vibe-coding-community/internal/core/like"
	"github.com/samliubearberkeley-oss/vibe-coding-community/internal/core/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeLikeRepo struct {
	count     int
	countErr  error
	exists    bool
	existsErr error

	createdFor string
	deletedFor string
	createErr  error
	deleteErr  error
}

func (f *fakeLikeRepo) Count(ctx context.Context, postID string) (int, error) {
	return f.count, f.countErr
}

func (f *fakeLikeRepo) Exists(ctx context.Context, postID, userID string) (bool, error) {
	return f.exists, f.existsErr
}

func (f *fakeLikeRepo) Create(ctx context.Context, postID, userID string) error {
	f.createdFor = postID
	return f.createErr
}

func (f *fakeLikeRepo) Delete(ctx context.Context, postID, userID string) error {
	f.deletedFor = postID
	return f.deleteErr
}

func viewer(id string) *session.Session {
	return &session.Session{User: &session.User{ID: id}}
}

func TestResolveAnonymousViewer(t *testing.T) {
	svc := NewLikeService(&fakeLikeRepo{count: 3}, zap.NewNop())

	st, err := svc.Resolve(context.Background(), "p1", nil)
	require.NoError(t, err)
	assert.Equal(t, 3, st.Count)
	assert.Equal(t, likeEntity.StatusNotLiked, st.Status)
}

func TestResolveSignedInViewer(t *testing.T) {
	svc := NewLikeService(&fakeLikeRepo{count: 1, exists: true}, zap.NewNop())

	st, err := svc.Resolve(context.Background(), "p1", viewer("u1"))
	require.NoError(t, err)
	assert.Equal(t, likeEntity.StatusLiked, st.Status)
}

func TestResolveExistenceFailureStaysUnknown(t *testing.T) {
	repo := &fakeLikeRepo{count: 2, existsErr: errors.New("timeout")}
	svc := NewLikeService(repo, zap.NewNop())

	st, err := svc.Resolve(context.Background(), "p1", viewer("u1"))
	assert.Error(t, err)
	// The count resolved, but the viewer status must not default to
	// not-liked off a failed check.
	assert.Equal(t, 2, st.Count)
	assert.Equal(t, likeEntity.StatusUnknown, st.Status)
}

func TestToggleRequiresSession(t *testing.T) {
	svc := NewLikeService(&fakeLikeRepo{}, zap.NewNop())

	cur := State{Count: 1, Status: likeEntity.StatusNotLiked}
	got, err := svc.Toggle(context.Background(), nil, "p1", cur)
	assert.ErrorIs(t, err, ErrNotSignedIn)
	assert.Equal(t, cur, got)
}

func TestToggleRoundTrip(t *testing.T) {
	repo := &fakeLikeRepo{}
	svc := NewLikeService(repo, zap.NewNop())
	ctx := context.Background()

	liked, err := svc.Toggle(ctx, viewer("u1"), "p1", State{Count: 4, Status: likeEntity.StatusNotLiked})
	require.NoError(t, err)
	assert.Equal(t, State{Count: 5, Status: likeEntity.StatusLiked}, liked)
	assert.Equal(t, "p1", repo.createdFor)

	back, err := svc.Toggle(ctx, viewer("u1"), "p1", liked)
	require.NoError(t, err)
	assert.Equal(t, State{Count: 4, Status: likeEntity.StatusNotLiked}, back)
	assert.Equal(t, "p1", repo.deletedFor)
}

func TestToggleAdoptsExistingRow(t *testing.T) {
	repo := &fakeLikeRepo{exists: true}
	svc := NewLikeService(repo, zap.NewNop())

	// Local state went stale: a like row already exists server-side.
	got, err := svc.Toggle(context.Background(), viewer("u1"), "p1", State{Count: 7, Status: likeEntity.StatusNotLiked})
	require.NoError(t, err)
	assert.Equal(t, State{Count: 7, Status: likeEntity.StatusLiked}, got)
	assert.Empty(t, repo.createdFor, "no duplicate insert for an existing pair")
}

func TestToggleUnknownStateRejected(t *testing.T) {
	svc := NewLikeService(&fakeLikeRepo{}, zap.NewNop())

	cur := State{Count: 1, Status: likeEntity.StatusUnknown}
	got, err := svc.Toggle(context.Background(), viewer("u1"), "p1", cur)
	assert.ErrorIs(t, err, ErrStateUnknown)
	assert.Equal(t, cur, got)
}

func TestToggleWriteFailureKeepsState(t *testing.T) {
	repo := &fakeLikeRepo{createErr: errors.New("boom")}
	svc := NewLikeService(repo, zap.NewNop())

	cur := State{Count: 2, Status: likeEntity.StatusNotLiked}
	got, err := svc.Toggle(context.Background(), viewer("u1"), "p1", cur)
	assert.Error(t, err)
	assert.Equal(t, cur, got, "the flip is applied only after the write succeeds")
}
