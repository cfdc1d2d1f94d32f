package commentapp

import (
	"context"
	"errors"
	"strings"

	commentEntity "github.com/samliubearberkeley-oss/vibe-coding-community/internal/core/comment"
	"github.com/samliubearberkeley-oss/vibe-coding-community/internal/core/session"
	commentPort "github.com/samliubearberkeley-oss/vibe-coding-community/internal/ports/comment"

	"go.uber.org/zap"
)

var (
	ErrNotSignedIn = errors.New("sign in to comment")
	ErrEmptyBody   = errors.New("comment cannot be empty")
	ErrNotOwner    = errors.New("you can only delete your own comments")
)

// Service is the comment panel: chronological list, gated submit, and
// ownership-gated delete for one post at a time.
type Service struct {
	CommentRepository commentPort.Repository
	Logger            *zap.Logger
}

func NewCommentService(repo commentPort.Repository, logger *zap.Logger) *Service {
	return &Service{CommentRepository: repo, Logger: logger}
}

// ListByPost returns all comments on a post, oldest first. This is the
// one place ordering differs from the feed's newest-first.
func (s *Service) ListByPost(ctx context.Context, postID string) ([]*commentEntity.Comment, error) {
	comments, err := s.CommentRepository.ListByPost(ctx, postID)
	if err != nil {
		s.Logger.Error("failed to load comments", zap.String("post_id", postID), zap.Error(err))
		return nil, err
	}
	return comments, nil
}

// Count returns the comment count for one post.
func (s *Service) Count(ctx context.Context, postID string) (int, error) {
	n, err := s.CommentRepository.CountByPost(ctx, postID)
	if err != nil {
		s.Logger.Error("failed to load comment count", zap.String("post_id", postID), zap.Error(err))
		return 0, err
	}
	return n, nil
}

// Add submits a comment. Requires a session and a non-empty trimmed
// body; both are checked before any network call.
func (s *Service) Add(ctx context.Context, actor *session.Session, postID, body string) (*commentEntity.Comment, error) {
	if actor.UserID() == "" {
		return nil, ErrNotSignedIn
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, ErrEmptyBody
	}
	created, err := s.CommentRepository.Create(ctx, postID, actor.UserID(), body)
	if err != nil {
		s.Logger.Error("failed to create comment", zap.String("post_id", postID), zap.Error(err))
		return nil, err
	}
	return created, nil
}

// Remove deletes a comment. The ownership pre-check always runs here
// for a clear rejection, and the repository repeats the user_id filter
// on the write; neither replaces the server's own rules.
func (s *Service) Remove(ctx context.Context, actor *session.Session, target *commentEntity.Comment) error {
	if actor.UserID() == "" {
		return ErrNotSignedIn
	}
	if !target.OwnedBy(actor.UserID()) {
		return ErrNotOwner
	}
	if err := s.CommentRepository.Delete(ctx, target.ID, actor.UserID()); err != nil {
		s.Logger.Error("failed to delete comment", zap.String("id", target.ID), zap.Error(err))
		return err
	}
	return nil
}
