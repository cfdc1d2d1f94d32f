package likeapp

import (
	"context"
	"errors"

	likeEntity "github.com/samliubearberkeley-oss/vibe-coding-community/internal/core/like"
	"github.com/samliubearberkeley-oss/vibe-coding-community/internal/core/session"
	likePort "github.com/samliubearberkeley-oss/vibe-coding-community/internal/ports/like"

	"go.uber.org/zap"
)

var (
	ErrNotSignedIn  = errors.New("sign in to like posts")
	ErrStateUnknown = errors.New("like state not resolved yet")
)

// State is the per-(post, viewer) like view: the displayed count plus
// the viewer's own status.
type State struct {
	Count  int
	Status likeEntity.Status
}

// Service owns the like toggle. The count and status are fetched once
// per post; toggling flips them locally only after the write succeeds
// and never re-fetches the authoritative count afterwards.
type Service struct {
	LikeRepository likePort.Repository
	Logger         *zap.Logger
}

func NewLikeService(repo likePort.Repository, logger *zap.Logger) *Service {
	return &Service{LikeRepository: repo, Logger: logger}
}

// Resolve fetches the like count and, when a viewer is signed in, their
// own like status. A definitive empty result yields StatusNotLiked; a
// failed existence check leaves the status Unknown so the toggle stays
// disabled instead of silently rendering un-liked.
func (s *Service) Resolve(ctx context.Context, postID string, viewer *session.Session) (State, error) {
	st := State{Status: likeEntity.StatusUnknown}

	count, err := s.LikeRepository.Count(ctx, postID)
	if err != nil {
		s.Logger.Error("failed to load like count", zap.String("post_id", postID), zap.Error(err))
		return st, err
	}
	st.Count = count

	if viewer.UserID() == "" {
		st.Status = likeEntity.StatusNotLiked
		return st, nil
	}
	liked, err := s.LikeRepository.Exists(ctx, postID, viewer.UserID())
	if err != nil {
		s.Logger.Warn("like existence check failed, leaving state unknown",
			zap.String("post_id", postID), zap.Error(err))
		return st, err
	}
	if liked {
		st.Status = likeEntity.StatusLiked
	} else {
		st.Status = likeEntity.StatusNotLiked
	}
	return st, nil
}

// Toggle flips the viewer's like for one post. The write happens first;
// the returned state is the optimistic local flip applied only after it
// succeeds. Toggling twice returns to the original state and count.
func (s *Service) Toggle(ctx context.Context, viewer *session.Session, postID string, cur State) (State, error) {
	if viewer.UserID() == "" {
		return cur, ErrNotSignedIn
	}
	switch cur.Status {
	case likeEntity.StatusLiked:
		if err := s.LikeRepository.Delete(ctx, postID, viewer.UserID()); err != nil {
			s.Logger.Error("failed to unlike post", zap.String("post_id", postID), zap.Error(err))
			return cur, err
		}
		return State{Count: cur.Count - 1, Status: likeEntity.StatusNotLiked}, nil

	case likeEntity.StatusNotLiked:
		// Existence check before insert keeps at most one row per pair
		// even if local state went stale.
		exists, err := s.LikeRepository.Exists(ctx, postID, viewer.UserID())
		if err != nil {
			s.Logger.Error("failed to check existing like", zap.String("post_id", postID), zap.Error(err))
			return cur, err
		}
		if exists {
			return State{Count: cur.Count, Status: likeEntity.StatusLiked}, nil
		}
		if err := s.LikeRepository.Create(ctx, postID, viewer.UserID()); err != nil {
			s.Logger.Error("failed to like post", zap.String("post_id", postID), zap.Error(err))
			return cur, err
		}
		return State{Count: cur.Count + 1, Status: likeEntity.StatusLiked}, nil

	default:
		return cur, ErrStateUnknown
	}
}
