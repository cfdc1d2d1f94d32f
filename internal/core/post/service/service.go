package postapp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	postEntity "github.com/samliubearberkeley-oss/vibe-coding-community/internal/core/post"
	"github.com/samliubearberkeley-oss/vibe-coding-community/internal/core/session"
	postPort "github.com/samliubearberkeley-oss/vibe-coding-community/internal/ports/post"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// FeedLimit caps the feed fetch. Fetching post 51+ is out of scope.
const FeedLimit = 50

var (
	ErrNotSignedIn  = errors.New("sign in to do that")
	ErrNotOwner     = errors.New("you can only change your own posts")
	ErrEmptyBody    = errors.New("didn't catch your title or content, friend")
	ErrTitleTooLong = fmt.Errorf("title too long. max %d characters", postEntity.MaxTitleLen)
)

// draftInput mirrors the composer rules: both fields required after
// trimming, title capped at 200 runes.
type draftInput struct {
	Title   string `validate:"required,max=200"`
	Content string `validate:"required"`
}

// Service is the feed loader and post composer. Reads go straight to the
// repository; writes validate and ownership-gate locally before any
// network call, then the caller reloads the feed wholesale.
type Service struct {
	PostRepository postPort.Repository
	Logger         *zap.Logger

	validate *validator.Validate
}

func NewPostService(repo postPort.Repository, logger *zap.Logger) *Service {
	return &Service{
		PostRepository: repo,
		Logger:         logger,
		validate:       validator.New(),
	}
}

// Feed fetches up to FeedLimit posts, author-joined, newest first.
// Callers keep their previous list on error (stale-but-consistent).
func (s *Service) Feed(ctx context.Context) ([]*postEntity.Post, error) {
	posts, err := s.PostRepository.List(ctx, FeedLimit)
	if err != nil {
		s.Logger.Error("failed to load feed", zap.Error(err))
		return nil, err
	}
	return posts, nil
}

// Draft validates composer input and normalizes it into a Draft.
// No network call happens here; rejected input never leaves the client.
func (s *Service) Draft(in postEntity.Input) (postEntity.Draft, error) {
	d := postEntity.Draft{
		Title:   strings.TrimSpace(in.Title),
		Content: strings.TrimSpace(in.Content),
		Tags:    postEntity.ParseTags(in.Tags),
	}
	if err := s.validate.Struct(draftInput{Title: d.Title, Content: d.Content}); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				if fe.Field() == "Title" && fe.Tag() == "max" {
					return postEntity.Draft{}, ErrTitleTooLong
				}
			}
		}
		return postEntity.Draft{}, ErrEmptyBody
	}
	return d, nil
}

// Create validates and publishes a new post for the acting session.
func (s *Service) Create(ctx context.Context, actor *session.Session, in postEntity.Input) (*postEntity.Post, error) {
	draft, err := s.Draft(in)
	if err != nil {
		return nil, err
	}
	if actor.UserID() == "" {
		return nil, ErrNotSignedIn
	}
	created, err := s.PostRepository.Create(ctx, actor.UserID(), draft)
	if err != nil {
		s.Logger.Error("failed to create post", zap.Error(err))
		return nil, err
	}
	return created, nil
}

// Update edits an existing post. Ownership is re-verified here before
// any request, and the repository adds the user_id write filter as
// defense in depth; the authoritative check stays server-side.
func (s *Service) Update(ctx context.Context, actor *session.Session, target *postEntity.Post, in postEntity.Input) (*postEntity.Post, error) {
	draft, err := s.Draft(in)
	if err != nil {
		return nil, err
	}
	if actor.UserID() == "" {
		return nil, ErrNotSignedIn
	}
	if !target.OwnedBy(actor.UserID()) {
		return nil, ErrNotOwner
	}
	updated, err := s.PostRepository.Update(ctx, target.ID, actor.UserID(), draft)
	if err != nil {
		s.Logger.Error("failed to update post", zap.String("id", target.ID), zap.Error(err))
		return nil, err
	}
	return updated, nil
}

// Delete removes a post after the client-side ownership gate. A non-
// owner is rejected without a request being issued.
func (s *Service) Delete(ctx context.Context, actor *session.Session, target *postEntity.Post) error {
	if actor.UserID() == "" {
		return ErrNotSignedIn
	}
	if !target.OwnedBy(actor.UserID()) {
		return ErrNotOwner
	}
	if err := s.PostRepository.Delete(ctx, target.ID, actor.UserID()); err != nil {
		s.Logger.Error("failed to delete post", zap.String("id", target.ID), zap.Error(err))
		return err
	}
	return nil
}
