package tui

import (
	"context"
	"sync"
	"time"

	"github.com/samliubearberkeley-oss/vibe-coding-community/internal/adapters/oauthcb"
	commentEntity "github.com/samliubearberkeley-oss/vibe-coding-community/internal/core/comment"
	postEntity "github.com/samliubearberkeley-oss/vibe-coding-community/internal/core/post"
	"github.com/samliubearberkeley-oss/vibe-coding-community/internal/core/session"
	authPort "github.com/samliubearberkeley-oss/vibe-coding-community/internal/ports/auth"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"
)

// aggregateWorkers caps the concurrent per-post sub-fetches issued
// after a feed load.
const aggregateWorkers = 8

// oauthTimeout bounds how long we wait for the browser round trip.
const oauthTimeout = 3 * time.Minute

func (m Model) resolveSessionCmd() tea.Cmd {
	return func() tea.Msg {
		return sessionResolvedMsg{sess: m.sessions.Refresh(context.Background())}
	}
}

// loadFeedCmd fetches the feed wholesale, then resolves every post's
// like state and comment count concurrently. Aggregate errors are
// absorbed: the post renders with whatever resolved.
func (m Model) loadFeedCmd() tea.Cmd {
	sess := m.sess
	return func() tea.Msg {
		ctx := context.Background()
		posts, err := m.posts.Feed(ctx)
		if err != nil {
			return feedFailedMsg{err: err}
		}

		agg := make(map[string]Aggregate, len(posts))
		var mu sync.Mutex
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(aggregateWorkers)
		for _, p := range posts {
			g.Go(func() error {
				a := Aggregate{}
				if st, err := m.likes.Resolve(gctx, p.ID, sess); err == nil {
					a.Like = st
				}
				if n, err := m.commentsSvc.Count(gctx, p.ID); err == nil {
					a.Comments = n
				}
				mu.Lock()
				agg[p.ID] = a
				mu.Unlock()
				return nil
			})
		}
		_ = g.Wait()
		return feedLoadedMsg{posts: posts, agg: agg}
	}
}

func (m Model) savePostCmd(editing *postEntity.Post, in postEntity.Input) tea.Cmd {
	sess := m.sess
	return func() tea.Msg {
		ctx := context.Background()
		var err error
		if editing != nil {
			_, err = m.posts.Update(ctx, sess, editing, in)
		} else {
			_, err = m.posts.Create(ctx, sess, in)
		}
		if err != nil {
			return errMsg{err: err}
		}
		return postSavedMsg{}
	}
}

func (m Model) deletePostCmd(target *postEntity.Post) tea.Cmd {
	sess := m.sess
	return func() tea.Msg {
		if err := m.posts.Delete(context.Background(), sess, target); err != nil {
			return errMsg{err: err}
		}
		return postDeletedMsg{}
	}
}

func (m Model) toggleLikeCmd(postID string, cur Aggregate) tea.Cmd {
	sess := m.sess
	return func() tea.Msg {
		next, err := m.likes.Toggle(context.Background(), sess, postID, cur.Like)
		if err != nil {
			return errMsg{err: err}
		}
		return likeToggledMsg{postID: postID, state: next}
	}
}

func (m Model) loadCommentsCmd(postID string) tea.Cmd {
	return func() tea.Msg {
		comments, err := m.commentsSvc.ListByPost(context.Background(), postID)
		if err != nil {
			return errMsg{err: err}
		}
		return commentsLoadedMsg{postID: postID, comments: comments}
	}
}

func (m Model) addCommentCmd(postID, body string) tea.Cmd {
	sess := m.sess
	return func() tea.Msg {
		if _, err := m.commentsSvc.Add(context.Background(), sess, postID, body); err != nil {
			return errMsg{err: err}
		}
		return commentSavedMsg{postID: postID}
	}
}

func (m Model) deleteCommentCmd(target *commentEntity.Comment) tea.Cmd {
	sess := m.sess
	return func() tea.Msg {
		if err := m.commentsSvc.Remove(context.Background(), sess, target); err != nil {
			return errMsg{err: err}
		}
		return commentDeletedMsg{postID: target.PostID}
	}
}

func (m Model) passwordAuthCmd(signUp bool, email, password string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		var (
			sess *session.Session
			err  error
		)
		if signUp {
			sess, err = m.sessions.SignUp(ctx, email, password)
		} else {
			sess, err = m.sessions.SignInWithPassword(ctx, email, password)
		}
		return authDoneMsg{sess: sess, err: err}
	}
}

// startOAuthCmd brings up the callback listener and hands back the
// authorization URL plus a second command that waits for the redirect.
func (m Model) startOAuthCmd(provider authPort.Provider) tea.Cmd {
	sessions := m.sessions
	logger := m.logger
	return func() tea.Msg {
		listener, err := oauthcb.New("", logger)
		if err != nil {
			return errMsg{err: err}
		}

		url, state, verifier, err := sessions.BeginOAuth(provider, listener.RedirectURL())
		if err != nil {
			listener.Close()
			return errMsg{err: err}
		}
		listener.SetState(state)

		wait := func() authDoneMsg {
			defer listener.Close()
			ctx, cancel := context.WithTimeout(context.Background(), oauthTimeout)
			defer cancel()
			res, err := listener.Wait(ctx)
			if err != nil {
				sessions.EndOAuth(provider)
				return authDoneMsg{err: err}
			}
			sess, err := sessions.CompleteOAuth(ctx, provider, res.Code, verifier)
			return authDoneMsg{sess: sess, err: err}
		}
		return oauthPendingMsg{url: url, wait: wait}
	}
}

func (m Model) signOutCmd() tea.Cmd {
	return func() tea.Msg {
		m.sessions.SignOut(context.Background())
		return signedOutMsg{}
	}
}
