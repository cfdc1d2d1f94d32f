package tui

import (
	commentEntity "github.com/samliubearberkeley-oss/vibe-coding-community/internal/core/comment"
	likeapp "github.com/samliubearberkeley-oss/vibe-coding-community/internal/core/like/service"
	postEntity "github.com/samliubearberkeley-oss/vibe-coding-community/internal/core/post"
	"github.com/samliubearberkeley-oss/vibe-coding-community/internal/core/session"
)

// Aggregate is one post's sub-fetches: like state and comment count.
type Aggregate struct {
	Like     likeapp.State
	Comments int
}

// SessionChangedMsg is pushed from the session service subscription
// (and by the refresher indirectly) whenever identity changes.
type SessionChangedMsg struct {
	Session *session.Session
}

type sessionResolvedMsg struct {
	sess *session.Session
}

type feedLoadedMsg struct {
	posts []*postEntity.Post
	agg   map[string]Aggregate
}

// feedFailedMsg leaves the previous list displayed.
type feedFailedMsg struct {
	err error
}

type postSavedMsg struct{}

type postDeletedMsg struct{}

type likeToggledMsg struct {
	postID string
	state  likeapp.State
}

type commentsLoadedMsg struct {
	postID   string
	comments []*commentEntity.Comment
}

type commentSavedMsg struct {
	postID string
}

type commentDeletedMsg struct {
	postID string
}

type authDoneMsg struct {
	sess *session.Session
	err  error
}

type oauthPendingMsg struct {
	url  string
	wait func() authDoneMsg
}

type signedOutMsg struct{}

type errMsg struct {
	err error
}
