// Package tui is the terminal front end: a feed of posts with likes,
// comments, a composer, and email/password or OAuth sign in. All state
// lives server side; every mutation is followed by a wholesale reload.
package tui

import (
	commentEntity "github.com/samliubearberkeley-oss/vibe-coding-community/internal/core/comment"
	commentapp "github.com/samliubearberkeley-oss/vibe-coding-community/internal/core/comment/service"
	likeapp "github.com/samliubearberkeley-oss/vibe-coding-community/internal/core/like/service"
	postEntity "github.com/samliubearberkeley-oss/vibe-coding-community/internal/core/post"
	postapp "github.com/samliubearberkeley-oss/vibe-coding-community/internal/core/post/service"
	"github.com/samliubearberkeley-oss/vibe-coding-community/internal/core/session"
	sessionapp "github.com/samliubearberkeley-oss/vibe-coding-community/internal/core/session/service"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"go.uber.org/zap"
)

type viewState int

const (
	stateLoading viewState = iota
	stateFeed
	stateSignIn
	stateCompose
	stateComments
)

// Config wires the screens to the application services.
type Config struct {
	Sessions *sessionapp.Service
	Posts    *postapp.Service
	Comments *commentapp.Service
	Likes    *likeapp.Service
	// Focus receives a signal on terminal focus regained; the session
	// refresher drains it.
	Focus  chan<- struct{}
	Logger *zap.Logger
}

type authState struct {
	form     *huh.Form
	signUp   bool
	busy     bool
	oauthURL string
}

type composeState struct {
	title   textinput.Model
	content textarea.Model
	tags    textinput.Model
	focus   int
	editing *postEntity.Post
	busy    bool
}

type commentPanel struct {
	post     *postEntity.Post
	comments []*commentEntity.Comment
	input    textinput.Model
	cursor   int
	busy     bool
}

type Model struct {
	logger      *zap.Logger
	sessions    *sessionapp.Service
	posts       *postapp.Service
	commentsSvc *commentapp.Service
	likes       *likeapp.Service
	focus       chan<- struct{}

	state   viewState
	sess    *session.Session
	feed    []*postEntity.Post
	agg     map[string]Aggregate
	cursor  int
	loading bool

	status  string
	errText string

	auth    authState
	compose composeState
	panel   commentPanel

	confirmDelete *postEntity.Post

	width  int
	height int
}

func New(cfg Config) Model {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return Model{
		logger:      logger,
		sessions:    cfg.Sessions,
		posts:       cfg.Posts,
		commentsSvc: cfg.Comments,
		likes:       cfg.Likes,
		focus:       cfg.Focus,
		state:       stateLoading,
		agg:         map[string]Aggregate{},
	}
}

func (m Model) Init() tea.Cmd {
	return m.resolveSessionCmd()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		if m.state == stateCompose {
			m.compose.content.SetWidth(m.composerWidth())
		}
		return m, nil

	case tea.FocusMsg:
		if m.focus != nil {
			select {
			case m.focus <- struct{}{}:
			default:
			}
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		m.errText = ""
		m.status = ""
		switch m.state {
		case stateSignIn:
			return m.updateSignIn(msg)
		case stateCompose:
			return m.updateCompose(msg)
		case stateComments:
			return m.updateComments(msg)
		case stateFeed:
			return m.updateFeed(msg)
		}
		return m, nil

	case sessionResolvedMsg:
		m.sess = msg.sess
		m.state = stateFeed
		m.loading = true
		return m, m.loadFeedCmd()

	case SessionChangedMsg:
		return m.applySession(msg.Session)

	case feedLoadedMsg:
		m.loading = false
		m.feed = msg.posts
		m.agg = msg.agg
		if m.cursor >= len(m.feed) {
			m.cursor = len(m.feed) - 1
		}
		if m.cursor < 0 {
			m.cursor = 0
		}
		return m, nil

	case feedFailedMsg:
		// The previous list stays on screen.
		m.loading = false
		m.errText = msg.err.Error()
		return m, nil

	case postSavedMsg:
		m.state = stateFeed
		m.compose = composeState{}
		m.loading = true
		m.status = "saved"
		return m, m.loadFeedCmd()

	case postDeletedMsg:
		m.loading = true
		m.status = "deleted"
		return m, m.loadFeedCmd()

	case likeToggledMsg:
		a := m.agg[msg.postID]
		a.Like = msg.state
		m.agg[msg.postID] = a
		return m, nil

	case commentsLoadedMsg:
		m.panel.busy = false
		if m.panel.post != nil && m.panel.post.ID == msg.postID {
			m.panel.comments = msg.comments
			if m.panel.cursor >= len(msg.comments) {
				m.panel.cursor = len(msg.comments) - 1
			}
			if m.panel.cursor < 0 {
				m.panel.cursor = 0
			}
		}
		// The parent card's count follows the loaded thread.
		a := m.agg[msg.postID]
		a.Comments = len(msg.comments)
		m.agg[msg.postID] = a
		return m, nil

	case commentSavedMsg:
		m.panel.input.SetValue("")
		m.panel.busy = true
		return m, m.loadCommentsCmd(msg.postID)

	case commentDeletedMsg:
		m.panel.busy = true
		return m, m.loadCommentsCmd(msg.postID)

	case oauthPendingMsg:
		m.auth.oauthURL = msg.url
		wait := msg.wait
		return m, func() tea.Msg { return wait() }

	case authDoneMsg:
		waiting := m.auth.busy || m.auth.oauthURL != ""
		m.auth.busy = false
		m.auth.oauthURL = ""
		if msg.err != nil {
			// A round trip the user already abandoned fails silently.
			if m.state == stateSignIn && waiting {
				m.errText = msg.err.Error()
			}
			return m, nil
		}
		m.auth = authState{}
		return m.applySession(msg.sess)

	case signedOutMsg:
		// Mirrors a full page reload: every screen resets.
		fresh := New(Config{
			Sessions: m.sessions,
			Posts:    m.posts,
			Comments: m.commentsSvc,
			Likes:    m.likes,
			Focus:    m.focus,
			Logger:   m.logger,
		})
		fresh.width, fresh.height = m.width, m.height
		fresh.state = stateFeed
		fresh.loading = true
		fresh.status = "signed out"
		return fresh, fresh.loadFeedCmd()

	case errMsg:
		m.errText = msg.err.Error()
		m.auth.busy = false
		m.compose.busy = false
		m.panel.busy = false
		m.confirmDelete = nil
		return m, nil
	}

	return m, nil
}

// applySession installs a new identity and reloads everything that
// depends on it. A nil session while mid-flow drops back to the feed.
func (m Model) applySession(sess *session.Session) (tea.Model, tea.Cmd) {
	if m.sess.UserID() == sess.UserID() {
		m.sess = sess
		return m, nil
	}
	m.sess = sess
	if m.state == stateCompose || m.state == stateComments || m.state == stateSignIn {
		m.state = stateFeed
		m.compose = composeState{}
		m.panel = commentPanel{}
	}
	m.confirmDelete = nil
	m.loading = true
	return m, m.loadFeedCmd()
}

func (m Model) selected() *postEntity.Post {
	if m.cursor < 0 || m.cursor >= len(m.feed) {
		return nil
	}
	return m.feed[m.cursor]
}

func (m Model) signedIn() bool {
	return m.sess.UserID() != ""
}

func (m Model) composerWidth() int {
	w := m.width - 8
	if w < 20 {
		w = 20
	}
	if w > 100 {
		w = 100
	}
	return w
}
