package tui

import (
	"testing"
	"time"

	likeEntity "github.com/samliubearberkeley-oss/vibe-coding-community/internal/core/like"
	likeapp "github.com/samliubearberkeley-oss/vibe-coding-community/internal/core/like/service"
	postEntity "github.com/samliubearberkeley-oss/vibe-coding-community/internal/core/post"
	"github.com/samliubearberkeley-oss/vibe-coding-community/internal/core/session"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func feedModel(sess *session.Session, posts ...*postEntity.Post) Model {
	m := New(Config{})
	m.state = stateFeed
	m.sess = sess
	m.feed = posts
	return m
}

func testPosts() []*postEntity.Post {
	return []*postEntity.Post{
		{ID: "p1", Title: "first", UserID: "owner"},
		{ID: "p2", Title: "second", UserID: "other"},
	}
}

func TestFeedCursorMoves(t *testing.T) {
	m := feedModel(nil, testPosts()...)

	next, _ := m.Update(key("j"))
	m = next.(Model)
	assert.Equal(t, 1, m.cursor)

	// Clamped at the end.
	next, _ = m.Update(key("j"))
	m = next.(Model)
	assert.Equal(t, 1, m.cursor)

	next, _ = m.Update(key("k"))
	m = next.(Model)
	assert.Equal(t, 0, m.cursor)

	next, _ = m.Update(key("k"))
	m = next.(Model)
	assert.Equal(t, 0, m.cursor)
}

func TestFeedLikeRequiresSession(t *testing.T) {
	m := feedModel(nil, testPosts()...)

	next, cmd := m.Update(key("l"))
	m = next.(Model)
	assert.Nil(t, cmd)
	assert.Contains(t, m.status, "sign in")
}

func TestFeedEditGatesOwnership(t *testing.T) {
	sess := &session.Session{User: &session.User{ID: "owner"}}
	m := feedModel(sess, testPosts()...)
	m.cursor = 1 // someone else's post

	next, cmd := m.Update(key("e"))
	m = next.(Model)
	assert.Nil(t, cmd)
	assert.Equal(t, stateFeed, m.state)
	assert.Contains(t, m.status, "your own")

	m.cursor = 0
	next, _ = m.Update(key("e"))
	m = next.(Model)
	assert.Equal(t, stateCompose, m.state)
	require.NotNil(t, m.compose.editing)
	assert.Equal(t, "p1", m.compose.editing.ID)
	assert.Equal(t, "first", m.compose.title.Value())
}

func TestFeedDeleteNeedsConfirmation(t *testing.T) {
	sess := &session.Session{User: &session.User{ID: "owner"}}
	m := feedModel(sess, testPosts()...)

	next, _ := m.Update(key("d"))
	m = next.(Model)
	require.NotNil(t, m.confirmDelete)
	assert.Equal(t, "p1", m.confirmDelete.ID)

	// Any key but y cancels.
	next, cmd := m.Update(key("x"))
	m = next.(Model)
	assert.Nil(t, m.confirmDelete)
	assert.Nil(t, cmd)
}

func TestLikeToggledUpdatesAggregateInPlace(t *testing.T) {
	m := feedModel(nil, testPosts()...)
	m.agg = map[string]Aggregate{"p1": {Like: likeapp.State{Count: 1, Status: likeEntity.StatusNotLiked}}}

	next, _ := m.Update(likeToggledMsg{postID: "p1", state: likeapp.State{Count: 2, Status: likeEntity.StatusLiked}})
	m = next.(Model)
	assert.Equal(t, 2, m.agg["p1"].Like.Count)
	assert.Equal(t, likeEntity.StatusLiked, m.agg["p1"].Like.Status)
}

func TestFeedLoadedClampsCursor(t *testing.T) {
	m := feedModel(nil, testPosts()...)
	m.cursor = 1

	next, _ := m.Update(feedLoadedMsg{posts: testPosts()[:1], agg: map[string]Aggregate{}})
	m = next.(Model)
	assert.Equal(t, 0, m.cursor)
	assert.Len(t, m.feed, 1)
}

func TestFeedFailureKeepsPreviousList(t *testing.T) {
	m := feedModel(nil, testPosts()...)
	m.loading = true

	next, _ := m.Update(feedFailedMsg{err: assert.AnError})
	m = next.(Model)
	assert.False(t, m.loading)
	assert.Len(t, m.feed, 2, "stale list beats an empty screen")
	assert.NotEmpty(t, m.errText)
}

func TestCommentsLoadedRefreshesParentCount(t *testing.T) {
	m := feedModel(nil, testPosts()...)
	m.agg = map[string]Aggregate{"p1": {Comments: 1}}

	next, _ := m.Update(commentsLoadedMsg{postID: "p1", comments: nil})
	m = next.(Model)
	assert.Zero(t, m.agg["p1"].Comments)
}

func TestComposerCancelDiscards(t *testing.T) {
	sess := &session.Session{User: &session.User{ID: "owner"}}
	m := feedModel(sess, testPosts()...)

	next, _ := m.Update(key("n"))
	m = next.(Model)
	require.Equal(t, stateCompose, m.state)

	next, _ = m.Update(key("esc"))
	m = next.(Model)
	assert.Equal(t, stateFeed, m.state)
	assert.Nil(t, m.compose.editing)
}

func TestJoinTags(t *testing.T) {
	assert.Equal(t, "", joinTags(nil))
	assert.Equal(t, "go, tui", joinTags([]string{"go", "tui"}))
}

func TestTimeAgo(t *testing.T) {
	now := time.Now()
	assert.Equal(t, "just now", timeAgo(now.Add(-10*time.Second)))
	assert.Equal(t, "5m ago", timeAgo(now.Add(-5*time.Minute)))
	assert.Equal(t, "3h ago", timeAgo(now.Add(-3*time.Hour)))
	assert.Equal(t, "2d ago", timeAgo(now.Add(-49*time.Hour)))

	old := now.Add(-30 * 24 * time.Hour)
	assert.Equal(t, old.Format("2006-01-02"), timeAgo(old))
}

func TestAuthorNameFallsBack(t *testing.T) {
	nick := "sam"
	assert.Equal(t, "sam", authorName(postEntity.Author{Nickname: &nick}))
	assert.Equal(t, "anonymous", authorName(postEntity.Author{}))
	empty := ""
	assert.Equal(t, "anonymous", authorName(postEntity.Author{Nickname: &empty}))
}
