package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/samliubearberkeley-oss/vibe-coding-community/internal/core/like"
	postEntity "github.com/samliubearberkeley-oss/vibe-coding-community/internal/core/post"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	var body string
	switch m.state {
	case stateLoading:
		body = statusStyle.Render("connecting...")
	case stateSignIn:
		body = m.viewSignIn()
	case stateCompose:
		body = m.viewCompose()
	case stateComments:
		body = m.viewComments()
	default:
		body = m.viewFeed()
	}

	sections := []string{m.viewHeader(), body}
	if m.errText != "" {
		sections = append(sections, errorStyle.Render(m.errText))
	} else if m.status != "" {
		sections = append(sections, statusStyle.Render(m.status))
	}
	return appStyle.Render(strings.Join(sections, "\n\n"))
}

func (m Model) viewHeader() string {
	who := "browsing as guest"
	if m.signedIn() {
		who = m.sess.DisplayName()
	}
	return lipgloss.JoinHorizontal(
		lipgloss.Center,
		titleBoxStyle.Render("vibe coding community"),
		"  ",
		metaStyle.Render(who),
	)
}

func (m Model) viewFeed() string {
	if m.loading && len(m.feed) == 0 {
		return statusStyle.Render("loading the feed...")
	}
	if len(m.feed) == 0 {
		return statusStyle.Render("no posts yet. press n to write the first one.")
	}

	var b strings.Builder
	start, end := m.feedWindow()
	for i, p := range m.feed[start:end] {
		b.WriteString(m.renderCard(p, start+i == m.cursor))
		b.WriteString("\n")
	}

	if m.confirmDelete != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(fmt.Sprintf("delete %q? press y to confirm, any other key to cancel", m.confirmDelete.Title)))
	} else {
		b.WriteString("\n")
		b.WriteString(helpStyle.Render(m.feedHelp()))
	}
	return b.String()
}

func (m Model) feedHelp() string {
	if m.signedIn() {
		return "j/k move · l like · c comments · n new · e edit · d delete · r reload · s sign out · q quit"
	}
	return "j/k move · c comments · r reload · a sign in · q quit"
}

// feedWindow keeps the cursor on screen without a viewport widget.
func (m Model) feedWindow() (int, int) {
	per := m.cardsPerScreen()
	start := m.windowStart()
	end := start + per
	if end > len(m.feed) {
		end = len(m.feed)
	}
	return start, end
}

func (m Model) windowStart() int {
	per := m.cardsPerScreen()
	start := m.cursor - per/2
	if start > len(m.feed)-per {
		start = len(m.feed) - per
	}
	if start < 0 {
		start = 0
	}
	return start
}

func (m Model) cardsPerScreen() int {
	if m.height <= 0 {
		return 5
	}
	per := (m.height - 8) / 6
	if per < 1 {
		per = 1
	}
	return per
}

func (m Model) renderCard(p *postEntity.Post, selected bool) string {
	style := cardStyle
	if selected {
		style = selectedCardStyle
	}

	meta := fmt.Sprintf("%s · %s", authorName(p.Author), timeAgo(p.CreatedAt))
	lines := []string{
		postTitleStyle.Render(p.Title),
		metaStyle.Render(meta),
		truncate(p.Content, 3),
	}

	if len(p.Tags) > 0 {
		rendered := make([]string, len(p.Tags))
		for i, t := range p.Tags {
			rendered[i] = tagStyle.Render("#" + t)
		}
		lines = append(lines, strings.Join(rendered, " "))
	}

	lines = append(lines, m.renderCounts(p.ID))
	return style.Width(m.cardWidth()).Render(strings.Join(lines, "\n"))
}

func (m Model) renderCounts(postID string) string {
	a := m.agg[postID]

	var heart string
	switch a.Like.Status {
	case like.StatusLiked:
		heart = likedStyle.Render(fmt.Sprintf("[liked] %d", a.Like.Count))
	case like.StatusNotLiked:
		heart = fmt.Sprintf("[like] %d", a.Like.Count)
	default:
		heart = metaStyle.Render(fmt.Sprintf("[like?] %d", a.Like.Count))
	}

	noun := "comments"
	if a.Comments == 1 {
		noun = "comment"
	}
	return fmt.Sprintf("%s · %d %s", heart, a.Comments, noun)
}

func (m Model) cardWidth() int {
	w := m.width - 6
	if w < 30 {
		w = 30
	}
	if w > 110 {
		w = 110
	}
	return w
}

func (m Model) viewSignIn() string {
	if m.auth.oauthURL != "" {
		return strings.Join([]string{
			"open this url in your browser to continue:",
			"",
			m.auth.oauthURL,
			"",
			statusStyle.Render("waiting for the browser..."),
			helpStyle.Render("esc cancel"),
		}, "\n")
	}
	if m.auth.busy {
		return statusStyle.Render("signing in...")
	}
	if m.auth.form == nil {
		return ""
	}

	mode := "no account yet? ctrl+t to sign up"
	if m.auth.signUp {
		mode = "have an account? ctrl+t to sign in"
	}
	return strings.Join([]string{
		m.auth.form.View(),
		helpStyle.Render(mode),
		helpStyle.Render("f2 google · f3 github · esc back"),
	}, "\n")
}

func (m Model) viewCompose() string {
	heading := "new post"
	if m.compose.editing != nil {
		heading = "edit post"
	}
	if m.compose.busy {
		return statusStyle.Render("saving...")
	}
	return strings.Join([]string{
		postTitleStyle.Render(heading),
		"",
		m.compose.title.View(),
		"",
		m.compose.content.View(),
		"",
		m.compose.tags.View(),
		"",
		helpStyle.Render("tab next field · ctrl+s save · esc discard"),
	}, "\n")
}

func (m Model) viewComments() string {
	if m.panel.post == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(postTitleStyle.Render(m.panel.post.Title))
	b.WriteString("\n\n")

	switch {
	case m.panel.busy && len(m.panel.comments) == 0:
		b.WriteString(statusStyle.Render("loading comments..."))
	case len(m.panel.comments) == 0:
		b.WriteString(statusStyle.Render("no comments yet"))
	default:
		for i, c := range m.panel.comments {
			marker := "  "
			if i == m.panel.cursor {
				marker = "> "
			}
			meta := fmt.Sprintf("%s · %s", authorName(c.Author), timeAgo(c.CreatedAt))
			b.WriteString(marker + metaStyle.Render(meta) + "\n")
			b.WriteString(marker + c.Content + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(m.panel.input.View())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("enter send · up/down select · ctrl+d delete yours · esc back"))
	return b.String()
}

func authorName(a postEntity.Author) string {
	if a.Nickname != nil && *a.Nickname != "" {
		return *a.Nickname
	}
	return "anonymous"
}

func truncate(s string, maxLines int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= maxLines {
		return s
	}
	return strings.Join(lines[:maxLines], "\n") + "\n" + metaStyle.Render("...")
}

func timeAgo(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	default:
		return t.Format("2006-01-02")
	}
}
