package tui

import (
	"strings"

	postEntity "github.com/samliubearberkeley-oss/vibe-coding-community/internal/core/post"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) openComments(p *postEntity.Post) (tea.Model, tea.Cmd) {
	input := textinput.New()
	input.Placeholder = "add a comment"
	input.Width = m.composerWidth()

	m.panel = commentPanel{post: p, input: input, busy: true}
	m.state = stateComments
	return m, tea.Batch(m.panel.input.Focus(), m.loadCommentsCmd(p.ID))
}

func (m Model) updateComments(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.state = stateFeed
		m.panel = commentPanel{}
		return m, nil

	case "up":
		if m.panel.cursor > 0 {
			m.panel.cursor--
		}
		return m, nil

	case "down":
		if m.panel.cursor < len(m.panel.comments)-1 {
			m.panel.cursor++
		}
		return m, nil

	case "enter":
		if m.panel.busy {
			return m, nil
		}
		body := strings.TrimSpace(m.panel.input.Value())
		if body == "" {
			return m, nil
		}
		if !m.signedIn() {
			m.status = "sign in to comment (press a on the feed)"
			return m, nil
		}
		m.panel.busy = true
		return m, m.addCommentCmd(m.panel.post.ID, body)

	case "ctrl+d":
		if m.panel.busy || m.panel.cursor >= len(m.panel.comments) {
			return m, nil
		}
		target := m.panel.comments[m.panel.cursor]
		if !target.OwnedBy(m.sess.UserID()) {
			m.status = "you can only delete your own comments"
			return m, nil
		}
		m.panel.busy = true
		return m, m.deleteCommentCmd(target)
	}

	var cmd tea.Cmd
	m.panel.input, cmd = m.panel.input.Update(msg)
	return m, cmd
}
