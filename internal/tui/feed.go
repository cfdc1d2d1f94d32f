package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) updateFeed(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.confirmDelete != nil {
		if msg.String() == "y" {
			target := m.confirmDelete
			m.confirmDelete = nil
			return m, m.deletePostCmd(target)
		}
		m.confirmDelete = nil
		return m, nil
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "j", "down":
		if m.cursor < len(m.feed)-1 {
			m.cursor++
		}
		return m, nil

	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case "g", "home":
		m.cursor = 0
		return m, nil

	case "G", "end":
		if len(m.feed) > 0 {
			m.cursor = len(m.feed) - 1
		}
		return m, nil

	case "r":
		m.loading = true
		m.status = ""
		return m, m.loadFeedCmd()

	case "l", " ":
		p := m.selected()
		if p == nil {
			return m, nil
		}
		if !m.signedIn() {
			m.status = "sign in to like (press a)"
			return m, nil
		}
		return m, m.toggleLikeCmd(p.ID, m.agg[p.ID])

	case "c", "enter":
		p := m.selected()
		if p == nil {
			return m, nil
		}
		return m.openComments(p)

	case "n":
		if !m.signedIn() {
			m.status = "sign in to post (press a)"
			return m, nil
		}
		return m.openComposer(nil)

	case "e":
		p := m.selected()
		if p == nil {
			return m, nil
		}
		if !p.OwnedBy(m.sess.UserID()) {
			m.status = "you can only edit your own posts"
			return m, nil
		}
		return m.openComposer(p)

	case "d":
		p := m.selected()
		if p == nil {
			return m, nil
		}
		if !p.OwnedBy(m.sess.UserID()) {
			m.status = "you can only delete your own posts"
			return m, nil
		}
		m.confirmDelete = p
		return m, nil

	case "a":
		if m.signedIn() {
			return m, nil
		}
		return m.openSignIn()

	case "s":
		if !m.signedIn() {
			return m, nil
		}
		return m, m.signOutCmd()
	}

	return m, nil
}
