package tui

import (
	"strings"

	postEntity "github.com/samliubearberkeley-oss/vibe-coding-community/internal/core/post"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	composeFieldTitle = iota
	composeFieldContent
	composeFieldTags
	composeFieldCount
)

// openComposer opens the editor, pre-filled when editing an existing
// post.
func (m Model) openComposer(editing *postEntity.Post) (tea.Model, tea.Cmd) {
	title := textinput.New()
	title.Placeholder = "title"
	title.CharLimit = postEntity.MaxTitleLen
	title.Width = m.composerWidth()

	content := textarea.New()
	content.Placeholder = "what's the vibe?"
	content.ShowLineNumbers = false
	content.SetWidth(m.composerWidth())
	content.SetHeight(8)

	tags := textinput.New()
	tags.Placeholder = "tags, comma separated"
	tags.Width = m.composerWidth()

	if editing != nil {
		title.SetValue(editing.Title)
		content.SetValue(editing.Content)
		tags.SetValue(joinTags(editing.Tags))
	}

	m.compose = composeState{
		title:   title,
		content: content,
		tags:    tags,
		editing: editing,
	}
	m.state = stateCompose
	return m, m.compose.title.Focus()
}

func joinTags(tags []string) string {
	return strings.Join(tags, ", ")
}

func (m Model) updateCompose(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.compose.busy {
		return m, nil
	}

	switch msg.String() {
	case "esc":
		m.state = stateFeed
		m.compose = composeState{}
		return m, nil

	case "tab":
		return m.cycleComposeFocus(1)

	case "shift+tab":
		return m.cycleComposeFocus(-1)

	case "ctrl+s", "alt+enter":
		in := postEntity.Input{
			Title:   m.compose.title.Value(),
			Content: m.compose.content.Value(),
			Tags:    m.compose.tags.Value(),
		}
		// Surface validation failures before leaving the editor.
		if _, err := m.posts.Draft(in); err != nil {
			m.errText = err.Error()
			return m, nil
		}
		m.compose.busy = true
		return m, m.savePostCmd(m.compose.editing, in)
	}

	var cmd tea.Cmd
	switch m.compose.focus {
	case composeFieldTitle:
		m.compose.title, cmd = m.compose.title.Update(msg)
	case composeFieldContent:
		m.compose.content, cmd = m.compose.content.Update(msg)
	case composeFieldTags:
		m.compose.tags, cmd = m.compose.tags.Update(msg)
	}
	return m, cmd
}

func (m Model) cycleComposeFocus(dir int) (tea.Model, tea.Cmd) {
	m.compose.title.Blur()
	m.compose.content.Blur()
	m.compose.tags.Blur()

	m.compose.focus = (m.compose.focus + dir + composeFieldCount) % composeFieldCount

	switch m.compose.focus {
	case composeFieldTitle:
		return m, m.compose.title.Focus()
	case composeFieldContent:
		return m, m.compose.content.Focus()
	default:
		return m, m.compose.tags.Focus()
	}
}
