package tui

import (
	"strings"

	authPort "github.com/samliubearberkeley-oss/vibe-coding-community/internal/ports/auth"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

func buildAuthForm(signUp bool) *huh.Form {
	title := "sign in"
	if signUp {
		title = "sign up"
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("email").
				Title(title).
				Description("email").
				Placeholder("you@example.com"),
			huh.NewInput().
				Key("password").
				Description("password").
				EchoMode(huh.EchoModePassword),
		),
	).
		WithTheme(huh.ThemeBase()).
		WithShowHelp(false)
}

func (m Model) openSignIn() (tea.Model, tea.Cmd) {
	m.state = stateSignIn
	m.auth = authState{form: buildAuthForm(false)}
	return m, m.auth.form.Init()
}

func (m Model) updateSignIn(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if m.auth.oauthURL != "" {
			// Abandon the browser round trip; a late success still
			// lands as a session change.
			m.auth = authState{form: buildAuthForm(m.auth.signUp), signUp: m.auth.signUp}
			return m, m.auth.form.Init()
		}
		m.state = stateFeed
		m.auth = authState{}
		return m, nil

	case "ctrl+t":
		if m.auth.busy {
			return m, nil
		}
		m.auth = authState{form: buildAuthForm(!m.auth.signUp), signUp: !m.auth.signUp}
		return m, m.auth.form.Init()

	case "f2":
		if m.auth.busy {
			return m, nil
		}
		m.auth.busy = true
		return m, m.startOAuthCmd(authPort.ProviderGoogle)

	case "f3":
		if m.auth.busy {
			return m, nil
		}
		m.auth.busy = true
		return m, m.startOAuthCmd(authPort.ProviderGitHub)
	}

	if m.auth.busy || m.auth.form == nil {
		return m, nil
	}

	f, cmd := m.auth.form.Update(msg)
	if form, ok := f.(*huh.Form); ok {
		m.auth.form = form
	}

	if m.auth.form.State == huh.StateCompleted {
		email := strings.TrimSpace(m.auth.form.GetString("email"))
		password := m.auth.form.GetString("password")
		signUp := m.auth.signUp

		// A fresh form sits behind the spinner for the retry case.
		m.auth = authState{form: buildAuthForm(signUp), signUp: signUp, busy: true}
		return m, tea.Batch(cmd, m.auth.form.Init(), m.passwordAuthCmd(signUp, email, password))
	}
	return m, cmd
}
