package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/ramanasai/magicmind/internal/insights"
	"github.com/ramanasai/magicmind/internal/journal"
	"github.com/ramanasai/magicmind/internal/render"
	"github.com/ramanasai/magicmind/internal/session"
	"github.com/ramanasai/magicmind/internal/streak"
	"github.com/ramanasai/magicmind/internal/version"
)

// Model is the bubbletea model for the journal. Store calls happen inline in
// Update; the session is not safe for concurrent use.
type Model struct {
	ctx     context.Context
	sess    *session.Session
	prompts []string
	loc     *time.Location
	now     func() time.Time
	theme   Theme

	editor   textarea.Model
	cursor   int
	clusters []insights.Cluster
	// pendingDelete holds the id awaiting a second "d".
	pendingDelete string
	status        string
	width         int
	height        int
}

func New(ctx context.Context, sess *session.Session, prompts []string, loc *time.Location) Model {
	ed := textarea.New()
	ed.Placeholder = "What's on your mind?  (Ctrl+S to save, Esc to cancel)"
	ed.CharLimit = 0
	ed.ShowLineNumbers = false
	ed.SetHeight(10)
	ed.FocusedStyle.CursorLine = DefaultTheme.CursorLine

	if loc == nil {
		loc = time.Local
	}
	return Model{
		ctx:     ctx,
		sess:    sess,
		prompts: prompts,
		loc:     loc,
		now:     time.Now,
		theme:   DefaultTheme,
		editor:  ed,
		width:   80,
		height:  24,
	}
}

// WithTheme returns a copy of m drawn with t.
func (m Model) WithTheme(t Theme) Model {
	m.theme = t
	m.editor.FocusedStyle.CursorLine = t.CursorLine
	return m
}

// Run starts the full-screen journal until the user quits or ctx ends.
func Run(ctx context.Context, sess *session.Session, prompts []string, loc *time.Location, theme Theme) error {
	m := New(ctx, sess, prompts, loc).WithTheme(theme)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.editor.SetWidth(max(20, msg.Width-6))
		m.editor.SetHeight(max(5, msg.Height-12))
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.sess.View() {
		case session.ViewEditor:
			return m.updateEditor(msg)
		case session.ViewInsights:
			return m.updateInsights(msg)
		default:
			return m.updateList(msg)
		}
	}
	if m.sess.View() == session.ViewEditor {
		var cmd tea.Cmd
		m.editor, cmd = m.editor.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateList(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	entries := m.sess.Entries()
	key := k.String()
	if key != "d" {
		m.pendingDelete = ""
	}

	switch key {
	case "q":
		return m, tea.Quit
	case "j", "down":
		m.cursor = min(m.cursor+1, max(len(entries)-1, 0))
	case "k", "up":
		m.cursor = max(m.cursor-1, 0)
	case "g", "home":
		m.cursor = 0
	case "G", "end":
		m.cursor = max(len(entries)-1, 0)
	case "n":
		m.sess.NewEntry()
		m.editor.Reset()
		m.status = ""
		return m, m.editor.Focus()
	case "enter", "e":
		if len(entries) == 0 {
			return m, nil
		}
		text, err := m.sess.Edit(entries[m.cursor].ID)
		if err != nil {
			m.status = "edit failed: " + err.Error()
			return m, nil
		}
		m.editor.SetValue(text)
		m.status = ""
		return m, m.editor.Focus()
	case "d":
		if len(entries) == 0 {
			return m, nil
		}
		id := entries[m.cursor].ID
		if m.pendingDelete != id {
			m.pendingDelete = id
			m.status = "press d again to delete this entry"
			return m, nil
		}
		m.pendingDelete = ""
		if err := m.sess.Delete(m.ctx, id); err != nil {
			m.status = "delete failed: " + err.Error()
			return m, nil
		}
		m.status = "deleted"
		m.cursor = max(0, min(m.cursor, len(m.sess.Entries())-1))
	case "i":
		m.clusters = m.sess.Insights()
		m.status = ""
	case "r":
		if err := m.sess.Load(m.ctx); err != nil {
			m.status = "reload failed: " + err.Error()
		} else {
			m.status = "reloaded"
		}
	}
	return m, nil
}

func (m Model) updateEditor(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch k.String() {
	case "esc":
		m.sess.Cancel()
		m.editor.Blur()
		m.status = "discarded"
		return m, nil
	case "ctrl+s", "ctrl+enter":
		wasEdit := m.sess.Editing() != ""
		saved, err := m.sess.Save(m.ctx, m.editor.Value())
		if errors.Is(err, journal.ErrEmptyText) {
			m.status = "nothing to save"
			return m, nil
		}
		if err != nil {
			m.status = "save failed: " + err.Error()
			return m, nil
		}
		m.editor.Blur()
		m.editor.Reset()
		m.cursor = m.indexOf(saved.ID)
		if wasEdit {
			m.status = "updated"
		} else {
			m.status = "saved"
		}
		return m, nil
	}

	// alt+1..alt+9 append a reflective prompt
	if s := k.String(); strings.HasPrefix(s, "alt+") && len(s) == 5 && s[4] >= '1' && s[4] <= '9' {
		i := int(s[4] - '1')
		if i < len(m.prompts) {
			m.editor.SetValue(session.AppendPrompt(m.editor.Value(), m.prompts[i]))
			m.editor.CursorEnd()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(k)
	return m, cmd
}

func (m Model) updateInsights(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch k.String() {
	case "q":
		return m, tea.Quit
	case "esc", "i", "backspace":
		m.sess.ShowList()
	}
	return m, nil
}

func (m Model) indexOf(id string) int {
	for i, e := range m.sess.Entries() {
		if e.ID == id {
			return i
		}
	}
	return 0
}

// ---------- views ----------

func (m Model) View() string {
	var body string
	switch m.sess.View() {
	case session.ViewEditor:
		body = m.renderEditor()
	case session.ViewInsights:
		body = m.renderInsights()
	default:
		body = m.renderList()
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.renderTopBar(), body, m.statusBar())
}

func (m Model) renderTopBar() string {
	label := streak.Label(0)
	if n, err := m.sess.Streak(); err == nil {
		label = streak.Label(n)
	}
	return m.theme.Title.Render("MagicMind") + "  " + m.theme.Streak.Render(label)
}

func (m Model) renderList() string {
	entries := m.sess.Entries()
	if len(entries) == 0 {
		return m.theme.Hint.Render("\nNo entries yet. Press n to write your first one.\n")
	}

	// two lines per entry plus chrome
	rows := max(1, (m.height-4)/2)
	start := 0
	if m.cursor >= rows {
		start = m.cursor - rows + 1
	}
	end := min(len(entries), start+rows)

	now := m.now()
	var b strings.Builder
	for i := start; i < end; i++ {
		e := entries[i]
		marker := "  "
		if i == m.cursor {
			marker = m.theme.Cursor.Render("▸ ")
		}
		date := e.Timestamp.In(m.loc).Format("Mon Jan 2 2006")
		b.WriteString(marker)
		b.WriteString(m.theme.Date.Render(date))
		b.WriteString("  ")
		b.WriteString(m.theme.Hint.Render(humanize.RelTime(e.Timestamp, now, "ago", "from now")))
		b.WriteString("\n    ")
		b.WriteString(strings.Join(strings.Fields(insights.Preview(e.Text, render.ListPreview)), " "))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderEditor() string {
	title := "New entry"
	if m.sess.Editing() != "" {
		title = "Edit entry"
	}
	var hints []string
	for i, p := range m.prompts {
		if i >= 9 {
			break
		}
		hints = append(hints, fmt.Sprintf("alt+%d  %s", i+1, p))
	}
	content := lipgloss.JoinVertical(lipgloss.Left,
		m.editor.View(),
		"",
		m.theme.Hint.Render(strings.Join(hints, "\n")),
	)
	return m.modal(title, content)
}

func (m Model) renderInsights() string {
	if len(m.clusters) == 0 {
		return m.modal("Insights", m.theme.Hint.Render("No insights yet. Keep writing."))
	}
	var parts []string
	for _, c := range m.clusters {
		var b strings.Builder
		b.WriteString(m.theme.Date.Render(fmt.Sprintf("%s (%d)", c.Name, len(c.Texts))))
		for _, t := range c.Texts {
			b.WriteString("\n  • ")
			b.WriteString(strings.Join(strings.Fields(insights.Preview(t, render.InsightsPreview)), " "))
		}
		b.WriteString("\n  ")
		b.WriteString(m.theme.Tip.Render("Tip: " + c.Tip))
		parts = append(parts, b.String())
	}
	return m.modal("Insights", strings.Join(parts, "\n\n"))
}

func (m Model) modal(title, content string) string {
	box := lipgloss.JoinVertical(lipgloss.Left,
		m.theme.Title.Render(title),
		"",
		content,
	)
	return m.theme.Border.Width(max(20, m.width-4)).Render(box)
}

func (m Model) statusBar() string {
	hints := "n new • enter edit • d delete • i insights • j/k move • q quit"
	switch m.sess.View() {
	case session.ViewEditor:
		hints = "ctrl+s save • esc cancel • alt+N add prompt"
	case session.ViewInsights:
		hints = "esc back • q quit"
	}
	if m.status != "" {
		hints = m.status + "   |   " + hints
	}
	return m.theme.Hint.Render(fmt.Sprintf("%s   |   %s", version.GetShortVersion(), hints))
}
