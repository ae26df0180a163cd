package ui

import (
	"context"
	"path/filepath"
	"smartdash/internal/catalog"
	"smartdash/internal/chat"
	"smartdash/internal/db"
	"smartdash/internal/models"
	"smartdash/internal/resolver"
	"smartdash/internal/settings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTranslator struct{}

func (stubTranslator) Translate(ctx context.Context, text string) string {
	return "अनुवाद"
}

func newTestModel(t *testing.T) *Model {
	t.Helper()
	conn, err := db.Open(filepath.Join(t.TempDir(), "ui.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	res := resolver.New(stubTranslator{}, resolver.WithDelay(resolver.NoDelay, 0))
	m := InitialModel(chat.NewSession(res), settings.NewStore(conn, nil), nil)
	m.ToastTimeout = time.Millisecond
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return &m
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func press(m *Model, s string) tea.Cmd {
	_, cmd := m.Update(key(s))
	return cmd
}

// drain runs cmd and any batched children, returning the messages produced.
func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, drain(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

// deliverResolved feeds every ResolvedMsg produced by cmd back into m.
func deliverResolved(m *Model, cmd tea.Cmd) int {
	n := 0
	for _, msg := range drain(cmd) {
		if r, ok := msg.(ResolvedMsg); ok {
			m.Update(r)
			n++
		}
	}
	return n
}

func TestCardNavigation(t *testing.T) {
	m := newTestModel(t)
	assert.Equal(t, 0, m.SelectedCard)

	press(m, "right")
	assert.Equal(t, 1, m.SelectedCard)
	press(m, "down")
	assert.Equal(t, 3, m.SelectedCard)
	press(m, "left")
	assert.Equal(t, 2, m.SelectedCard)
	press(m, "right")
	press(m, "right")
	assert.Equal(t, 0, m.SelectedCard, "selection wraps")
}

func TestCompactLayoutUsesOneColumn(t *testing.T) {
	m := newTestModel(t)
	m.Update(tea.WindowSizeMsg{Width: 60, Height: 40})

	press(m, "down")
	assert.Equal(t, 1, m.SelectedCard)
}

func TestOpenToolShowsGreetingAndToast(t *testing.T) {
	m := newTestModel(t)
	tool := catalog.All()[0]

	cmd := press(m, "enter")
	require.NotNil(t, cmd)

	snap := m.Session.Snapshot()
	require.NotNil(t, snap.Tool)
	assert.Equal(t, tool.ID, snap.Tool.ID)
	require.Len(t, snap.Messages, 1)
	assert.Equal(t, models.RoleBot, snap.Messages[0].Role)

	require.NotNil(t, m.Toast)
	assert.Equal(t, "Text Summarizer activated!", m.Toast.Title)
	assert.Equal(t, "Ready to help you with summarize tasks.", m.Toast.Description)
	assert.Equal(t, catalog.Placeholder(tool), m.TextInput.Placeholder)
}

func TestSubmitResolvesAndToasts(t *testing.T) {
	m := newTestModel(t)
	press(m, "4")
	require.Equal(t, chat.StateReady, m.Session.State())

	m.TextInput.SetValue("plan my week")
	cmd := press(m, "enter")
	assert.Equal(t, chat.StatePending, m.Session.State())
	assert.Empty(t, m.TextInput.Value())
	assert.Contains(t, m.View(), "Processing...")

	assert.Equal(t, 1, deliverResolved(m, cmd))

	snap := m.Session.Snapshot()
	assert.Equal(t, chat.StateReady, snap.State)
	require.Len(t, snap.Messages, 3)
	assert.Contains(t, snap.Messages[2].Content, `"plan my week"`)
	require.NotNil(t, m.Toast)
	assert.Equal(t, "Task processed!", m.Toast.Title)
	assert.Equal(t, "AI Assistant operation completed.", m.Toast.Description)
}

func TestSubmitUsesCurrentSettings(t *testing.T) {
	m := newTestModel(t)
	m.Settings = models.Settings{Language: "fr", Tone: "casual"}
	press(m, "1")

	m.TextInput.SetValue("The quick brown fox jumps over the lazy dog")
	deliverResolved(m, press(m, "enter"))

	snap := m.Session.Snapshot()
	require.Len(t, snap.Messages, 3)
	assert.Contains(t, snap.Messages[2].Content, "(Using language: FR, tone: casual)")
}

func TestBlankSubmitIsIgnored(t *testing.T) {
	m := newTestModel(t)
	press(m, "4")

	m.TextInput.SetValue("   ")
	cmd := press(m, "enter")
	assert.Nil(t, cmd)
	assert.Equal(t, chat.StateReady, m.Session.State())
	assert.Len(t, m.Session.Snapshot().Messages, 1)
}

func TestInputLockedWhilePending(t *testing.T) {
	m := newTestModel(t)
	press(m, "4")

	m.TextInput.SetValue("first")
	first := press(m, "enter")
	require.Equal(t, chat.StatePending, m.Session.State())
	assert.False(t, m.TextInput.Focused())

	press(m, "x")
	press(m, "y")
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlJ})
	assert.Empty(t, m.TextInput.Value(), "typing is ignored while a request is pending")
	assert.Nil(t, press(m, "enter"))

	deliverResolved(m, first)
	assert.Len(t, m.Session.Snapshot().Messages, 3)
	assert.True(t, m.TextInput.Focused())

	press(m, "o")
	press(m, "k")
	assert.Equal(t, "ok", m.TextInput.Value(), "input is unlocked once the reply arrives")
}

func TestEscClosesChatAndDropsLateResult(t *testing.T) {
	m := newTestModel(t)
	press(m, "2")

	m.TextInput.SetValue("hello")
	cmd := press(m, "enter")
	require.Equal(t, chat.StatePending, m.Session.State())

	press(m, "esc")
	assert.Equal(t, chat.StateIdle, m.Session.State())

	deliverResolved(m, cmd)
	assert.Equal(t, chat.StateIdle, m.Session.State())
	assert.Empty(t, m.Session.Snapshot().Messages)
	require.NotNil(t, m.Toast)
	assert.NotEqual(t, "Task processed!", m.Toast.Title)
}

func TestSwitchingToolsResetsConversation(t *testing.T) {
	m := newTestModel(t)
	press(m, "4")
	m.TextInput.SetValue("hello")
	deliverResolved(m, press(m, "enter"))
	require.Len(t, m.Session.Snapshot().Messages, 3)

	press(m, "esc")
	press(m, "3")
	snap := m.Session.Snapshot()
	assert.Equal(t, "email", snap.Tool.ID)
	assert.Len(t, snap.Messages, 1)
}

func TestSettingsPanelCyclesAndPersists(t *testing.T) {
	m := newTestModel(t)

	press(m, "s")
	require.True(t, m.SettingsOpen)

	press(m, "right")
	assert.Equal(t, "es", m.Settings.Language)
	require.NotNil(t, m.Toast)
	assert.Equal(t, "Settings updated!", m.Toast.Title)
	assert.Equal(t, "language changed to es", m.Toast.Description)

	press(m, "down")
	press(m, "left")
	assert.Equal(t, "technical", m.Settings.Tone, "cycling backwards wraps")
	assert.Equal(t, "tone changed to technical", m.Toast.Description)

	stored := m.Store.Load(context.Background())
	assert.Equal(t, models.Settings{Language: "es", Tone: "technical"}, stored)

	press(m, "esc")
	assert.False(t, m.SettingsOpen)
}

func TestSettingsWithoutDatabaseStillApply(t *testing.T) {
	res := resolver.New(stubTranslator{}, resolver.WithDelay(resolver.NoDelay, 0))
	m := InitialModel(chat.NewSession(res), settings.NewStore(nil, nil), nil)
	m.ToastTimeout = time.Millisecond

	press(&m, "ctrl+s")
	press(&m, "right")
	assert.Equal(t, "es", m.Settings.Language)
	assert.Equal(t, "Settings updated!", m.Toast.Title)
}

func TestSettingsOverChat(t *testing.T) {
	m := newTestModel(t)
	press(m, "4")

	press(m, "ctrl+s")
	require.True(t, m.SettingsOpen)
	assert.Contains(t, m.View(), "Settings")

	press(m, "esc")
	assert.False(t, m.SettingsOpen)
	assert.Equal(t, chat.StateReady, m.Session.State(), "closing settings keeps the chat open")
}

func TestToastExpires(t *testing.T) {
	m := newTestModel(t)

	first := m.showToast(ToastInfo, "one", "")
	m.showToast(ToastInfo, "two", "")

	for _, msg := range drain(first) {
		m.Update(msg)
	}
	require.NotNil(t, m.Toast, "an older expiry does not hide a newer toast")
	assert.Equal(t, "two", m.Toast.Title)

	m.Update(toastExpiredMsg{seq: m.Toast.seq})
	assert.Nil(t, m.Toast)
}

func TestDashboardView(t *testing.T) {
	m := newTestModel(t)
	view := m.View()

	assert.Contains(t, view, "Smart Utility Dashboard")
	assert.Contains(t, view, "24/7")
	assert.Contains(t, view, "AI Tools Available")
	for _, tool := range catalog.All() {
		assert.Contains(t, view, tool.Title)
	}
}

func TestDashboardHighlights(t *testing.T) {
	m := newTestModel(t)
	view := m.View()

	assert.Contains(t, view, "Why Choose Our Smart Utility Dashboard?")
	for _, title := range []string{"Lightning Fast", "Smart & Adaptive", "Multiple Tools"} {
		assert.Contains(t, view, title)
	}
}

func TestCompactCardsTruncateDescriptions(t *testing.T) {
	tool, ok := catalog.Lookup("email")
	require.True(t, ok)

	wide := RenderCard(tool, false, false, false)
	compact := RenderCard(tool, false, false, true)

	assert.Contains(t, wide, "structure")
	assert.NotContains(t, compact, "structure")
	assert.Contains(t, compact, "…")
	assert.Less(t, lipgloss.Height(compact), lipgloss.Height(wide))
}

func TestChatView(t *testing.T) {
	m := newTestModel(t)
	press(m, "2")

	view := m.View()
	assert.Contains(t, view, "Smart Translator")
	assert.Contains(t, view, "Esc: close")
}

func TestQuit(t *testing.T) {
	m := newTestModel(t)
	cmd := press(m, "q")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestWrappedLineCount(t *testing.T) {
	tests := []struct {
		value string
		width int
		want  int
	}{
		{"", 10, 1},
		{"short", 10, 1},
		{"0123456789abc", 10, 2},
		{"a\nb\nc", 10, 3},
		{"anything", 0, 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, WrappedLineCount(tt.value, tt.width), tt.value)
	}
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "héllo", TruncateRunes("héllo", 5))
	assert.Equal(t, "hé…", TruncateRunes("héllo", 3))
	assert.Equal(t, "…", TruncateRunes("héllo", 1))
	assert.Equal(t, "", TruncateRunes("héllo", 0))
}
