package ui

import (
	"context"
	"errors"
	"fmt"
	"smartdash/internal/catalog"
	"smartdash/internal/chat"
	"smartdash/internal/settings"
	"smartdash/internal/styles"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		spCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case spinner.TickMsg:
		m.Spinner, spCmd = m.Spinner.Update(msg)
		if m.Session.State() == chat.StatePending {
			m.UpdateViewport()
		}
		return m, spCmd

	case toastExpiredMsg:
		if m.Toast != nil && m.Toast.seq == msg.seq {
			m.Toast = nil
		}
		return m, nil

	case ResolvedMsg:
		return m, m.handleResolved(msg.Result)

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}

		if m.SettingsOpen {
			return m, m.handleSettingsKey(msg)
		}

		if !m.chatOpen() {
			return m, m.handleDashboardKey(msg)
		}

		pending := m.Session.State() == chat.StatePending

		if isNewlineShortcut(msg) && !pending {
			m.TextInput.InsertString("\n")
			m.updateInputLayout()
			return m, nil
		}

		switch msg.Type {
		case tea.KeyEsc:
			m.closeChat()
			return m, nil

		case tea.KeyCtrlS:
			m.SettingsOpen = true
			m.SettingsField = FieldLanguage
			return m, nil

		case tea.KeyEnter:
			return m, m.submit()
		}

		// input is locked until the reply lands; the viewport still scrolls
		if pending {
			m.Viewport, vpCmd = m.Viewport.Update(msg)
			return m, vpCmd
		}

	case tea.WindowSizeMsg:
		m.WindowWidth = msg.Width
		m.WindowHeight = msg.Height

		styles.ContentWidth = m.modalWidth() - 6
		m.Viewport.Width = m.modalWidth() - 6

		m.updateInputLayout()
		glamourStyle := "dark"
		if !lipgloss.HasDarkBackground() {
			glamourStyle = "light"
		}
		m.Renderer, _ = glamour.NewTermRenderer(
			glamour.WithStylePath(glamourStyle),
			glamour.WithWordWrap(m.Viewport.Width-4),
		)
		m.UpdateViewport()
		return m, nil
	}

	if !m.chatOpen() || m.SettingsOpen {
		return m, nil
	}

	m.TextInput, tiCmd = m.TextInput.Update(msg)
	m.updateInputLayout()

	// Filter out terminal background color queries and cursor reference codes that leak into the input
	val := m.TextInput.Value()
	if strings.Contains(val, "]11;rgb:") || strings.Contains(val, "1;rgb:") || strings.Contains(val, "[1;1R") {
		m.TextInput.Reset()
	}

	m.Viewport, vpCmd = m.Viewport.Update(msg)

	return m, tea.Batch(tiCmd, vpCmd)
}

func (m *Model) chatOpen() bool {
	return m.Session.State() != chat.StateIdle
}

func (m *Model) handleDashboardKey(msg tea.KeyMsg) tea.Cmd {
	n := len(catalog.All())
	cols := m.cardColumns()

	switch msg.String() {
	case "q":
		return tea.Quit
	case "s", "ctrl+s":
		m.SettingsOpen = true
		m.SettingsField = FieldLanguage
	case "left", "h":
		m.SelectedCard = (m.SelectedCard - 1 + n) % n
	case "right", "l", "tab":
		m.SelectedCard = (m.SelectedCard + 1) % n
	case "up", "k":
		m.SelectedCard = (m.SelectedCard - cols + n) % n
	case "down", "j":
		m.SelectedCard = (m.SelectedCard + cols) % n
	case "1", "2", "3", "4":
		idx := int(msg.String()[0] - '1')
		if idx < n {
			m.SelectedCard = idx
			return m.openTool(idx)
		}
	case "enter", " ":
		return m.openTool(m.SelectedCard)
	}
	return nil
}

func (m *Model) handleSettingsKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc", "s", "ctrl+s", "q":
		m.SettingsOpen = false
	case "up", "k":
		m.SettingsField = (m.SettingsField - 1 + fieldCount) % fieldCount
	case "down", "j", "tab":
		m.SettingsField = (m.SettingsField + 1) % fieldCount
	case "left", "h":
		return m.cycleSetting(-1)
	case "right", "l", "enter", " ":
		return m.cycleSetting(1)
	}
	return nil
}

func (m *Model) cycleSetting(step int) tea.Cmd {
	switch m.SettingsField {
	case FieldLanguage:
		return m.changeSetting(settings.KeyLanguage, settings.Cycle(settings.Languages, m.Settings.Language, step))
	case FieldTone:
		return m.changeSetting(settings.KeyTone, settings.Cycle(settings.Tones, m.Settings.Tone, step))
	}
	return nil
}

func (m *Model) changeSetting(key, value string) tea.Cmd {
	next, err := m.Store.Set(context.Background(), m.Settings, key, value)
	if errors.Is(err, settings.ErrUnknownKey) {
		return m.showToast(ToastError, "Error", "Something went wrong. "+err.Error())
	}
	m.Settings = next
	if err != nil {
		m.Logger.Warn("settings not saved", zap.String("key", key), zap.Error(err))
	}
	return m.showToast(ToastInfo, "Settings updated!", fmt.Sprintf("%s changed to %s", key, value))
}

func (m *Model) openTool(idx int) tea.Cmd {
	tools := catalog.All()
	if idx < 0 || idx >= len(tools) {
		return nil
	}
	tool := tools[idx]

	m.Session.SelectTool(tool)
	m.TextInput.Reset()
	m.TextInput.Placeholder = catalog.Placeholder(tool)
	m.TextInput.Focus()
	m.updateInputLayout()
	m.UpdateViewport()

	return m.showToast(ToastInfo, tool.Title+" activated!", fmt.Sprintf("Ready to help you with %s tasks.", tool.Type))
}

func (m *Model) closeChat() {
	m.Session.Close()
	m.TextInput.Reset()
	m.TextInput.Blur()
	m.Viewport.SetContent("")
}

func (m *Model) submit() tea.Cmd {
	p, err := m.Session.Send(m.TextInput.Value(), m.Settings)
	switch {
	case errors.Is(err, chat.ErrBlankInput), errors.Is(err, chat.ErrPending):
		return nil
	case err != nil:
		return m.showToast(ToastError, "Error", "Something went wrong. "+err.Error())
	}

	m.TextInput.Reset()
	m.TextInput.Blur()
	m.updateInputLayout()
	m.UpdateViewport()

	return tea.Batch(resolveCmd(p), m.Spinner.Tick)
}

func resolveCmd(p *chat.Pending) tea.Cmd {
	return func() tea.Msg {
		return ResolvedMsg{Result: p.Run()}
	}
}

func (m *Model) handleResolved(res chat.Result) tea.Cmd {
	_, err := m.Session.Complete(res)
	if errors.Is(err, chat.ErrStale) {
		return nil
	}
	focusCmd := m.TextInput.Focus()
	m.UpdateViewport()

	if err != nil {
		reason := "Please try again."
		if res.Err != nil {
			reason = res.Err.Error()
		}
		return tea.Batch(focusCmd, m.showToast(ToastError, "Error", "Something went wrong. "+reason))
	}
	return tea.Batch(focusCmd, m.showToast(ToastInfo, "Task processed!", res.Tool.Title+" operation completed."))
}

func (m *Model) showToast(kind ToastKind, title, desc string) tea.Cmd {
	m.toastSeq++
	seq := m.toastSeq
	m.Toast = &Toast{Title: title, Description: desc, Kind: kind, seq: seq}
	return tea.Tick(m.ToastTimeout, func(time.Time) tea.Msg {
		return toastExpiredMsg{seq: seq}
	})
}

func isNewlineShortcut(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "shift+enter", "shift+return", "ctrl+j", "ctrl+enter", "alt+enter":
		return true
	default:
		return false
	}
}

func (m *Model) modalWidth() int {
	w := m.WindowWidth - 4
	if w > ModalWidth {
		w = ModalWidth
	}
	if w < 36 {
		w = 36
	}
	return w
}

func (m *Model) cardColumns() int {
	if m.WindowWidth > 0 && m.WindowWidth < CompactWidthThresh {
		return 1
	}
	return 2
}

func (m *Model) updateInputLayout() {
	if m.WindowWidth == 0 || m.WindowHeight == 0 {
		return
	}

	inputWidth := m.modalWidth() - 10
	if inputWidth < 20 {
		inputWidth = 20
	}
	contentWidth := inputWidth - 2
	if contentWidth < 1 {
		contentWidth = 1
	}

	maxInputHeight := 6
	lineCount := WrappedLineCount(m.TextInput.Value(), contentWidth)
	if lineCount < 1 {
		lineCount = 1
	}
	if lineCount > maxInputHeight {
		lineCount = maxInputHeight
	}

	m.TextInput.MaxHeight = maxInputHeight
	m.TextInput.SetWidth(inputWidth)
	m.TextInput.SetHeight(lineCount)

	// modal border and padding, title, hint and toast line
	inputBoxHeight := m.TextInput.Height() + 2
	reserved := inputBoxHeight + 12
	viewportHeight := m.WindowHeight - reserved
	if viewportHeight < 5 {
		viewportHeight = 5
	}
	m.Viewport.Height = viewportHeight
}
