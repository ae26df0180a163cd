package ui

import (
	"fmt"
	"smartdash/internal/catalog"
	"smartdash/internal/chat"
	"smartdash/internal/models"
	"smartdash/internal/settings"
	"smartdash/internal/styles"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m *Model) RenderHeader() string {
	title := styles.TitleStyle.Render("Smart Utility Dashboard")
	subtitle := styles.SubtitleStyle.Render("AI-powered tools for productivity and creativity")
	return lipgloss.JoinVertical(lipgloss.Center, title, subtitle)
}

func RenderStats() string {
	stat := func(value, label string) string {
		return styles.StatBoxStyle.Render(lipgloss.JoinVertical(lipgloss.Center,
			styles.StatValueStyle.Render(value),
			styles.StatLabelStyle.Render(label),
		))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		stat(fmt.Sprint(len(catalog.All())), "AI Tools Available"), " ",
		stat("∞", "Tasks Processed"), " ",
		stat("24/7", "AI Availability"),
	)
}

// RenderCard draws one tool card. Compact cards keep the description to a single line.
func RenderCard(tool models.Tool, selected, active, compact bool) string {
	color := styles.ToolColor(tool.Type)

	title := styles.CardTitleStyle.Foreground(color).Render(tool.Title)
	if active {
		badge := styles.ActiveBadgeStyle.Background(color).Render("Active")
		title = lipgloss.JoinHorizontal(lipgloss.Center, title, " ", badge)
	}
	text := tool.Description
	if compact {
		text = TruncateRunes(text, styles.CardWidth-4)
	}
	desc := styles.CardDescStyle.Width(styles.CardWidth - 2).Render(text)

	style := styles.CardStyle
	if selected {
		style = style.BorderForeground(color).BorderStyle(lipgloss.ThickBorder())
	}
	return style.Render(lipgloss.JoinVertical(lipgloss.Left, title, desc))
}

func (m *Model) RenderCards() string {
	var active string
	if snap := m.Session.Snapshot(); snap.Tool != nil {
		active = snap.Tool.ID
	}

	tools := catalog.All()
	cols := m.cardColumns()
	compact := cols == 1

	var rows []string
	for start := 0; start < len(tools); start += cols {
		end := start + cols
		if end > len(tools) {
			end = len(tools)
		}
		var cards []string
		for i := start; i < end; i++ {
			cards = append(cards, RenderCard(tools[i], i == m.SelectedCard, tools[i].ID == active, compact))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}

	heading := lipgloss.JoinVertical(lipgloss.Center,
		styles.TitleStyle.Render("Choose Your AI Tool"),
		styles.SubtitleStyle.Render("Select a tool below to get started with AI-powered assistance"),
	)
	return lipgloss.JoinVertical(lipgloss.Center, heading, "", lipgloss.JoinVertical(lipgloss.Left, rows...))
}

var highlights = []struct {
	title string
	desc  string
}{
	{"Lightning Fast", "Get instant results with our optimized AI processing"},
	{"Smart & Adaptive", "AI that learns and adapts to your preferences"},
	{"Multiple Tools", "All your productivity tools in one beautiful dashboard"},
}

func (m *Model) RenderHighlights() string {
	boxStyle := styles.StatBoxStyle.Width(24)
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(styles.FgPrimary)
	descStyle := lipgloss.NewStyle().Foreground(styles.FgMuted)

	boxes := make([]string, 0, len(highlights))
	for _, h := range highlights {
		boxes = append(boxes, boxStyle.Render(lipgloss.JoinVertical(lipgloss.Center,
			titleStyle.Render(h.title),
			descStyle.Render(h.desc),
		)))
	}

	var grid string
	if m.cardColumns() == 1 {
		grid = lipgloss.JoinVertical(lipgloss.Center, boxes...)
	} else {
		grid = lipgloss.JoinHorizontal(lipgloss.Top, boxes[0], " ", boxes[1], " ", boxes[2])
	}
	heading := styles.SubtitleStyle.Bold(true).Render("Why Choose Our Smart Utility Dashboard?")
	return lipgloss.JoinVertical(lipgloss.Center, heading, grid)
}

func (m *Model) RenderToast() string {
	if m.Toast == nil {
		return ""
	}
	style := styles.ToastStyle
	if m.Toast.Kind == ToastError {
		style = styles.ToastErrorStyle
	}
	title := lipgloss.NewStyle().Bold(true).Render(m.Toast.Title)
	desc := lipgloss.NewStyle().Foreground(styles.FgSecondary).Render(m.Toast.Description)
	return style.Render(lipgloss.JoinVertical(lipgloss.Left, title, desc))
}

func (m *Model) RenderSettingsModal() string {
	title := styles.ModalTitleStyle.Render("Settings")

	rows := []struct {
		label string
		value string
	}{
		{"Language", strings.ToUpper(m.Settings.Language) + "  " + settings.Label(settings.Languages, m.Settings.Language)},
		{"Tone", settings.Label(settings.Tones, m.Settings.Tone)},
	}

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFCC80")).
		Bold(true).
		Width(12)

	var items []string
	for i, r := range rows {
		line := fmt.Sprintf("%s ‹ %s ›", keyStyle.Render(r.label), r.value)
		if i == m.SettingsField {
			items = append(items, styles.ModalSelectedStyle.Render(line))
		} else {
			items = append(items, styles.ModalItemStyle.Render(line))
		}
	}

	var notice string
	if m.DBErr != nil {
		notice = lipgloss.NewStyle().
			Width(styles.ContentWidth).
			PaddingTop(1).
			Render(styles.ErrorStyle.Render(fmt.Sprintf("Settings will not be saved: %v", m.DBErr)))
	}

	hint := lipgloss.NewStyle().
		Foreground(styles.HintColor).
		Width(styles.ContentWidth).
		PaddingTop(1).
		Render("↑/↓: field • ←/→: change • Esc: close")

	parts := []string{title, lipgloss.JoinVertical(lipgloss.Left, items...), notice, hint}
	if toast := m.RenderToast(); toast != "" {
		parts = append(parts, toast)
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *Model) RenderChatModal() string {
	snap := m.Session.Snapshot()
	if snap.Tool == nil {
		return ""
	}

	title := styles.ModalTitleStyle.
		Foreground(styles.ToolColor(snap.Tool.Type)).
		Render(snap.Tool.Title)

	inputBox := styles.InputBoxStyle.Width(m.modalWidth() - 8).Render(m.TextInput.View())

	hint := lipgloss.NewStyle().
		Foreground(styles.HintColor).
		PaddingTop(1).
		Render("Enter: send • Shift+Enter: newline • Ctrl+S: settings • Esc: close")

	parts := []string{title, m.Viewport.View(), "", inputBox, hint}
	if toast := m.RenderToast(); toast != "" {
		parts = append(parts, toast)
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *Model) RenderBottomBar() string {
	prefs := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#B39DDB")).
		Render(fmt.Sprintf("%s • %s", strings.ToUpper(m.Settings.Language), m.Settings.Tone))

	help := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#555555")).
		Render("←/→/↑/↓: select • Enter: open • s: settings • q: quit")

	leftSide := prefs
	if m.DBErr != nil {
		leftSide = lipgloss.JoinHorizontal(lipgloss.Center, prefs, "  ", styles.ErrorStyle.Render("settings not persisted"))
	}

	availableWidth := m.WindowWidth - lipgloss.Width(leftSide) - lipgloss.Width(help) - 2
	if availableWidth < 0 {
		availableWidth = 0
	}
	spacer := strings.Repeat(" ", availableWidth)

	bar := lipgloss.JoinHorizontal(lipgloss.Center, leftSide, spacer, help)

	return lipgloss.NewStyle().
		Width(m.WindowWidth).
		BorderTop(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#333333")).
		Padding(0, 1).
		Render(bar)
}

func (m *Model) UpdateViewport() {
	snap := m.Session.Snapshot()
	if snap.Tool == nil {
		m.Viewport.SetContent("")
		return
	}

	parts := make([]string, 0, len(snap.Messages)+1)
	for i, msg := range snap.Messages {
		switch msg.Role {
		case models.RoleUser:
			parts = append(parts, FormatUserMessage(msg.Content, m.Viewport.Width, i == 0))
		default:
			parts = append(parts, FormatBotMessage(m.renderMarkdown(msg.Content)))
		}
	}
	if snap.State == chat.StatePending {
		loading := fmt.Sprintf("%s\n%s Processing...", styles.BotLabelStyle.Render("ASSISTANT"), m.Spinner.View())
		parts = append(parts, loading)
	}

	m.Viewport.SetContent(strings.Join(parts, "\n\n"))
	m.Viewport.GotoBottom()
}

func (m *Model) placeModal(content string) string {
	modal := styles.ModalStyle.Width(m.modalWidth()).Render(content)
	return lipgloss.Place(
		m.WindowWidth,
		m.WindowHeight,
		lipgloss.Center,
		lipgloss.Center,
		modal,
	)
}

func (m *Model) View() string {
	if m.SettingsOpen {
		return m.placeModal(m.RenderSettingsModal())
	}

	if m.chatOpen() {
		return m.placeModal(m.RenderChatModal())
	}

	parts := []string{m.RenderHeader(), "", RenderStats(), "", m.RenderCards(), "", m.RenderHighlights()}
	if toast := m.RenderToast(); toast != "" {
		parts = append(parts, "", toast)
	}
	dashboard := lipgloss.PlaceHorizontal(m.WindowWidth, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center, parts...))

	return lipgloss.JoinVertical(lipgloss.Left, dashboard, m.RenderBottomBar())
}
