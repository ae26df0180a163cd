package ui

import (
	"context"
	"smartdash/internal/app"
	"smartdash/internal/chat"
	"smartdash/internal/settings"
	"smartdash/internal/styles"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

func InitialModel(session *chat.Session, store *settings.Store, logger *zap.Logger) Model {
	if logger == nil {
		logger = zap.NewNop()
	}

	ti := textarea.New()
	ti.Placeholder = "Type your request..."
	ti.Prompt = "❯ "
	ti.ShowLineNumbers = false
	ti.CharLimit = 0
	ti.MaxHeight = 6
	ti.SetHeight(2)
	ti.SetWidth(60)
	ti.FocusedStyle.Prompt = lipgloss.NewStyle().Foreground(lipgloss.Color("#B39DDB")).Bold(true)
	ti.BlurredStyle.Prompt = lipgloss.NewStyle().Foreground(lipgloss.Color("#B39DDB")).Bold(true)
	ti.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(lipgloss.Color("#545454"))
	ti.BlurredStyle.Placeholder = lipgloss.NewStyle().Foreground(lipgloss.Color("#545454"))
	ti.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ti.BlurredStyle.CursorLine = lipgloss.NewStyle()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#B39DDB"))

	vp := viewport.New(ModalWidth-6, 15)

	return Model{
		TextInput:    ti,
		Viewport:     vp,
		Spinner:      sp,
		Session:      session,
		Store:        store,
		Settings:     store.Load(context.Background()),
		Logger:       logger,
		ToastTimeout: ToastTimeout,
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.TextInput.Cursor.BlinkCmd(),
		m.Spinner.Tick,
	)
}

func NewProgram(a *app.App) *tea.Program {
	styles.InitTheme()
	m := InitialModel(a.NewSession(), a.Settings, a.Logger.Named("ui"))
	m.DBErr = a.DBErr
	return tea.NewProgram(&m, tea.WithAltScreen())
}
