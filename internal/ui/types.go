package ui

import (
	"smartdash/internal/chat"
	"smartdash/internal/models"
	"smartdash/internal/settings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"
)

const (
	ModalWidth   = 80
	ToastTimeout = 3 * time.Second

	// Below this width the card grid collapses to a single column.
	CompactWidthThresh = 76
)

// Settings panel rows.
const (
	FieldLanguage = iota
	FieldTone
	fieldCount
)

type ToastKind int

const (
	ToastInfo ToastKind = iota
	ToastError
)

type Toast struct {
	Title       string
	Description string
	Kind        ToastKind
	seq         int
}

// ResolvedMsg carries a finished request back into the update loop.
type ResolvedMsg struct {
	Result chat.Result
}

type toastExpiredMsg struct{ seq int }

type Model struct {
	Viewport     viewport.Model
	TextInput    textarea.Model
	Spinner      spinner.Model
	Renderer     *glamour.TermRenderer
	Session      *chat.Session
	Store        *settings.Store
	Settings     models.Settings
	Logger       *zap.Logger
	DBErr        error
	WindowWidth  int
	WindowHeight int

	SelectedCard  int
	SettingsOpen  bool
	SettingsField int

	Toast        *Toast
	ToastTimeout time.Duration
	toastSeq     int
}
