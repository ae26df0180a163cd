// Package chat holds the message flow for the currently open tool.
//
// A Session moves between three states: idle (no tool), ready and pending.
// Only one request may be pending. Every SelectTool starts a new lifetime with
// its own context; results produced for an earlier lifetime are discarded and
// its context is cancelled.
package chat

import (
	"context"
	"errors"
	"fmt"
	"smartdash/internal/models"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrNoActiveTool = errors.New("no active tool")
	ErrBlankInput   = errors.New("message is blank")
	ErrPending      = errors.New("a request is already pending")
	ErrStale        = errors.New("result belongs to a closed session")
	ErrResolve      = errors.New("resolve failed")
)

// Resolver produces the bot reply for one request.
type Resolver interface {
	Resolve(ctx context.Context, toolType models.ToolType, input string, s models.Settings) (string, error)
}

type State int

const (
	StateIdle State = iota
	StateReady
	StatePending
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateReady:
		return "ready"
	case StatePending:
		return "pending"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Snapshot is a read-only copy of the session.
type Snapshot struct {
	State    State            `json:"-"`
	Tool     *models.Tool     `json:"tool"`
	Messages []models.Message `json:"messages"`
	Pending  bool             `json:"pending"`
}

type Session struct {
	mu         sync.Mutex
	resolver   Resolver
	logger     *zap.Logger
	newID      func() string
	tool       *models.Tool
	messages   []models.Message
	pending    bool
	generation uint64
	ctx        context.Context
	cancel     context.CancelFunc
}

type Option func(*Session)

func WithLogger(l *zap.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithIDs replaces the message id generator.
func WithIDs(fn func() string) Option {
	return func(s *Session) { s.newID = fn }
}

func NewSession(r Resolver, opts ...Option) *Session {
	s := &Session{
		resolver: r,
		logger:   zap.NewNop(),
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Greeting is the first bot message shown when tool is opened.
func Greeting(tool models.Tool) string {
	switch tool.Type {
	case models.ToolChat:
		return "Hello! I'm your AI Assistant. How can I help you today? Feel free to ask me anything or request a task."
	case models.ToolTranslate:
		return "Hi! I can translate English text to Hindi for you. Please enter the English text."
	default:
		return fmt.Sprintf("Hi! I'm ready to help you with %s. What would you like me to do?", strings.ToLower(tool.Title))
	}
}

// SelectTool opens tool, replacing any previous conversation with a greeting.
func (s *Session) SelectTool(tool models.Tool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.endLifetimeLocked()
	s.ctx, s.cancel = context.WithCancel(context.Background())

	t := tool
	s.tool = &t
	s.messages = []models.Message{{ID: s.newID(), Role: models.RoleBot, Content: Greeting(tool)}}
	s.logger.Info("tool selected", zap.String("tool", tool.ID), zap.Uint64("generation", s.generation))
}

// Close returns the session to idle and cancels any in-flight request.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tool != nil {
		s.logger.Info("session closed", zap.String("tool", s.tool.ID))
	}
	s.endLifetimeLocked()
	s.tool = nil
	s.messages = nil
}

func (s *Session) endLifetimeLocked() {
	if s.cancel != nil {
		s.cancel()
	}
	s.ctx, s.cancel = nil, nil
	s.pending = false
	s.generation++
}

// Pending is one accepted request waiting to be resolved.
type Pending struct {
	Tool     models.Tool
	Input    string
	Settings models.Settings

	ctx        context.Context
	generation uint64
	resolver   Resolver
}

// Result is the outcome of Pending.Run, handed back to Session.Complete.
type Result struct {
	Tool       models.Tool
	Content    string
	Err        error
	generation uint64
}

// Run resolves the request. It blocks; callers run it off the UI loop.
func (p *Pending) Run() Result {
	return p.resolve(p.ctx)
}

// RunContext is Run, additionally cancelled when ctx is done.
func (p *Pending) RunContext(ctx context.Context) Result {
	runCtx, cancel := context.WithCancel(p.ctx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()
	return p.resolve(runCtx)
}

func (p *Pending) resolve(ctx context.Context) Result {
	content, err := p.resolver.Resolve(ctx, p.Tool.Type, p.Input, p.Settings)
	return Result{Tool: p.Tool, Content: content, Err: err, generation: p.generation}
}

// Send records the user message and marks the session pending. The returned
// Pending must be Run and its Result passed to Complete.
func (s *Session) Send(text string, settings models.Settings) (*Pending, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tool == nil {
		return nil, ErrNoActiveTool
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrBlankInput
	}
	if s.pending {
		return nil, ErrPending
	}

	s.messages = append(s.messages, models.Message{ID: s.newID(), Role: models.RoleUser, Content: text})
	s.pending = true
	s.logger.Debug("message sent", zap.String("tool", s.tool.ID), zap.Int("chars", len(text)))

	return &Pending{
		Tool:       *s.tool,
		Input:      text,
		Settings:   settings,
		ctx:        s.ctx,
		generation: s.generation,
		resolver:   s.resolver,
	}, nil
}

// Complete applies a result. Results from an earlier lifetime return
// ErrStale and change nothing. A resolver failure clears the pending flag
// without adding a message and is returned wrapped in ErrResolve.
func (s *Session) Complete(r Result) (models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.generation != s.generation || s.tool == nil || !s.pending {
		s.logger.Debug("discarding stale result", zap.String("tool", r.Tool.ID))
		return models.Message{}, ErrStale
	}

	s.pending = false
	if r.Err != nil {
		s.logger.Warn("resolve failed", zap.String("tool", r.Tool.ID), zap.Error(r.Err))
		return models.Message{}, fmt.Errorf("%w: %w", ErrResolve, r.Err)
	}

	msg := models.Message{ID: s.newID(), Role: models.RoleBot, Content: r.Content}
	s.messages = append(s.messages, msg)
	return msg, nil
}

// Submit is Send, RunContext and Complete in one blocking call. Cancelling
// ctx abandons the request and returns the session to ready.
func (s *Session) Submit(ctx context.Context, text string, settings models.Settings) (models.Message, error) {
	p, err := s.Send(text, settings)
	if err != nil {
		return models.Message{}, err
	}
	return s.Complete(p.RunContext(ctx))
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Session) stateLocked() State {
	switch {
	case s.tool == nil:
		return StateIdle
	case s.pending:
		return StatePending
	default:
		return StateReady
	}
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{State: s.stateLocked(), Pending: s.pending, Messages: []models.Message{}}
	if s.tool != nil {
		t := *s.tool
		snap.Tool = &t
	}
	snap.Messages = append(snap.Messages, s.messages...)
	return snap
}
