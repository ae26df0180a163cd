// Package resolver turns a user request into the bot's reply text.
//
// Each tool type maps to a Handler. Every handler except translate is a pure
// template over the input and settings; the delay before answering exists so
// the chat can show its pending state.
package resolver

import (
	"context"
	"smartdash/internal/models"
	"time"

	"go.uber.org/zap"
)

const DefaultDelay = time.Second

// Delay waits for d or until ctx is done.
type Delay func(ctx context.Context, d time.Duration) error

// Sleep is the production Delay.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// NoDelay returns immediately unless ctx is already done.
func NoDelay(ctx context.Context, _ time.Duration) error {
	return ctx.Err()
}

// Translator is the collaborator used by the translate tool.
type Translator interface {
	Translate(ctx context.Context, text string) string
}

// Handler produces the reply for one tool type.
type Handler interface {
	Respond(ctx context.Context, input string, s models.Settings) (string, error)
}

// HandlerFunc adapts a plain function to Handler.
type HandlerFunc func(ctx context.Context, input string, s models.Settings) (string, error)

func (f HandlerFunc) Respond(ctx context.Context, input string, s models.Settings) (string, error) {
	return f(ctx, input, s)
}

type Resolver struct {
	handlers map[models.ToolType]Handler
	delay    Delay
	wait     time.Duration
	logger   *zap.Logger
}

type Option func(*Resolver)

func WithDelay(d Delay, wait time.Duration) Option {
	return func(r *Resolver) {
		r.delay = d
		r.wait = wait
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithHandler registers or replaces the handler for a tool type.
func WithHandler(t models.ToolType, h Handler) Option {
	return func(r *Resolver) {
		r.handlers[t] = h
	}
}

func New(tr Translator, opts ...Option) *Resolver {
	r := &Resolver{
		handlers: make(map[models.ToolType]Handler),
		delay:    Sleep,
		wait:     DefaultDelay,
		logger:   zap.NewNop(),
	}
	r.handlers[models.ToolSummarize] = r.delayed(templateHandler(summarize))
	r.handlers[models.ToolEmail] = r.delayed(templateHandler(email))
	r.handlers[models.ToolChat] = r.delayed(templateHandler(chat))
	r.handlers[models.ToolTranslate] = translateHandler{tr: tr}

	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve dispatches to the handler for toolType. Unknown types get a
// generic acknowledgment. The only error is ctx ending during the delay.
func (r *Resolver) Resolve(ctx context.Context, toolType models.ToolType, input string, s models.Settings) (string, error) {
	h, ok := r.handlers[toolType]
	if !ok {
		h = r.delayed(templateHandler(func(input string, s models.Settings) string {
			return fallback(toolType, input, s)
		}))
	}

	start := time.Now()
	out, err := h.Respond(ctx, input, s)
	if err != nil {
		r.logger.Warn("resolve interrupted", zap.String("tool", string(toolType)), zap.Error(err))
		return "", err
	}
	r.logger.Debug("resolved",
		zap.String("tool", string(toolType)),
		zap.Int("input_chars", len(input)),
		zap.Duration("elapsed", time.Since(start)))
	return out, nil
}

// delayed waits before running h. The delay reads r at call time so options
// applied after New still take effect.
func (r *Resolver) delayed(h Handler) Handler {
	return HandlerFunc(func(ctx context.Context, input string, s models.Settings) (string, error) {
		if err := r.delay(ctx, r.wait); err != nil {
			return "", err
		}
		return h.Respond(ctx, input, s)
	})
}

func templateHandler(fn func(input string, s models.Settings) string) Handler {
	return HandlerFunc(func(_ context.Context, input string, s models.Settings) (string, error) {
		return fn(input, s), nil
	})
}

type translateHandler struct {
	tr Translator
}

func (h translateHandler) Respond(ctx context.Context, input string, s models.Settings) (string, error) {
	if isBlank(input) {
		return translatePrompt, nil
	}
	translated := h.tr.Translate(ctx, input)
	return translation(input, translated, s), nil
}
