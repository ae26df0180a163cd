// Package settings loads, updates and persists the dashboard preferences.
//
// Values are stored as a single JSON document under StorageKey. Loading never
// fails: a missing or unreadable document yields DefaultSettings.
package settings

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"smartdash/internal/db"
	"smartdash/internal/models"
	"strings"
	"time"

	"go.uber.org/zap"
)

const StorageKey = "smartUtilitySettings"

const (
	KeyLanguage = "language"
	KeyTone     = "tone"
)

var (
	ErrUnknownKey     = errors.New("unknown settings key")
	ErrNotInitialized = errors.New("settings database not initialized")
)

// Option is one selectable value in the settings panel.
type Option struct {
	Value string
	Label string
}

var Languages = []Option{
	{"en", "English"},
	{"es", "Spanish"},
	{"fr", "French"},
	{"de", "German"},
	{"it", "Italian"},
	{"pt", "Portuguese"},
	{"ru", "Russian"},
	{"ja", "Japanese"},
	{"ko", "Korean"},
	{"zh", "Chinese"},
}

var Tones = []Option{
	{"professional", "Professional"},
	{"casual", "Casual"},
	{"friendly", "Friendly"},
	{"formal", "Formal"},
	{"creative", "Creative"},
	{"technical", "Technical"},
}

type Store struct {
	DB     *sql.DB
	Logger *zap.Logger
	Now    func() time.Time
}

func NewStore(conn *sql.DB, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{DB: conn, Logger: logger, Now: time.Now}
}

func (s *Store) Load(ctx context.Context) models.Settings {
	if s.DB == nil {
		s.Logger.Warn("settings database unavailable, using defaults")
		return models.DefaultSettings()
	}

	raw, found, err := db.GetValue(ctx, s.DB, StorageKey)
	if err != nil {
		s.Logger.Warn("reading settings failed, using defaults", zap.Error(err))
		return models.DefaultSettings()
	}
	if !found {
		return models.DefaultSettings()
	}

	out, err := Decode(raw)
	if err != nil {
		s.Logger.Warn("stored settings unparsable, using defaults", zap.Error(err))
		return models.DefaultSettings()
	}
	return out
}

func (s *Store) Persist(ctx context.Context, cur models.Settings) error {
	if s.DB == nil {
		return ErrNotInitialized
	}
	data, err := json.Marshal(cur)
	if err != nil {
		return err
	}
	if err := db.PutValue(ctx, s.DB, StorageKey, string(data), s.Now().Unix()); err != nil {
		s.Logger.Error("persisting settings failed", zap.Error(err))
		return fmt.Errorf("persist settings: %w", err)
	}
	return nil
}

// Reset removes the stored document, so the next Load returns DefaultSettings.
func (s *Store) Reset(ctx context.Context) (models.Settings, error) {
	if s.DB == nil {
		return models.DefaultSettings(), ErrNotInitialized
	}
	if err := db.DeleteValue(ctx, s.DB, StorageKey); err != nil {
		s.Logger.Error("resetting settings failed", zap.Error(err))
		return models.DefaultSettings(), fmt.Errorf("reset settings: %w", err)
	}
	s.Logger.Info("settings reset")
	return models.DefaultSettings(), nil
}

// Set applies Update and persists the result. The updated settings are
// returned even when persisting fails.
func (s *Store) Set(ctx context.Context, cur models.Settings, key, value string) (models.Settings, error) {
	next, err := Update(cur, key, value)
	if err != nil {
		return cur, err
	}
	s.Logger.Info("settings updated", zap.String("key", key), zap.String("value", value))
	return next, s.Persist(ctx, next)
}

// Update returns a copy of cur with key replaced by value. Any value is accepted.
func Update(cur models.Settings, key, value string) (models.Settings, error) {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case KeyLanguage:
		cur.Language = value
	case KeyTone:
		cur.Tone = value
	default:
		return cur, fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	return cur, nil
}

// Decode parses a stored document. Fields missing from it take their default.
func Decode(raw string) (models.Settings, error) {
	var partial struct {
		Language *string `json:"language"`
		Tone     *string `json:"tone"`
	}
	if err := json.Unmarshal([]byte(raw), &partial); err != nil {
		return models.Settings{}, err
	}
	out := models.DefaultSettings()
	if partial.Language != nil {
		out.Language = *partial.Language
	}
	if partial.Tone != nil {
		out.Tone = *partial.Tone
	}
	return out, nil
}

// Label returns the display label for value in opts, or value itself.
func Label(opts []Option, value string) string {
	for _, o := range opts {
		if o.Value == value {
			return o.Label
		}
	}
	return value
}

// Cycle returns the option after (step > 0) or before (step < 0) value,
// wrapping around. Unknown values start from the first option.
func Cycle(opts []Option, value string, step int) string {
	if len(opts) == 0 {
		return value
	}
	idx := -1
	for i, o := range opts {
		if o.Value == value {
			idx = i
			break
		}
	}
	if idx == -1 {
		return opts[0].Value
	}
	n := len(opts)
	return opts[((idx+step)%n+n)%n].Value
}
