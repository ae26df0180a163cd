package settings

import (
	"context"
	"path/filepath"
	"smartdash/internal/db"
	"smartdash/internal/models"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	conn, err := db.Open(filepath.Join(t.TempDir(), "settings.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return NewStore(conn, nil)
}

func TestLoadDefaultsWhenAbsent(t *testing.T) {
	s := newTestStore(t)
	assert.Equal(t, models.DefaultSettings(), s.Load(context.Background()))
}

func TestLoadDefaultsWhenUnparsable(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, db.PutValue(context.Background(), s.DB, StorageKey, "{not json", 1))

	assert.Equal(t, models.DefaultSettings(), s.Load(context.Background()))
}

func TestLoadWithoutDatabase(t *testing.T) {
	s := NewStore(nil, nil)
	assert.Equal(t, models.DefaultSettings(), s.Load(context.Background()))
	assert.ErrorIs(t, s.Persist(context.Background(), models.DefaultSettings()), ErrNotInitialized)
}

func TestLoadFillsMissingFields(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, db.PutValue(context.Background(), s.DB, StorageKey, `{"language":"fr"}`, 1))

	got := s.Load(context.Background())
	assert.Equal(t, "fr", got.Language)
	assert.Equal(t, models.DefaultTone, got.Tone)
}

func TestPersistLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	original := s.Load(ctx)
	require.NoError(t, s.Persist(ctx, original))
	assert.Equal(t, original, s.Load(ctx))

	custom := models.Settings{Language: "ja", Tone: "casual"}
	require.NoError(t, s.Persist(ctx, custom))
	assert.Equal(t, custom, s.Load(ctx))
}

func TestUpdate(t *testing.T) {
	cur := models.DefaultSettings()

	next, err := Update(cur, KeyTone, "friendly")
	require.NoError(t, err)
	assert.Equal(t, "friendly", next.Tone)
	assert.Equal(t, models.DefaultTone, cur.Tone, "input must not be modified")

	next, err = Update(next, "Language", "xx-invalid")
	require.NoError(t, err)
	assert.Equal(t, "xx-invalid", next.Language)

	_, err = Update(cur, "theme", "dark")
	assert.ErrorIs(t, err, ErrUnknownKey)
}

func TestSetPersists(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	next, err := s.Set(ctx, s.Load(ctx), KeyLanguage, "de")
	require.NoError(t, err)
	assert.Equal(t, "de", next.Language)
	assert.Equal(t, next, s.Load(ctx))
}

func TestResetRestoresDefaults(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.Set(ctx, s.Load(ctx), KeyTone, "casual")
	require.NoError(t, err)

	got, err := s.Reset(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultSettings(), got)
	assert.Equal(t, models.DefaultSettings(), s.Load(ctx))

	_, found, err := db.GetValue(ctx, s.DB, StorageKey)
	require.NoError(t, err)
	assert.False(t, found, "the stored document is removed")

	_, err = NewStore(nil, nil).Reset(ctx)
	assert.ErrorIs(t, err, ErrNotInitialized)
}

func TestLoadHonoursContext(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Persist(context.Background(), models.Settings{Language: "ko", Tone: "formal"}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Equal(t, models.DefaultSettings(), s.Load(ctx), "a cancelled read falls back to defaults")
	assert.Error(t, s.Persist(ctx, models.DefaultSettings()))
}

func TestCycle(t *testing.T) {
	assert.Equal(t, "casual", Cycle(Tones, "professional", 1))
	assert.Equal(t, "technical", Cycle(Tones, "professional", -1))
	assert.Equal(t, "professional", Cycle(Tones, "technical", 1))
	assert.Equal(t, "en", Cycle(Languages, "not-a-language", 1))
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Japanese", Label(Languages, "ja"))
	assert.Equal(t, "xx", Label(Languages, "xx"))
}
