package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voonqa/focustime/internal/store"
)

func newManager(t *testing.T) (*Manager, *store.Store) {
	t.Helper()
	st, err := store.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return NewManager(st), st
}

func TestLoadDefaultsWhenEmpty(t *testing.T) {
	m, _ := newManager(t)

	s, err := m.Load()
	require.NoError(t, err)
	assert.Equal(t, Defaults(), s)
	assert.Equal(t, 25, s.FocusMinutes)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	m, _ := newManager(t)

	s := Defaults()
	s.FocusMinutes = 50
	s.Theme = "light"
	s.SoundEnabled = false
	require.NoError(t, m.Save(s))

	got, err := m.Load()
	require.NoError(t, err)
	assert.Equal(t, s, got)
}

func TestSaveOverwritesWholesale(t *testing.T) {
	m, st := newManager(t)

	s := Defaults()
	s.FocusMinutes = 90
	require.NoError(t, m.Save(s))
	require.NoError(t, m.Save(Defaults()))

	got, err := m.Load()
	require.NoError(t, err)
	assert.Equal(t, Defaults(), got)

	// Exactly one row under one key.
	raw, err := st.GetSetting("user_settings")
	require.NoError(t, err)
	assert.NotEmpty(t, raw)
}

func TestLoadPartialBlobKeepsDefaults(t *testing.T) {
	m, st := newManager(t)

	require.NoError(t, st.PutSetting("user_settings", `{"theme":"light"}`))

	got, err := m.Load()
	require.NoError(t, err)
	assert.Equal(t, "light", got.Theme)
	assert.Equal(t, Defaults().FocusMinutes, got.FocusMinutes)
}

func TestLoadCorruptBlobFallsBackToDefaults(t *testing.T) {
	m, st := newManager(t)

	require.NoError(t, st.PutSetting("user_settings", "{not json"))

	got, err := m.Load()
	assert.Error(t, err)
	assert.Equal(t, Defaults(), got)
}
