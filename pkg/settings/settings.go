// Package settings stores user preferences as a single JSON blob
// under one key: read once at startup, overwritten wholesale on save.
package settings

import (
	"encoding/json"
	"fmt"

	"github.com/voonqa/focustime/internal/store"
)

const settingsKey = "user_settings"

// Settings holds the user-tunable preferences.
type Settings struct {
	FocusMinutes            int    `json:"focusMinutes"`
	ShortBreakMinutes       int    `json:"shortBreakMinutes"`
	LongBreakMinutes        int    `json:"longBreakMinutes"`
	SessionsBeforeLongBreak int    `json:"sessionsBeforeLongBreak"`
	Theme                   string `json:"theme"`
	SoundEnabled            bool   `json:"soundEnabled"`
	NotificationsEnabled    bool   `json:"notificationsEnabled"`
}

// Defaults returns the out-of-the-box settings.
func Defaults() Settings {
	return Settings{
		FocusMinutes:            25,
		ShortBreakMinutes:       5,
		LongBreakMinutes:        15,
		SessionsBeforeLongBreak: 4,
		Theme:                   "dark",
		SoundEnabled:            true,
		NotificationsEnabled:    true,
	}
}

// Manager reads and writes the settings blob.
type Manager struct {
	store store.Storer
}

// NewManager creates a settings manager over st.
func NewManager(st store.Storer) *Manager {
	return &Manager{store: st}
}

// Load returns the stored settings, or the defaults when nothing has
// been saved yet. Unknown fields in the blob are ignored; missing
// fields keep their default values.
func (m *Manager) Load() (Settings, error) {
	s := Defaults()

	raw, err := m.store.GetSetting(settingsKey)
	if err != nil {
		return s, fmt.Errorf("load settings: %w", err)
	}
	if raw == "" {
		return s, nil
	}

	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return Defaults(), fmt.Errorf("parse settings: %w", err)
	}
	return s, nil
}

// Save overwrites the stored settings wholesale.
func (m *Manager) Save(s Settings) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := m.store.PutSetting(settingsKey, string(raw)); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}
