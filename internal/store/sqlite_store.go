// Package store provides SQLite-backed persistence for FocusTime.
// Uses ncruces/go-sqlite3/driver which provides a database/sql interface.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// ErrInvalid marks rejected input (blank or oversized display strings).
var ErrInvalid = errors.New("store: invalid input")

// Display string caps. Longer input is rejected, not truncated.
const (
	MaxTitleLen      = 200
	MaxFolderNameLen = 100
)

// timeLayout is a fixed-width UTC layout so that lexicographic order of
// stored timestamps matches chronological order.
const timeLayout = "2006-01-02T15:04:05.000Z"

// Store is the SQLite-backed data store.
type Store struct {
	mu sync.RWMutex
	db *sql.DB
}

// schema defines all tables for the app data layer.
const schema = `
-- Notes
CREATE TABLE IF NOT EXISTS notes (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    content TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL,
    folder_id TEXT,
    color TEXT
);

CREATE INDEX IF NOT EXISTS idx_notes_folder ON notes(folder_id);
CREATE INDEX IF NOT EXISTS idx_notes_updated ON notes(updated_at);

-- Folders
-- Note: no foreign keys - deleting a folder unfiles its notes at the
-- application level, inside one transaction.
CREATE TABLE IF NOT EXISTS note_folders (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL,
    color TEXT
);

CREATE INDEX IF NOT EXISTS idx_folders_name ON note_folders(name);

-- Bookmarked catalog videos
CREATE TABLE IF NOT EXISTS saved_videos (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    thumbnail TEXT,
    channel_title TEXT,
    saved_at TEXT NOT NULL
);

-- Assistant conversation history
CREATE TABLE IF NOT EXISTS chat_messages (
    id TEXT PRIMARY KEY,
    role TEXT NOT NULL,
    content TEXT NOT NULL,
    created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_chat_created ON chat_messages(created_at);

-- Single-blob settings storage
CREATE TABLE IF NOT EXISTS app_settings (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

// New creates a store backed by the database at dsn.
// Use ":memory:" for an in-memory store.
func New(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection: keeps ":memory:" stores coherent across statements.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// =============================================================================
// Note CRUD
// =============================================================================

// CreateNote inserts a new note and returns its generated id.
// Both timestamps are stamped to the current time.
func (s *Store) CreateNote(draft NoteDraft) (string, error) {
	if err := validateTitle(draft.Title); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.New().String()
	now := nowStamp()

	_, err := s.db.Exec(`
		INSERT INTO notes (id, title, content, created_at, updated_at, folder_id, color)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, id, draft.Title, draft.Content, now, now, nullable(draft.FolderID), nullable(draft.Color))
	if err != nil {
		return "", fmt.Errorf("insert note: %w", err)
	}

	return id, nil
}

// GetNote retrieves a note by ID. Returns (nil, nil) when absent.
func (s *Store) GetNote(id string) (*Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`
		SELECT id, title, content, created_at, updated_at, folder_id, color
		FROM notes WHERE id = ?
	`, id)

	note, err := scanNote(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return note, nil
}

// UpdateNote applies a partial update. Nil fields are left untouched;
// updated_at is always refreshed.
func (s *Store) UpdateNote(id string, upd NoteUpdate) error {
	if upd.Title != nil {
		if err := validateTitle(*upd.Title); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sets := []string{"updated_at = ?"}
	args := []any{nowStamp()}

	if upd.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *upd.Title)
	}
	if upd.Content != nil {
		sets = append(sets, "content = ?")
		args = append(args, *upd.Content)
	}
	if upd.FolderID != nil {
		sets = append(sets, "folder_id = ?")
		args = append(args, nullable(*upd.FolderID))
	}
	if upd.Color != nil {
		sets = append(sets, "color = ?")
		args = append(args, nullable(*upd.Color))
	}

	args = append(args, id)
	_, err := s.db.Exec("UPDATE notes SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return fmt.Errorf("update note: %w", err)
	}
	return nil
}

// DeleteNote removes a note by ID. Deleting an absent id is not an error.
func (s *Store) DeleteNote(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec("DELETE FROM notes WHERE id = ?", id)
	return err
}

// ListNotes returns all notes ordered by updated_at descending.
func (s *Store) ListNotes() ([]*Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryNotes(`
		SELECT id, title, content, created_at, updated_at, folder_id, color
		FROM notes ORDER BY updated_at DESC, id
	`)
}

// SearchNotes returns notes whose title or content contains query,
// case-insensitively, ordered by updated_at descending. Case folding
// follows SQLite LIKE and covers ASCII only.
func (s *Store) SearchNotes(query string) ([]*Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pattern := "%" + escapeLike(query) + "%"
	return s.queryNotes(`
		SELECT id, title, content, created_at, updated_at, folder_id, color
		FROM notes
		WHERE title LIKE ? ESCAPE '\' OR content LIKE ? ESCAPE '\'
		ORDER BY updated_at DESC, id
	`, pattern, pattern)
}

// ListNotesByFolder returns notes filed under folderID, ordered by
// updated_at descending. An empty folderID selects unfiled notes.
func (s *Store) ListNotesByFolder(folderID string) ([]*Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if folderID == "" {
		return s.queryNotes(`
			SELECT id, title, content, created_at, updated_at, folder_id, color
			FROM notes WHERE folder_id IS NULL
			ORDER BY updated_at DESC, id
		`)
	}
	return s.queryNotes(`
		SELECT id, title, content, created_at, updated_at, folder_id, color
		FROM notes WHERE folder_id = ?
		ORDER BY updated_at DESC, id
	`, folderID)
}

func (s *Store) queryNotes(query string, args ...any) ([]*Note, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []*Note
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}
	return notes, rows.Err()
}

// =============================================================================
// Folder CRUD
// =============================================================================

// CreateFolder inserts a new folder and returns its generated id.
func (s *Store) CreateFolder(draft FolderDraft) (string, error) {
	if err := validateFolderName(draft.Name); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.New().String()
	now := nowStamp()

	_, err := s.db.Exec(`
		INSERT INTO note_folders (id, name, created_at, updated_at, color)
		VALUES (?, ?, ?, ?, ?)
	`, id, draft.Name, now, now, nullable(draft.Color))
	if err != nil {
		return "", fmt.Errorf("insert folder: %w", err)
	}

	return id, nil
}

// GetFolder retrieves a folder by ID. Returns (nil, nil) when absent.
func (s *Store) GetFolder(id string) (*Folder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var f Folder
	var color sql.NullString

	err := s.db.QueryRow(`
		SELECT id, name, created_at, updated_at, color
		FROM note_folders WHERE id = ?
	`, id).Scan(&f.ID, &f.Name, &f.CreatedAt, &f.UpdatedAt, &color)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	f.Color = color.String
	return &f, nil
}

// UpdateFolder applies a partial update with the same contract as UpdateNote.
func (s *Store) UpdateFolder(id string, upd FolderUpdate) error {
	if upd.Name != nil {
		if err := validateFolderName(*upd.Name); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sets := []string{"updated_at = ?"}
	args := []any{nowStamp()}

	if upd.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *upd.Name)
	}
	if upd.Color != nil {
		sets = append(sets, "color = ?")
		args = append(args, nullable(*upd.Color))
	}

	args = append(args, id)
	_, err := s.db.Exec("UPDATE note_folders SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return fmt.Errorf("update folder: %w", err)
	}
	return nil
}

// DeleteFolder unfiles all dependent notes, then removes the folder row.
// Both steps run in one transaction so a partial delete cannot strand
// notes pointing at a missing folder.
func (s *Store) DeleteFolder(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin delete folder: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
		UPDATE notes SET folder_id = NULL, updated_at = ? WHERE folder_id = ?
	`, nowStamp(), id); err != nil {
		return fmt.Errorf("unfile notes: %w", err)
	}

	if _, err := tx.Exec("DELETE FROM note_folders WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete folder: %w", err)
	}

	return tx.Commit()
}

// ListFolders returns all folders ordered by name ascending.
func (s *Store) ListFolders() ([]*Folder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, name, created_at, updated_at, color
		FROM note_folders ORDER BY name, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var folders []*Folder
	for rows.Next() {
		var f Folder
		var color sql.NullString
		if err := rows.Scan(&f.ID, &f.Name, &f.CreatedAt, &f.UpdatedAt, &color); err != nil {
			return nil, err
		}
		f.Color = color.String
		folders = append(folders, &f)
	}
	return folders, rows.Err()
}

// =============================================================================
// Saved videos
// =============================================================================

// SaveVideo bookmarks a video. Saving the same id again refreshes it.
func (s *Store) SaveVideo(v *SavedVideo) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v.SavedAt == "" {
		v.SavedAt = nowStamp()
	}

	_, err := s.db.Exec(`
		INSERT INTO saved_videos (id, title, thumbnail, channel_title, saved_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			thumbnail = excluded.thumbnail,
			channel_title = excluded.channel_title,
			saved_at = excluded.saved_at
	`, v.ID, v.Title, nullable(v.Thumbnail), nullable(v.ChannelTitle), v.SavedAt)
	return err
}

// RemoveSavedVideo deletes a bookmark by id.
func (s *Store) RemoveSavedVideo(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec("DELETE FROM saved_videos WHERE id = ?", id)
	return err
}

// ListSavedVideos returns bookmarks, most recently saved first.
func (s *Store) ListSavedVideos() ([]*SavedVideo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, title, thumbnail, channel_title, saved_at
		FROM saved_videos ORDER BY saved_at DESC, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var videos []*SavedVideo
	for rows.Next() {
		var v SavedVideo
		var thumb, channel sql.NullString
		if err := rows.Scan(&v.ID, &v.Title, &thumb, &channel, &v.SavedAt); err != nil {
			return nil, err
		}
		v.Thumbnail = thumb.String
		v.ChannelTitle = channel.String
		videos = append(videos, &v)
	}
	return videos, rows.Err()
}

// =============================================================================
// Chat history
// =============================================================================

// AddChatMessage appends a message to the conversation history.
func (s *Store) AddChatMessage(m *ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO chat_messages (id, role, content, created_at)
		VALUES (?, ?, ?, ?)
	`, m.ID, m.Role, m.Content, m.CreatedAt)
	return err
}

// ListChatMessages returns the conversation in chronological order.
func (s *Store) ListChatMessages() ([]*ChatMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, role, content, created_at
		FROM chat_messages ORDER BY created_at ASC, rowid ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []*ChatMessage
	for rows.Next() {
		var m ChatMessage
		if err := rows.Scan(&m.ID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, &m)
	}
	return messages, rows.Err()
}

// ClearChatMessages wipes the conversation history.
func (s *Store) ClearChatMessages() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec("DELETE FROM chat_messages")
	return err
}

// =============================================================================
// Settings
// =============================================================================

// GetSetting returns the value stored under key, or "" when absent.
func (s *Store) GetSetting(key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var value string
	err := s.db.QueryRow("SELECT value FROM app_settings WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

// PutSetting overwrites the value stored under key.
func (s *Store) PutSetting(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO app_settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}

// =============================================================================
// Helpers
// =============================================================================

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNote(row rowScanner) (*Note, error) {
	var note Note
	var folderID, color sql.NullString

	if err := row.Scan(
		&note.ID, &note.Title, &note.Content,
		&note.CreatedAt, &note.UpdatedAt, &folderID, &color,
	); err != nil {
		return nil, err
	}

	note.FolderID = folderID.String
	note.Color = color.String
	return &note, nil
}

// nowStamp returns the current UTC time in the sortable storage layout.
func nowStamp() string {
	return time.Now().UTC().Format(timeLayout)
}

// nullable maps "" to NULL so optional columns stay NULL when unset.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// escapeLike escapes LIKE metacharacters in user queries.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

func validateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("%w: note title required", ErrInvalid)
	}
	if len(title) > MaxTitleLen {
		return fmt.Errorf("%w: note title exceeds %d characters", ErrInvalid, MaxTitleLen)
	}
	return nil
}

func validateFolderName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: folder name required", ErrInvalid)
	}
	if len(name) > MaxFolderNameLen {
		return fmt.Errorf("%w: folder name exceeds %d characters", ErrInvalid, MaxFolderNameLen)
	}
	return nil
}

// Compile-time interface check
var _ Storer = (*Store)(nil)
