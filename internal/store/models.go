// Package store provides SQLite-backed persistence for FocusTime.
package store

// Note is a single user note. FolderID is empty for unfiled notes;
// Color is a display-only hex tag and may be empty.
type Note struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	FolderID  string `json:"folderId,omitempty"`
	Color     string `json:"color,omitempty"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// Folder groups notes. Deleting a folder unfiles its notes, it never
// deletes them.
type Folder struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Color     string `json:"color,omitempty"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// NoteDraft is the caller-supplied part of a new note. ID and the
// timestamps are stamped by the store.
type NoteDraft struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	FolderID string `json:"folderId,omitempty"`
	Color    string `json:"color,omitempty"`
}

// NoteUpdate is a partial update. Nil fields are left untouched.
// Pointing FolderID or Color at the empty string clears the column.
type NoteUpdate struct {
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	FolderID *string `json:"folderId"`
	Color    *string `json:"color"`
}

// FolderDraft is the caller-supplied part of a new folder.
type FolderDraft struct {
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// FolderUpdate is a partial folder update with NoteUpdate semantics.
type FolderUpdate struct {
	Name  *string `json:"name"`
	Color *string `json:"color"`
}

// SavedVideo is a video the user bookmarked from the catalog.
type SavedVideo struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Thumbnail    string `json:"thumbnail,omitempty"`
	ChannelTitle string `json:"channelTitle,omitempty"`
	SavedAt      string `json:"savedAt"`
}

// ChatMessage is one turn of the assistant conversation.
type ChatMessage struct {
	ID        string `json:"id"`
	Role      string `json:"role"` // "user" or "assistant"
	Content   string `json:"content"`
	CreatedAt string `json:"createdAt"`
}

// Storer defines the interface for data persistence.
// Store is the sole implementation, backed by SQLite.
type Storer interface {
	// Notes
	ListNotes() ([]*Note, error)
	GetNote(id string) (*Note, error)
	CreateNote(draft NoteDraft) (string, error)
	UpdateNote(id string, upd NoteUpdate) error
	DeleteNote(id string) error
	SearchNotes(query string) ([]*Note, error)
	ListNotesByFolder(folderID string) ([]*Note, error)

	// Folders
	ListFolders() ([]*Folder, error)
	GetFolder(id string) (*Folder, error)
	CreateFolder(draft FolderDraft) (string, error)
	UpdateFolder(id string, upd FolderUpdate) error
	DeleteFolder(id string) error

	// Saved videos
	ListSavedVideos() ([]*SavedVideo, error)
	SaveVideo(v *SavedVideo) error
	RemoveSavedVideo(id string) error

	// Chat history
	ListChatMessages() ([]*ChatMessage, error)
	AddChatMessage(m *ChatMessage) error
	ClearChatMessages() error

	// Settings blob
	GetSetting(key string) (string, error)
	PutSetting(key, value string) error

	// Lifecycle
	Close() error
}
