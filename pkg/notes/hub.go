// Package notes maintains the in-memory view of notes and folders.
// Every mutation writes through the store and then reloads both
// collections in full, so the cache is always a pure function of the
// store once an operation settles.
package notes

import (
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/voonqa/focustime/internal/store"
)

// ErrNotReady is returned when an operation is attempted before Init.
var ErrNotReady = errors.New("notes: store not initialized")

// Hub owns the cached note and folder collections.
// It is constructed once, wired to a store with Init, and torn down
// with Close. Mutations issued concurrently are not serialized against
// each other; the last reload to complete determines the cache state.
type Hub struct {
	mu        sync.RWMutex
	store     store.Storer
	notes     []*store.Note
	folders   []*store.Folder
	loading   bool
	lastErr   error
	listeners []func()

	log zerolog.Logger
}

// NewHub creates a hub with no store attached. All operations fail
// with ErrNotReady until Init is called.
func NewHub(log zerolog.Logger) *Hub {
	return &Hub{log: log}
}

// Init attaches the store and performs the initial load. Loading is
// observable only during this first load.
func (h *Hub) Init(st store.Storer) error {
	h.mu.Lock()
	h.store = st
	h.loading = true
	h.mu.Unlock()

	err := h.reload()

	h.mu.Lock()
	h.loading = false
	h.mu.Unlock()

	return err
}

// Close detaches the store and drops the cache. The store itself is
// owned by the caller and is not closed here.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.store = nil
	h.notes = nil
	h.folders = nil
	h.lastErr = nil
}

// OnChange registers a callback fired after every successful reload.
// Callbacks run on the mutating goroutine and must not block.
func (h *Hub) OnChange(fn func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.listeners = append(h.listeners, fn)
}

// Notes returns a snapshot of the cached notes.
func (h *Hub) Notes() []*store.Note {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]*store.Note, len(h.notes))
	copy(out, h.notes)
	return out
}

// Folders returns a snapshot of the cached folders.
func (h *Hub) Folders() []*store.Folder {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]*store.Folder, len(h.folders))
	copy(out, h.folders)
	return out
}

// Loading reports whether the initial load is still in flight.
func (h *Hub) Loading() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.loading
}

// Err returns the last recorded failure. It is cleared only by the
// next successful reload, not by merely attempting another operation.
func (h *Hub) Err() error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.lastErr
}

// GetNote is a single-item passthrough to the store.
func (h *Hub) GetNote(id string) (*store.Note, error) {
	st, err := h.ready()
	if err != nil {
		return nil, err
	}
	note, err := st.GetNote(id)
	if err != nil {
		h.fail(err)
		return nil, err
	}
	return note, nil
}

// Refresh reloads both collections from the store. Idempotent and
// safe to call repeatedly.
func (h *Hub) Refresh() error {
	if _, err := h.ready(); err != nil {
		return err
	}
	return h.reload()
}

// CreateNote writes a new note and reloads the cache.
func (h *Hub) CreateNote(draft store.NoteDraft) (string, error) {
	st, err := h.ready()
	if err != nil {
		return "", err
	}
	id, err := st.CreateNote(draft)
	if err != nil {
		h.fail(err)
		return "", err
	}
	if err := h.reload(); err != nil {
		return "", err
	}
	return id, nil
}

// UpdateNote applies a partial update and reloads the cache.
func (h *Hub) UpdateNote(id string, upd store.NoteUpdate) error {
	return h.mutate(func(st store.Storer) error { return st.UpdateNote(id, upd) })
}

// DeleteNote removes a note and reloads the cache.
func (h *Hub) DeleteNote(id string) error {
	return h.mutate(func(st store.Storer) error { return st.DeleteNote(id) })
}

// CreateFolder writes a new folder and reloads the cache.
func (h *Hub) CreateFolder(draft store.FolderDraft) (string, error) {
	st, err := h.ready()
	if err != nil {
		return "", err
	}
	id, err := st.CreateFolder(draft)
	if err != nil {
		h.fail(err)
		return "", err
	}
	if err := h.reload(); err != nil {
		return "", err
	}
	return id, nil
}

// UpdateFolder applies a partial update and reloads the cache.
func (h *Hub) UpdateFolder(id string, upd store.FolderUpdate) error {
	return h.mutate(func(st store.Storer) error { return st.UpdateFolder(id, upd) })
}

// DeleteFolder unfiles dependent notes, removes the folder, and
// reloads the cache.
func (h *Hub) DeleteFolder(id string) error {
	return h.mutate(func(st store.Storer) error { return st.DeleteFolder(id) })
}

// mutate runs op against the store and reloads on success. On any
// failure the previous cache stays in place, the error state is set,
// and the error is returned to the caller.
func (h *Hub) mutate(op func(store.Storer) error) error {
	st, err := h.ready()
	if err != nil {
		return err
	}
	if err := op(st); err != nil {
		h.fail(err)
		return err
	}
	return h.reload()
}

func (h *Hub) ready() (store.Storer, error) {
	h.mu.RLock()
	st := h.store
	h.mu.RUnlock()
	if st == nil {
		h.fail(ErrNotReady)
		return nil, ErrNotReady
	}
	return st, nil
}

// reload replaces the cache with the store's current contents. The
// reads run outside the hub lock so slow queries don't stall readers.
func (h *Hub) reload() error {
	h.mu.RLock()
	st := h.store
	h.mu.RUnlock()
	if st == nil {
		return ErrNotReady
	}

	notes, err := st.ListNotes()
	if err != nil {
		h.fail(err)
		return err
	}
	folders, err := st.ListFolders()
	if err != nil {
		h.fail(err)
		return err
	}

	h.mu.Lock()
	h.notes = notes
	h.folders = folders
	h.lastErr = nil
	listeners := make([]func(), len(h.listeners))
	copy(listeners, h.listeners)
	h.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
	return nil
}

func (h *Hub) fail(err error) {
	h.log.Warn().Err(err).Msg("notes operation failed")
	h.mu.Lock()
	h.lastErr = err
	h.mu.Unlock()
}
