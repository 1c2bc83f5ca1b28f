package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/voonqa/focustime/internal/store"
	"github.com/voonqa/focustime/pkg/links"
	"github.com/voonqa/focustime/pkg/notes"
	"github.com/voonqa/focustime/pkg/settings"
)

// writeError maps core errors onto HTTP statuses.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, notes.ErrNotReady):
		status = http.StatusServiceUnavailable
	case errors.Is(err, store.ErrInvalid):
		status = http.StatusBadRequest
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// =============================================================================
// Notes
// =============================================================================

func (s *Server) handleListNotes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	f := notes.Filter{Query: q.Get("q")}
	if q.Has("folder") {
		f.Folder = notes.InFolder(q.Get("folder"))
	}

	result := notes.Apply(s.hub.Notes(), f)
	if result == nil {
		result = []*store.Note{}
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleCreateNote(w http.ResponseWriter, r *http.Request) {
	var draft store.NoteDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}

	id, err := s.hub.CreateNote(draft)
	if err != nil {
		s.writeError(w, err)
		return
	}

	note, err := s.hub.GetNote(id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, note)
}

func (s *Server) handleGetNote(w http.ResponseWriter, r *http.Request) {
	note, err := s.hub.GetNote(r.PathValue("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	if note == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "note not found"})
		return
	}
	writeJSON(w, http.StatusOK, note)
}

func (s *Server) handleUpdateNote(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var upd store.NoteUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}

	if err := s.hub.UpdateNote(id, upd); err != nil {
		s.writeError(w, err)
		return
	}

	note, err := s.hub.GetNote(id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

func (s *Server) handleDeleteNote(w http.ResponseWriter, r *http.Request) {
	if err := s.hub.DeleteNote(r.PathValue("id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRelatedNotes(w http.ResponseWriter, r *http.Request) {
	note, err := s.hub.GetNote(r.PathValue("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	if note == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "note not found"})
		return
	}

	idx, err := links.Build(s.hub.Notes())
	if err != nil {
		s.writeError(w, err)
		return
	}

	related := idx.Related(note)
	if related == nil {
		related = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"related": related})
}

// =============================================================================
// Folders
// =============================================================================

func (s *Server) handleListFolders(w http.ResponseWriter, r *http.Request) {
	folders := s.hub.Folders()
	if folders == nil {
		folders = []*store.Folder{}
	}
	writeJSON(w, http.StatusOK, folders)
}

func (s *Server) handleCreateFolder(w http.ResponseWriter, r *http.Request) {
	var draft store.FolderDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}

	id, err := s.hub.CreateFolder(draft)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) handleUpdateFolder(w http.ResponseWriter, r *http.Request) {
	var upd store.FolderUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}

	if err := s.hub.UpdateFolder(r.PathValue("id"), upd); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteFolder(w http.ResponseWriter, r *http.Request) {
	if err := s.hub.DeleteFolder(r.PathValue("id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Settings
// =============================================================================

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.settings.Load()
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

func (s *Server) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	var cfg settings.Settings
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}
	if err := s.settings.Save(cfg); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

// =============================================================================
// Chat
// =============================================================================

func (s *Server) handleChatHistory(w http.ResponseWriter, r *http.Request) {
	history, err := s.chat.History()
	if err != nil {
		s.writeError(w, err)
		return
	}
	if history == nil {
		history = []*store.ChatMessage{}
	}
	writeJSON(w, http.StatusOK, history)
}

func (s *Server) handleChatSend(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Message == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "message required"})
		return
	}

	reply, err := s.chat.Send(r.Context(), req.Message)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"reply": reply})
}

func (s *Server) handleChatClear(w http.ResponseWriter, r *http.Request) {
	if err := s.chat.Clear(); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Videos
// =============================================================================

func (s *Server) handleVideos(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	pageToken := q.Get("pageToken")

	if query := q.Get("q"); query != "" {
		writeJSON(w, http.StatusOK, s.catalog.Search(r.Context(), query, pageToken))
		return
	}

	category := q.Get("category")
	if category == "" {
		category = "focus"
	}
	writeJSON(w, http.StatusOK, s.catalog.ByCategory(r.Context(), category, pageToken))
}

func (s *Server) handleListSavedVideos(w http.ResponseWriter, r *http.Request) {
	videos, err := s.store.ListSavedVideos()
	if err != nil {
		s.writeError(w, err)
		return
	}
	if videos == nil {
		videos = []*store.SavedVideo{}
	}
	writeJSON(w, http.StatusOK, videos)
}

func (s *Server) handleSaveVideo(w http.ResponseWriter, r *http.Request) {
	var v store.SavedVideo
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil || v.ID == "" || v.Title == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "id and title required"})
		return
	}
	if err := s.store.SaveVideo(&v); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

func (s *Server) handleRemoveSavedVideo(w http.ResponseWriter, r *http.Request) {
	if err := s.store.RemoveSavedVideo(r.PathValue("id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
