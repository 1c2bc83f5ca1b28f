package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voonqa/focustime/internal/store"
	"github.com/voonqa/focustime/pkg/chat"
	"github.com/voonqa/focustime/pkg/notes"
	"github.com/voonqa/focustime/pkg/settings"
	"github.com/voonqa/focustime/pkg/video"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	st, err := store.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	log := zerolog.Nop()
	hub := notes.NewHub(log)
	require.NoError(t, hub.Init(st))

	ws := NewWSHub(log)
	go ws.Run()

	srv := New(
		hub,
		chat.NewService(st, nil, log),
		video.NewCatalog(video.NewClient("http://127.0.0.1:1", ""), log),
		settings.NewManager(st),
		st,
		ws,
		log,
	)
	return srv.Routes()
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestNotesFlow(t *testing.T) {
	h := newTestServer(t)

	// Create a folder, then a note inside it.
	w := doJSON(t, h, "POST", "/api/folders", `{"name":"Work","color":"#5E60CE"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var folder struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &folder))

	w = doJSON(t, h, "POST", "/api/notes",
		`{"title":"Plan","content":"draft","folderId":"`+folder.ID+`"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var note store.Note
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &note))
	assert.Equal(t, "Plan", note.Title)
	assert.Equal(t, folder.ID, note.FolderID)
	assert.Equal(t, note.CreatedAt, note.UpdatedAt)

	// Listing with the folder filter finds it.
	w = doJSON(t, h, "GET", "/api/notes?folder="+folder.ID, "")
	require.Equal(t, http.StatusOK, w.Code)
	var listed []store.Note
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, note.ID, listed[0].ID)

	// Partial update touches only the title.
	w = doJSON(t, h, "PATCH", "/api/notes/"+note.ID, `{"title":"Plan v2"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var updated store.Note
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, "Plan v2", updated.Title)
	assert.Equal(t, "draft", updated.Content)

	// Deleting the folder unfiles the note.
	w = doJSON(t, h, "DELETE", "/api/folders/"+folder.ID, "")
	require.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, h, "GET", "/api/notes/"+note.ID, "")
	require.Equal(t, http.StatusOK, w.Code)
	var unfiled store.Note
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &unfiled))
	assert.Empty(t, unfiled.FolderID)

	// Text filter.
	w = doJSON(t, h, "GET", "/api/notes?q=DRAFT", "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	assert.Len(t, listed, 1)

	w = doJSON(t, h, "GET", "/api/notes?q=nothing-matches", "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	assert.Empty(t, listed)
}

func TestNoteValidationAndNotFound(t *testing.T) {
	h := newTestServer(t)

	w := doJSON(t, h, "POST", "/api/notes", `{"title":"  "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, h, "GET", "/api/notes/does-not-exist", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Deleting an unknown note is fine.
	w = doJSON(t, h, "DELETE", "/api/notes/does-not-exist", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestUnfiledFilter(t *testing.T) {
	h := newTestServer(t)

	w := doJSON(t, h, "POST", "/api/folders", `{"name":"Work"}`)
	var folder struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &folder))

	doJSON(t, h, "POST", "/api/notes", `{"title":"Filed","folderId":"`+folder.ID+`"}`)
	doJSON(t, h, "POST", "/api/notes", `{"title":"Loose"}`)

	// folder= present but empty selects unfiled notes only.
	w = doJSON(t, h, "GET", "/api/notes?folder=", "")
	var listed []store.Note
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, "Loose", listed[0].Title)

	// No folder param at all lists everything.
	w = doJSON(t, h, "GET", "/api/notes", "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	assert.Len(t, listed, 2)
}

func TestSettingsEndpoints(t *testing.T) {
	h := newTestServer(t)

	w := doJSON(t, h, "GET", "/api/settings", "")
	require.Equal(t, http.StatusOK, w.Code)
	var cfg settings.Settings
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cfg))
	assert.Equal(t, settings.Defaults(), cfg)

	cfg.FocusMinutes = 50
	body, _ := json.Marshal(cfg)
	w = doJSON(t, h, "PUT", "/api/settings", string(body))
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, h, "GET", "/api/settings", "")
	var got settings.Settings
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, 50, got.FocusMinutes)
}

func TestChatEndpointsFallBackWithoutBackend(t *testing.T) {
	h := newTestServer(t)

	w := doJSON(t, h, "POST", "/api/chat", `{"message":"hello"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Reply string `json:"reply"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, chat.FallbackReply, resp.Reply)

	w = doJSON(t, h, "GET", "/api/chat", "")
	var history []store.ChatMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &history))
	assert.Len(t, history, 2)

	w = doJSON(t, h, "DELETE", "/api/chat", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestVideosOfflineFallback(t *testing.T) {
	h := newTestServer(t)

	// Catalog points at an unreachable address; first page falls back.
	w := doJSON(t, h, "GET", "/api/videos?category=focus", "")
	require.Equal(t, http.StatusOK, w.Code)
	var page video.Page
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.NotEmpty(t, page.Videos)
}

func TestSavedVideosEndpoints(t *testing.T) {
	h := newTestServer(t)

	w := doJSON(t, h, "POST", "/api/videos/saved",
		`{"id":"vid1","title":"Lofi Mix","channelTitle":"Beats"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, h, "GET", "/api/videos/saved", "")
	var saved []store.SavedVideo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &saved))
	require.Len(t, saved, 1)
	assert.Equal(t, "Lofi Mix", saved[0].Title)

	w = doJSON(t, h, "DELETE", "/api/videos/saved/vid1", "")
	require.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, h, "GET", "/api/videos/saved", "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &saved))
	assert.Empty(t, saved)
}

func TestRelatedNotes(t *testing.T) {
	h := newTestServer(t)

	w := doJSON(t, h, "POST", "/api/notes", `{"title":"Quarterly Review"}`)
	var target store.Note
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &target))

	w = doJSON(t, h, "POST", "/api/notes",
		`{"title":"Roadmap","content":"discuss at the quarterly review"}`)
	var source store.Note
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &source))

	w = doJSON(t, h, "GET", "/api/notes/"+source.ID+"/related", "")
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Related []string `json:"related"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{target.ID}, resp.Related)
}
