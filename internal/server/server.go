// Package server exposes the app core over a local REST API plus a
// websocket change feed for live UI refresh.
package server

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/voonqa/focustime/internal/store"
	"github.com/voonqa/focustime/pkg/chat"
	"github.com/voonqa/focustime/pkg/notes"
	"github.com/voonqa/focustime/pkg/settings"
	"github.com/voonqa/focustime/pkg/video"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Server wires the feature services behind HTTP handlers.
type Server struct {
	hub      *notes.Hub
	chat     *chat.Service
	catalog  *video.Catalog
	settings *settings.Manager
	store    store.Storer
	ws       *WSHub
	log      zerolog.Logger
}

// New creates a server and subscribes the websocket hub to note
// changes. Call Run on ws separately.
func New(hub *notes.Hub, chatSvc *chat.Service, catalog *video.Catalog,
	settingsMgr *settings.Manager, st store.Storer, ws *WSHub, log zerolog.Logger) *Server {

	s := &Server{
		hub:      hub,
		chat:     chatSvc,
		catalog:  catalog,
		settings: settingsMgr,
		store:    st,
		ws:       ws,
		log:      log,
	}
	hub.OnChange(func() { ws.Broadcast(EventNotesChanged) })
	return s
}

// Routes builds the full handler tree.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/notes", s.handleListNotes)
	mux.HandleFunc("POST /api/notes", s.handleCreateNote)
	mux.HandleFunc("GET /api/notes/{id}", s.handleGetNote)
	mux.HandleFunc("PATCH /api/notes/{id}", s.handleUpdateNote)
	mux.HandleFunc("DELETE /api/notes/{id}", s.handleDeleteNote)
	mux.HandleFunc("GET /api/notes/{id}/related", s.handleRelatedNotes)

	mux.HandleFunc("GET /api/folders", s.handleListFolders)
	mux.HandleFunc("POST /api/folders", s.handleCreateFolder)
	mux.HandleFunc("PATCH /api/folders/{id}", s.handleUpdateFolder)
	mux.HandleFunc("DELETE /api/folders/{id}", s.handleDeleteFolder)

	mux.HandleFunc("GET /api/settings", s.handleGetSettings)
	mux.HandleFunc("PUT /api/settings", s.handlePutSettings)

	mux.HandleFunc("GET /api/chat", s.handleChatHistory)
	mux.HandleFunc("POST /api/chat", s.handleChatSend)
	mux.HandleFunc("DELETE /api/chat", s.handleChatClear)

	mux.HandleFunc("GET /api/videos", s.handleVideos)
	mux.HandleFunc("GET /api/videos/saved", s.handleListSavedVideos)
	mux.HandleFunc("POST /api/videos/saved", s.handleSaveVideo)
	mux.HandleFunc("DELETE /api/videos/saved/{id}", s.handleRemoveSavedVideo)

	mux.HandleFunc("/ws", s.handleWebSocket)

	return cors(mux)
}

// cors allows the bundled UI (served from another origin in dev) to
// talk to the API.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug().Err(err).Msg("websocket upgrade failed")
		return
	}
	s.ws.Register(conn)
	go s.ws.HandleConnection(conn)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
