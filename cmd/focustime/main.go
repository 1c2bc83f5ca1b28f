package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/voonqa/focustime/internal/config"
	"github.com/voonqa/focustime/internal/server"
	"github.com/voonqa/focustime/internal/store"
	"github.com/voonqa/focustime/pkg/chat"
	"github.com/voonqa/focustime/pkg/notes"
	"github.com/voonqa/focustime/pkg/settings"
	"github.com/voonqa/focustime/pkg/video"
)

var dbPath string

func main() {
	cfg := config.Load()
	dbPath = cfg.DBPath

	rootCmd := &cobra.Command{
		Use:   "focustime",
		Short: "FocusTime notes, chat and video backend",
	}

	rootCmd.PersistentFlags().StringVar(&dbPath, "db", dbPath, "database path")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(notesCmd())
	rootCmd.AddCommand(foldersCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func openStore() (*store.Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	return store.New(dbPath)
}

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if addr != "" {
				cfg.Addr = addr
			}
			log := config.NewLogger(cfg.LogLevel)

			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			hub := notes.NewHub(log)
			if err := hub.Init(st); err != nil {
				return err
			}
			defer hub.Close()

			var model chat.Model
			if cfg.GeminiAPIKey != "" {
				g, err := chat.NewGemini(context.Background(), cfg.GeminiAPIKey)
				if err != nil {
					log.Warn().Err(err).Msg("chat backend unavailable, using canned replies")
				} else {
					model = g
				}
			} else {
				log.Info().Msg("GEMINI_API_KEY unset, chat uses canned replies")
			}

			catalog := video.NewCatalog(video.NewClient(cfg.VideoAPIURL, cfg.VideoAPIKey), log)

			ws := server.NewWSHub(log)
			go ws.Run()

			srv := server.New(hub, chat.NewService(st, model, log), catalog,
				settings.NewManager(st), st, ws, log)

			log.Info().Str("addr", cfg.Addr).Str("db", dbPath).Msg("listening")
			return http.ListenAndServe(cfg.Addr, srv.Routes())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides FOCUSTIME_ADDR)")
	return cmd
}

func notesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notes",
		Short: "Work with notes",
	}
	cmd.AddCommand(notesListCmd())
	cmd.AddCommand(notesAddCmd())
	cmd.AddCommand(notesSearchCmd())
	return cmd
}

func notesListCmd() *cobra.Command {
	var folder string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List notes, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			var list []*store.Note
			if cmd.Flags().Changed("folder") {
				list, err = st.ListNotesByFolder(folder)
			} else {
				list, err = st.ListNotes()
			}
			if err != nil {
				return err
			}
			printNotes(list)
			return nil
		},
	}

	cmd.Flags().StringVar(&folder, "folder", "", "folder id (empty selects unfiled notes)")
	return cmd
}

func notesAddCmd() *cobra.Command {
	var title, folder string

	cmd := &cobra.Command{
		Use:   "add [content]",
		Short: "Add a note",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			content := strings.Join(args, " ")
			if title == "" {
				title = truncate(content, 60)
			}
			id, err := st.CreateNote(store.NoteDraft{
				Title:    title,
				Content:  content,
				FolderID: folder,
			})
			if err != nil {
				return err
			}
			fmt.Printf("Added note %s\n", id[:8])
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "note title (defaults to truncated content)")
	cmd.Flags().StringVar(&folder, "folder", "", "folder id")
	return cmd
}

func notesSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search [query]",
		Short: "Search note titles and contents",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			list, err := st.SearchNotes(strings.Join(args, " "))
			if err != nil {
				return err
			}
			printNotes(list)
			return nil
		},
	}
}

func foldersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "folders",
		Short: "Work with folders",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List folders by name",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			folders, err := st.ListFolders()
			if err != nil {
				return err
			}
			if len(folders) == 0 {
				fmt.Println("No folders.")
				return nil
			}
			for _, f := range folders {
				fmt.Printf("%s  %s\n", f.ID[:8], f.Name)
			}
			return nil
		},
	})
	return cmd
}

func printNotes(list []*store.Note) {
	if len(list) == 0 {
		fmt.Println("No notes.")
		return
	}
	for _, n := range list {
		fmt.Printf("%s  %-30s  %s\n", n.ID[:8], truncate(n.Title, 30), n.UpdatedAt)
	}
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
