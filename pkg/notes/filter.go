package notes

import (
	"sort"
	"strings"

	"github.com/voonqa/focustime/internal/store"
)

// Filter describes the transient, non-persisted display filters.
// Folder is nil when folder filtering is off; pointing it at the empty
// string selects unfiled notes only. Query is a case-insensitive
// substring matched against title or content.
type Filter struct {
	Folder *string
	Query  string
}

// InFolder builds a folder filter value. Pass "" for unfiled notes.
func InFolder(id string) *string {
	return &id
}

// Apply derives the displayed subset and order of notes. It is pure:
// the input slice is not modified and no store access happens here.
// Order of rules is fixed: folder filter, then text filter, then a
// stable sort by updatedAt descending.
func Apply(notes []*store.Note, f Filter) []*store.Note {
	q := strings.ToLower(strings.TrimSpace(f.Query))

	out := make([]*store.Note, 0, len(notes))
	for _, n := range notes {
		if f.Folder != nil && n.FolderID != *f.Folder {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(n.Title), q) &&
			!strings.Contains(strings.ToLower(n.Content), q) {
			continue
		}
		out = append(out, n)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UpdatedAt > out[j].UpdatedAt
	})
	return out
}
