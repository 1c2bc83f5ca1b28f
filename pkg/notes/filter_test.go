package notes

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/voonqa/focustime/internal/store"
)

func sampleNotes() []*store.Note {
	return []*store.Note{
		{ID: "a", Title: "Sprint plan", Content: "retro notes", FolderID: "work", UpdatedAt: "2026-03-01T09:00:00.000Z"},
		{ID: "b", Title: "Groceries", Content: "oat milk, bread", UpdatedAt: "2026-03-02T09:00:00.000Z"},
		{ID: "c", Title: "Standup", Content: "blockers", FolderID: "work", UpdatedAt: "2026-03-03T09:00:00.000Z"},
		{ID: "d", Title: "Ideas", Content: "build a Plan B", UpdatedAt: "2026-02-28T09:00:00.000Z"},
	}
}

func ids(notes []*store.Note) []string {
	out := make([]string, len(notes))
	for i, n := range notes {
		out[i] = n.ID
	}
	return out
}

func TestApplyNoFilter(t *testing.T) {
	got := Apply(sampleNotes(), Filter{})
	assert.Equal(t, []string{"c", "b", "a", "d"}, ids(got))
}

func TestApplyFolderFilter(t *testing.T) {
	got := Apply(sampleNotes(), Filter{Folder: InFolder("work")})
	assert.Equal(t, []string{"c", "a"}, ids(got))
}

func TestApplyUnfiledFilter(t *testing.T) {
	got := Apply(sampleNotes(), Filter{Folder: InFolder("")})
	assert.Equal(t, []string{"b", "d"}, ids(got))
}

func TestApplyTextFilter(t *testing.T) {
	// Case-insensitive, matches title or content.
	got := Apply(sampleNotes(), Filter{Query: "PLAN"})
	assert.Equal(t, []string{"a", "d"}, ids(got))

	got = Apply(sampleNotes(), Filter{Query: "oat milk"})
	assert.Equal(t, []string{"b"}, ids(got))

	got = Apply(sampleNotes(), Filter{Query: "no such thing"})
	assert.Empty(t, got)
}

func TestApplyFolderThenText(t *testing.T) {
	got := Apply(sampleNotes(), Filter{Folder: InFolder("work"), Query: "plan"})
	assert.Equal(t, []string{"a"}, ids(got))
}

func TestApplyBlankQueryIgnored(t *testing.T) {
	got := Apply(sampleNotes(), Filter{Query: "   "})
	assert.Len(t, got, 4)
}

func TestApplyIsPure(t *testing.T) {
	input := sampleNotes()
	f := Filter{Folder: InFolder("work"), Query: "s"}

	first := Apply(input, f)
	second := Apply(input, f)
	assert.Equal(t, first, second)

	// Input order untouched.
	assert.Equal(t, []string{"a", "b", "c", "d"}, ids(input))
}
