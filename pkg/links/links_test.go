package links

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voonqa/focustime/internal/store"
)

func TestRelatedFindsTitleMentions(t *testing.T) {
	notes := []*store.Note{
		{ID: "a", Title: "Quarterly Review", Content: ""},
		{ID: "b", Title: "Roadmap", Content: "discuss during the quarterly review"},
		{ID: "c", Title: "Groceries", Content: "oat milk"},
	}

	idx, err := Build(notes)
	require.NoError(t, err)

	assert.Equal(t, []string{"a"}, idx.Related(notes[1]))
	assert.Empty(t, idx.Related(notes[2]))
}

func TestRelatedCaseAndSpacingInsensitive(t *testing.T) {
	notes := []*store.Note{
		{ID: "a", Title: "Deep  Work", Content: ""},
		{ID: "b", Title: "Log", Content: "Read about DEEP WORK today"},
	}

	idx, err := Build(notes)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, idx.Related(notes[1]))
}

func TestRelatedExcludesSelf(t *testing.T) {
	notes := []*store.Note{
		{ID: "a", Title: "Focus", Content: "focus on focus itself"},
	}

	idx, err := Build(notes)
	require.NoError(t, err)
	assert.Empty(t, idx.Related(notes[0]))
}

func TestRelatedWordBoundary(t *testing.T) {
	notes := []*store.Note{
		{ID: "a", Title: "art", Content: ""},
		{ID: "b", Title: "Journal", Content: "let's start early"},
		{ID: "c", Title: "Sketchbook", Content: "modern art is fun"},
	}

	idx, err := Build(notes)
	require.NoError(t, err)

	assert.Empty(t, idx.Related(notes[1]), "'art' inside 'start' must not match")
	assert.Equal(t, []string{"a"}, idx.Related(notes[2]))
}

func TestBuildSkipsNoisyTitles(t *testing.T) {
	notes := []*store.Note{
		{ID: "a", Title: "it"},      // too short
		{ID: "b", Title: "the"},     // stopword
		{ID: "c", Title: "   "},     // blank
		{ID: "d", Title: "Redwood"}, // fine
		{ID: "e", Title: "Log", Content: "it was the day I saw a redwood"},
	}

	idx, err := Build(notes)
	require.NoError(t, err)
	assert.Equal(t, []string{"d"}, idx.Related(notes[4]))
}

func TestBuildEmpty(t *testing.T) {
	idx, err := Build(nil)
	require.NoError(t, err)
	assert.Empty(t, idx.Related(&store.Note{ID: "x", Content: "anything"}))
}

func TestSharedTitleLinksAllHolders(t *testing.T) {
	notes := []*store.Note{
		{ID: "a", Title: "Budget"},
		{ID: "b", Title: "budget"},
		{ID: "c", Title: "Plans", Content: "revisit the budget next week"},
	}

	idx, err := Build(notes)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, idx.Related(notes[2]))
}
