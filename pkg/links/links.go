// Package links detects mentions of note titles inside other notes'
// content, producing backlink suggestions. A single Aho-Corasick
// automaton over all titles keeps scanning O(n) per note.
package links

import (
	"strings"
	"unicode"

	"github.com/coregx/ahocorasick"
	"github.com/orsinium-labs/stopwords"

	"github.com/voonqa/focustime/internal/store"
)

// Titles shorter than this are too noisy to link.
const minTitleLen = 3

// Index is an immutable snapshot of linkable note titles. Rebuild it
// whenever the note collection changes.
type Index struct {
	ac           *ahocorasick.Automaton
	patterns     []string
	patternNotes [][]string // pattern index -> note IDs sharing that title
}

// Build compiles an index from the given notes. Titles that are
// blank, too short, or plain English stopwords are skipped.
func Build(notes []*store.Note) (*Index, error) {
	stop := stopwords.MustGet("en")

	idx := &Index{}
	seen := make(map[string]int)

	for _, n := range notes {
		key := normalize(n.Title)
		if len(key) < minTitleLen || stop.Contains(key) {
			continue
		}
		if at, ok := seen[key]; ok {
			idx.patternNotes[at] = append(idx.patternNotes[at], n.ID)
			continue
		}
		seen[key] = len(idx.patterns)
		idx.patterns = append(idx.patterns, key)
		idx.patternNotes = append(idx.patternNotes, []string{n.ID})
	}

	if len(idx.patterns) == 0 {
		return idx, nil
	}

	ac, err := ahocorasick.NewBuilder().
		AddStrings(idx.patterns).
		SetMatchKind(ahocorasick.LeftmostLongest).
		SetPrefilter(true).
		Build()
	if err != nil {
		return nil, err
	}
	idx.ac = ac

	return idx, nil
}

// Related returns IDs of notes whose titles appear in note's content,
// excluding the note itself. Matches must fall on word boundaries so
// a note titled "art" does not link from "start".
func (idx *Index) Related(note *store.Note) []string {
	if idx.ac == nil {
		return nil
	}

	haystack := normalize(note.Content)
	if haystack == "" {
		return nil
	}

	var out []string
	dedup := make(map[string]bool)

	for _, m := range idx.ac.FindAllOverlapping([]byte(haystack)) {
		if !onWordBoundary(haystack, m.Start, m.End) {
			continue
		}
		for _, id := range idx.patternNotes[m.PatternID] {
			if id == note.ID || dedup[id] {
				continue
			}
			dedup[id] = true
			out = append(out, id)
		}
	}
	return out
}

// normalize lowercases and collapses whitespace so patterns and
// haystacks agree on one canonical form.
func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func onWordBoundary(s string, start, end int) bool {
	if start > 0 && isWordByte(s[start-1]) {
		return false
	}
	if end < len(s) && isWordByte(s[end]) {
		return false
	}
	return true
}

func isWordByte(b byte) bool {
	if b >= 0x80 {
		// Multibyte runes count as word characters.
		return true
	}
	r := rune(b)
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
