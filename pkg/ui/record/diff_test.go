package record_test

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"

	"github.com/foliolib/folio/pkg/ui/record"
)

func TestNewDiffHighlighter(t *testing.T) {
	t.Parallel()

	insertedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	deletedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	editedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("3"))

	highlighter := record.NewDiffHighlighter(insertedStyle, deletedStyle, editedStyle)

	assert.NotNil(t, highlighter)
}

func TestDiffHighlighter_ApplyDiffHighlights(t *testing.T) {
	t.Parallel()

	lipgloss.SetColorProfile(termenv.TrueColor)

	insertedStyle := lipgloss.NewStyle().Background(lipgloss.Color("2"))
	deletedStyle := lipgloss.NewStyle().Background(lipgloss.Color("1"))
	editedStyle := lipgloss.NewStyle().Background(lipgloss.Color("3"))
	highlighter := record.NewDiffHighlighter(insertedStyle, deletedStyle, editedStyle)

	tcs := map[string]struct {
		input string
		want  string
		diffs []record.DiffPosition
	}{
		"empty text and no diffs": {
			input: "",
			diffs: []record.DiffPosition{},
			want:  "",
		},
		"text with no diffs": {
			input: "hello world",
			diffs: []record.DiffPosition{},
			want:  "hello world",
		},
		"single line with inserted diff": {
			input: "hello world",
			diffs: []record.DiffPosition{
				{Line: 0, Start: 6, End: 11, Type: record.DiffInserted},
			},
			want: "hello " + insertedStyle.Render("world"),
		},
		"single line with edited diff": {
			input: "hello world",
			diffs: []record.DiffPosition{
				{Line: 0, Start: 0, End: 5, Type: record.DiffEdited},
			},
			want: editedStyle.Render("hello") + " world",
		},
		"multiple lines with different diff types": {
			input: "line1\nline2\nline3",
			diffs: []record.DiffPosition{
				{Line: 0, Start: 0, End: 5, Type: record.DiffInserted},
				{Line: 2, Start: 0, End: 5, Type: record.DiffEdited},
			},
			want: insertedStyle.Render("line1") + "\nline2\n" + editedStyle.Render("line3"),
		},
		"line with multiple ranges": {
			input: "hello world test",
			diffs: []record.DiffPosition{
				{Line: 0, Start: 0, End: 5, Type: record.DiffInserted},
				{Line: 0, Start: 12, End: 16, Type: record.DiffEdited},
			},
			want: insertedStyle.Render("hello") + " world " + editedStyle.Render("test"),
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got := highlighter.ApplyDiffHighlights(tc.input, tc.diffs)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNewDiffer(t *testing.T) {
	t.Parallel()

	differ := record.NewDiffer()

	assert.NotNil(t, differ)
	assert.Empty(t, differ.GetDiffs())
}

func TestDiffer_SetInitialContent(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		initialContent string
		newContent     string
		wantOriginal   string
	}{
		"first call sets content": {
			initialContent: "initial content",
			newContent:     "new content",
			wantOriginal:   "initial content",
		},
		"second call does not override": {
			initialContent: "first",
			newContent:     "second",
			wantOriginal:   "first",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			differ := record.NewDiffer()
			differ.SetInitialContent(tc.initialContent)
			differ.SetInitialContent(tc.newContent)

			// Matching content produces no diffs, which tells us which
			// revision the differ kept.
			diffs := differ.FindAndCacheDiffs(tc.wantOriginal)
			assert.Empty(t, diffs)
		})
	}
}

func TestDiffer_SetOriginalContent(t *testing.T) {
	t.Parallel()

	differ := record.NewDiffer()
	differ.SetOriginalContent("first content")
	differ.FindAndCacheDiffs("some different content")

	differ.SetOriginalContent("second content")

	diffs := differ.FindAndCacheDiffs("second content")
	assert.Empty(t, diffs)
}

func TestDiffer_FindDiffs(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		originalContent string
		currentContent  string
		wantDiffTypes   []record.DiffType
		wantDiffsCount  int
	}{
		"no original content": {
			originalContent: "",
			currentContent:  "some content",
			wantDiffsCount:  1,
			wantDiffTypes:   []record.DiffType{},
		},
		"same content": {
			originalContent: "same content",
			currentContent:  "same content",
			wantDiffsCount:  0,
			wantDiffTypes:   []record.DiffType{},
		},
		"simple addition": {
			originalContent: "hello",
			currentContent:  "hello world",
			wantDiffsCount:  1,
			wantDiffTypes:   []record.DiffType{record.DiffInserted},
		},
		"simple change": {
			originalContent: "hello world",
			currentContent:  "hello there",
			wantDiffsCount:  2,
			wantDiffTypes:   []record.DiffType{record.DiffEdited, record.DiffEdited},
		},
		"multiline addition": {
			originalContent: "line1",
			currentContent:  "line1\nline2\nline3",
			wantDiffsCount:  3,
			wantDiffTypes:   []record.DiffType{record.DiffInserted, record.DiffInserted, record.DiffInserted},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			differ := record.NewDiffer()
			differ.SetOriginalContent(tc.originalContent)

			diffs := differ.FindAndCacheDiffs(tc.currentContent)

			assert.Len(t, diffs, tc.wantDiffsCount)

			for i, expectedType := range tc.wantDiffTypes {
				if i < len(diffs) {
					assert.Equal(t, expectedType, diffs[i].Type)
				}
			}
		})
	}
}

func TestDiffer_ClearDiffs(t *testing.T) {
	t.Parallel()

	differ := record.NewDiffer()
	differ.SetOriginalContent("original")
	differ.FindAndCacheDiffs("modified")

	assert.NotEmpty(t, differ.GetDiffs())

	differ.ClearDiffs()
	assert.Empty(t, differ.GetDiffs())
}

func TestDiffer_Unload(t *testing.T) {
	t.Parallel()

	differ := record.NewDiffer()
	differ.SetOriginalContent("original")
	differ.FindAndCacheDiffs("modified")

	assert.NotEmpty(t, differ.GetDiffs())

	differ.Unload()

	assert.Empty(t, differ.GetDiffs())
}

func TestDiffer_Integration(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		original string
		current  string
		wantLen  int
	}{
		"record modification": {
			original: `title: Emma
author: Jane Austen
meta:
  name: test`,
			current: `title: Emma
author: Jane Austen
meta:
  name: modified-test
  labels:
    app: test`,
			wantLen: 4,
		},
		"line removal": {
			original: `line1
line2
line3`,
			current: `line1
line3`,
			wantLen: 0, // Removals are skipped since only current content renders.
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			differ := record.NewDiffer()
			differ.SetOriginalContent(tc.original)

			diffs := differ.FindAndCacheDiffs(tc.current)

			assert.Len(t, diffs, tc.wantLen, "diffs %+v should match expected length", diffs)

			// All diff positions fall within the current content.
			lines := strings.Split(tc.current, "\n")
			for _, diff := range diffs {
				assert.GreaterOrEqual(t, diff.Line, 0)
				assert.Less(t, diff.Line, len(lines))
				assert.GreaterOrEqual(t, diff.Start, 0)
				assert.GreaterOrEqual(t, diff.End, diff.Start)
				assert.LessOrEqual(t, diff.End, len([]rune(lines[diff.Line])))
			}
		})
	}
}
