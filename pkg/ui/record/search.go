package record

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/foliolib/folio/pkg/ui/ansis"
)

// MatchPosition represents a search match position within the content.
type MatchPosition struct {
	Line  int // 0-based line number.
	Start int // 0-based character position within the line.
	End   int // 0-based character position within the line (exclusive).
}

// SearchHighlighter handles search-specific highlighting via [*ansis.StyleEditor].
type SearchHighlighter struct {
	highlightStyle         lipgloss.Style
	selectedHighlightStyle lipgloss.Style
}

// NewSearchHighlighter creates a new [SearchHighlighter].
func NewSearchHighlighter(highlightStyle, selectedHighlightStyle lipgloss.Style) *SearchHighlighter {
	return &SearchHighlighter{
		highlightStyle:         highlightStyle,
		selectedHighlightStyle: selectedHighlightStyle,
	}
}

// ApplyHighlights applies search highlighting to content that already has chroma styling.
// It converts [MatchPosition] slices to [ansis.StyleRange] slices and delegates to the [*ansis.StyleEditor].
func (sh *SearchHighlighter) ApplyHighlights(text string, matches []MatchPosition, selectedMatch int) string {
	if len(matches) == 0 {
		return text
	}

	lineRanges := sh.convertMatchesToStyleRanges(matches, selectedMatch)

	result := []string{}
	for i, line := range strings.Split(text, "\n") {
		if ranges, exists := lineRanges[i]; exists {
			editor := ansis.NewStyleEditor(line)
			result = append(result, editor.ApplyStyles(ranges))
		} else {
			result = append(result, line)
		}
	}

	return strings.Join(result, "\n")
}

// convertMatchesToStyleRanges converts [MatchPosition] slices to [ansis.StyleRange] slices organized by line.
func (sh *SearchHighlighter) convertMatchesToStyleRanges(
	matches []MatchPosition,
	selectedMatch int,
) map[int][]ansis.StyleRange {
	lineRanges := map[int][]ansis.StyleRange{}

	for globalIdx, match := range matches {
		style := sh.highlightStyle
		priority := 1

		// Use selected style for the currently selected match.
		if globalIdx == selectedMatch {
			style = sh.selectedHighlightStyle
			priority = 2 // Higher priority for selected matches.
		}

		styleRange := ansis.StyleRange{
			Start:    match.Start,
			End:      match.End,
			Style:    style,
			Priority: priority,
		}

		lineRanges[match.Line] = append(lineRanges[match.Line], styleRange)
	}

	return lineRanges
}
