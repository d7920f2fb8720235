// Package record renders catalog records as syntax-highlighted text, with
// optional search, diff, and error annotations layered on top.
package record

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/cellbuf"
	"github.com/muesli/termenv"
	"github.com/sahilm/fuzzy"

	"github.com/foliolib/folio/pkg/book"
	"github.com/foliolib/folio/pkg/ui/theme"
)

const (
	wrapOnCharacters = " /-"

	// lineNumberWidth is the width of the line number gutter, "%4d  ".
	lineNumberWidth = 6

	// lineSpanEnd marks ranges that extend to the end of a line. Ranges are
	// clamped to the actual line length when styles are applied.
	lineSpanEnd = 1 << 10
)

// ChromaRenderer renders record content with chroma syntax highlighting and
// composes search, diff, and error highlights on top of it.
type ChromaRenderer struct {
	lexer         chroma.Lexer
	formatter     chroma.Formatter
	theme         *theme.Theme
	style         *chroma.Style
	searchHL      *SearchHighlighter
	diffHL        *DiffHighlighter
	errorHL       *ErrorHighlighter
	searchTerm    string
	matches       []MatchPosition
	diffs         []DiffPosition
	errors        []ErrorPosition
	selectedMatch int
	// initialLineNumber is the number shown for the first content line.
	initialLineNumber   int
	lineNumbersDisabled bool
}

// RendererOpt configures a [ChromaRenderer].
type RendererOpt func(cr *ChromaRenderer)

// WithInitialLineNumber sets the line number shown for the first line of
// content. Useful when rendering an excerpt of a larger document.
func WithInitialLineNumber(n int) RendererOpt {
	return func(cr *ChromaRenderer) {
		cr.initialLineNumber = n
	}
}

// WithoutLineNumbers disables the line number gutter.
func WithoutLineNumbers() RendererOpt {
	return func(cr *ChromaRenderer) {
		cr.lineNumbersDisabled = true
	}
}

// NewChromaRenderer creates a new [ChromaRenderer].
func NewChromaRenderer(t *theme.Theme, opts ...RendererOpt) *ChromaRenderer {
	lexer := lexers.Get("YAML")
	lexer = chroma.Coalesce(lexer)

	formatterName := "noop" // Default to noop formatter.
	switch termenv.ColorProfile() {
	case termenv.TrueColor:
		formatterName = "terminal16m"

	case termenv.ANSI256:
		formatterName = "terminal256"

	case termenv.ANSI:
		formatterName = "terminal8"
	}

	cr := &ChromaRenderer{
		theme:             t,
		lexer:             lexer,
		formatter:         formatters.Get(formatterName),
		style:             t.ChromaStyle,
		searchHL:          NewSearchHighlighter(t.SelectedSubtleStyle.Underline(true), t.SelectedStyle.Underline(true).Bold(true)),
		diffHL:            NewDiffHighlighter(t.InsertedStyle, t.DeletedStyle, t.EditedStyle),
		errorHL:           NewErrorHighlighter(t.ErrorTextStyle),
		selectedMatch:     -1,
		initialLineNumber: 1,
	}
	for _, opt := range opts {
		opt(cr)
	}

	return cr
}

// RenderContent renders content with chroma styling and any configured
// search, diff, and error highlights. A width of zero or less disables
// wrapping and truncation.
func (cr *ChromaRenderer) RenderContent(content string, width int) (string, error) {
	// Find search matches before applying any styling, so that match
	// positions refer to the plain content.
	if cr.searchTerm != "" {
		cr.findMatches(content)
	}

	rendered, err := cr.executeRendering(content)
	if err != nil {
		return "", err
	}

	// Later passes win on overlap, so errors end up on top of diffs, and
	// diffs on top of search matches.
	if len(cr.matches) > 0 {
		rendered = cr.searchHL.ApplyHighlights(rendered, cr.matches, cr.selectedMatch)
	}
	if len(cr.diffs) > 0 {
		rendered = cr.diffHL.ApplyDiffHighlights(rendered, cr.diffs)
	}
	if len(cr.errors) > 0 {
		rendered = cr.errorHL.ApplyErrorHighlights(rendered, cr.errors)
	}

	return cr.postProcessContent(rendered, width), nil
}

// executeRendering performs the actual chroma rendering.
func (cr *ChromaRenderer) executeRendering(content string) (string, error) {
	iterator, err := cr.lexer.Tokenise(nil, content)
	if err != nil {
		return "", fmt.Errorf("lexer tokenize: %w", err)
	}

	buf := &bytes.Buffer{}
	err = cr.formatter.Format(buf, cr.style, iterator)
	if err != nil {
		return "", fmt.Errorf("format: %w", err)
	}

	return buf.String(), nil
}

// postProcessContent trims the rendered content and adds line numbers and
// wrapping as configured.
func (cr *ChromaRenderer) postProcessContent(content string, width int) string {
	content = strings.TrimSpace(content)

	lines := strings.Split(content, "\n")
	var result strings.Builder

	for i, line := range lines {
		if cr.lineNumbersDisabled {
			result.WriteString(cr.formatLine(line, width))
		} else {
			result.WriteString(cr.formatLineWithNumber(line, cr.initialLineNumber+i, width))
		}

		// Don't add an artificial newline after the last split.
		if i+1 < len(lines) {
			result.WriteRune('\n')
		}
	}

	return result.String()
}

func (cr *ChromaRenderer) formatLine(line string, width int) string {
	if width <= 0 {
		return line
	}

	trunc := lipgloss.NewStyle().MaxWidth(width).Render
	lines := cellbuf.Wrap(line, width, wrapOnCharacters)

	return trunc(lines)
}

// formatLineWithNumber formats a line with a line number gutter, wrapping the
// remainder of the line into the space that is left.
func (cr *ChromaRenderer) formatLineWithNumber(line string, lineNum, width int) string {
	lineNumberText := fmt.Sprintf("%4d  ", lineNum)

	width = max(0, width-lineNumberWidth)
	if width == 0 {
		return cr.theme.LineNumberStyle.Render(lineNumberText) + line
	}

	trunc := lipgloss.NewStyle().MaxWidth(width).Render
	lines := cellbuf.Wrap(line, width, wrapOnCharacters)

	fmtLines := []string{}
	for i, ln := range strings.Split(lines, "\n") {
		if i == 0 {
			// Add the line number only to the first line.
			ln = cr.theme.LineNumberStyle.Render(lineNumberText) + trunc(ln)
		} else {
			// For subsequent lines, just add spaces for alignment.
			ln = cr.theme.LineNumberStyle.Render("   -  ") + trunc(ln)
		}
		fmtLines = append(fmtLines, ln)
	}

	return strings.Join(fmtLines, "\n")
}

// SetSearchTerm sets the search term and clears existing matches.
func (cr *ChromaRenderer) SetSearchTerm(term string) {
	cr.searchTerm = term
	cr.matches = nil
	cr.selectedMatch = -1
}

// SetSelectedMatch marks the match at the given index as selected, so that it
// renders with the selected highlight style.
func (cr *ChromaRenderer) SetSelectedMatch(idx int) {
	cr.selectedMatch = idx
}

// GetMatches returns the current search matches.
func (cr *ChromaRenderer) GetMatches() []MatchPosition {
	return cr.matches
}

// SetDiffs sets the diff positions to highlight.
func (cr *ChromaRenderer) SetDiffs(diffs []DiffPosition) {
	cr.diffs = diffs
}

// ClearDiffs removes all diff highlights.
func (cr *ChromaRenderer) ClearDiffs() {
	cr.diffs = nil
}

// SetError highlights the given position range as an error. Multi-line ranges
// highlight whole lines between the start and end positions.
func (cr *ChromaRenderer) SetError(startLine, startCol, endLine, endCol int) {
	cr.errors = nil

	startCol = max(0, startCol)
	endCol = max(0, endCol)

	if startLine == endLine {
		cr.errors = append(cr.errors, ErrorPosition{
			Line:  startLine,
			Start: startCol,
			End:   max(startCol, endCol),
		})

		return
	}

	for line := startLine; line <= endLine; line++ {
		switch line {
		case startLine:
			cr.errors = append(cr.errors, ErrorPosition{Line: line, Start: startCol, End: lineSpanEnd})
		case endLine:
			cr.errors = append(cr.errors, ErrorPosition{Line: line, Start: 0, End: endCol})
		default:
			cr.errors = append(cr.errors, ErrorPosition{Line: line, Start: 0, End: lineSpanEnd})
		}
	}
}

// ClearError removes all error highlights.
func (cr *ChromaRenderer) ClearError() {
	cr.errors = nil
}

// SetFormatter sets the chroma formatter explicitly.
// This is primarily useful for testing.
func (cr *ChromaRenderer) SetFormatter(name string) {
	cr.formatter = formatters.Get(name)
}

// findMatches finds all occurrences of the search term in the content.
func (cr *ChromaRenderer) findMatches(content string) {
	cr.matches = nil

	if cr.searchTerm == "" {
		return
	}

	normalizedTerm, err := book.Normalize(cr.searchTerm)
	if err != nil {
		slog.Debug("error normalizing search term",
			slog.Any("err", err),
		)
		normalizedTerm = cr.searchTerm
	}

	lines := strings.Split(content, "\n")

	// Find matches line by line for better accuracy.
	for lineNum, line := range lines {
		normalizedLine, err := book.Normalize(line)
		if err != nil {
			normalizedLine = line
		}

		// For exact character searches, use simple string search instead of
		// fuzzy matching.
		if len(normalizedTerm) == 1 {
			cr.findExactMatches(normalizedLine, normalizedTerm, lineNum)
		} else {
			cr.findFuzzyMatches(normalizedLine, normalizedTerm, lineNum)
		}
	}

	// Group consecutive matches.
	cr.groupConsecutiveMatches()
}

// findExactMatches finds all exact occurrences of a single character.
func (cr *ChromaRenderer) findExactMatches(line, term string, lineNum int) {
	runes := []rune(line)
	for i, char := range runes {
		if string(char) == term {
			cr.matches = append(cr.matches, MatchPosition{
				Line:  lineNum,
				Start: i,
				End:   i + 1,
			})
		}
	}
}

// findFuzzyMatches finds fuzzy matches for longer search terms.
func (cr *ChromaRenderer) findFuzzyMatches(line, term string, lineNum int) {
	fuzzyMatches := fuzzy.Find(term, []string{line})
	if len(fuzzyMatches) == 0 {
		return
	}

	// Convert fuzzy match indexes to line positions.
	match := fuzzyMatches[0]
	lineRunes := []rune(line)

	for _, matchIdx := range match.MatchedIndexes {
		// Convert byte index to rune index.
		runeIdx := cr.byteIndexToRuneIndex(line, matchIdx)
		if runeIdx >= 0 && runeIdx < len(lineRunes) {
			cr.matches = append(cr.matches, MatchPosition{
				Line:  lineNum,
				Start: runeIdx,
				End:   runeIdx + 1,
			})
		}
	}
}

// byteIndexToRuneIndex converts a byte index to a rune index.
func (cr *ChromaRenderer) byteIndexToRuneIndex(s string, byteIdx int) int {
	if byteIdx >= len(s) {
		return -1
	}

	runeIdx := 0
	for i := range s {
		if i == byteIdx {
			return runeIdx
		}
		if i > byteIdx {
			return -1
		}
		runeIdx++
	}

	return runeIdx
}

// groupConsecutiveMatches groups consecutive character matches into larger matches.
func (cr *ChromaRenderer) groupConsecutiveMatches() {
	if len(cr.matches) == 0 {
		return
	}

	var grouped []MatchPosition
	current := cr.matches[0]

	for i := 1; i < len(cr.matches); i++ {
		match := cr.matches[i]

		// If this match is consecutive to the current one on the same line.
		if match.Line == current.Line && match.Start == current.End {
			// Extend the current match.
			current.End = match.End
		} else {
			// Save the current match and start a new one.
			grouped = append(grouped, current)
			current = match
		}
	}

	// Don't forget the last match.
	grouped = append(grouped, current)
	cr.matches = grouped
}
