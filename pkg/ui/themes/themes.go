// Package themes holds the chroma styles shipped with folio. The day and
// night styles back the default theme pair, and both are registered with
// the theme registry before the UI starts.
package themes

import (
	"fmt"

	"github.com/alecthomas/chroma/v2"

	"github.com/foliolib/folio/pkg/ui/theme"
)

const (
	// Day is the name of the built-in light style.
	Day = "folio-day"
	// Night is the name of the built-in dark style.
	Night = "folio-night"
)

// Builtin maps built-in style names to their token entries.
var Builtin = map[string]chroma.StyleEntries{
	Day: {
		chroma.Background:        "#24292e bg:#ffffff",
		chroma.Text:              "#24292e",
		chroma.Error:             "#cb2431",
		chroma.Comment:           "italic #6a737d",
		chroma.CommentPreproc:    "bold #969896",
		chroma.Keyword:           "bold #d73a49",
		chroma.KeywordType:       "#d73a49",
		chroma.NameTag:           "#22863a",
		chroma.NameAttribute:     "#6f42c1",
		chroma.NameBuiltin:       "#005cc5",
		chroma.NameFunction:      "#6f42c1",
		chroma.LiteralString:     "#032f62",
		chroma.LiteralNumber:     "#005cc5",
		chroma.Operator:          "#d73a49",
		chroma.Punctuation:       "#24292e",
		chroma.GenericDeleted:    "#b31d28 bg:#ffeef0",
		chroma.GenericInserted:   "#22863a bg:#f0fff4",
		chroma.GenericEmph:       "italic #24292e",
		chroma.GenericStrong:     "bold #24292e",
		chroma.GenericSubheading: "#6a737d",
		chroma.TextWhitespace:    "#bbbbbb",
	},
	Night: {
		chroma.Background:        "#c9d1d9 bg:#0d1117",
		chroma.Text:              "#c9d1d9",
		chroma.Error:             "#f85149",
		chroma.Comment:           "italic #8b949e",
		chroma.CommentPreproc:    "bold #8b949e",
		chroma.Keyword:           "bold #ff7b72",
		chroma.KeywordType:       "#ff7b72",
		chroma.NameTag:           "#7ee787",
		chroma.NameAttribute:     "#d2a8ff",
		chroma.NameBuiltin:       "#79c0ff",
		chroma.NameFunction:      "#d2a8ff",
		chroma.LiteralString:     "#a5d6ff",
		chroma.LiteralNumber:     "#79c0ff",
		chroma.Operator:          "#ff7b72",
		chroma.Punctuation:       "#c9d1d9",
		chroma.GenericDeleted:    "#ffa198 bg:#490202",
		chroma.GenericInserted:   "#56d364 bg:#0f5323",
		chroma.GenericEmph:       "italic #c9d1d9",
		chroma.GenericStrong:     "bold #c9d1d9",
		chroma.GenericSubheading: "#8b949e",
		chroma.TextWhitespace:    "#484f58",
	},
}

// RegisterBuiltin adds every built-in style to the theme registry.
func RegisterBuiltin() error {
	for name, entries := range Builtin {
		err := theme.Register(name, entries)
		if err != nil {
			return fmt.Errorf("register theme %q: %w", name, err)
		}
	}

	return nil
}
