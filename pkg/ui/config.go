package ui

import (
	"errors"
	"fmt"
	"time"

	"github.com/foliolib/folio/pkg/keys"
	"github.com/foliolib/folio/pkg/ui/browse"
	"github.com/foliolib/folio/pkg/ui/common"
	"github.com/foliolib/folio/pkg/ui/detail"
	"github.com/foliolib/folio/pkg/ui/theme"
	"github.com/foliolib/folio/pkg/window"
)

// Config contains TUI-specific configuration.
type Config struct {
	KeyBinds *KeyBinds `json:"keybinds,omitempty" jsonschema:"title=Key Bindings"`

	// MinimumDelay is the minimum time the loading overlay stays up, so fast
	// reloads don't flash.
	MinimumDelay *time.Duration `json:"minimumDelay,omitempty" jsonschema:"title=Minimum Delay"`

	// Theme styles output that renders before the day/night pair is
	// resolved, like config error reports.
	Theme string `json:"theme,omitempty" jsonschema:"title=Theme"`

	ThemeDay   string     `json:"themeDay,omitempty"   jsonschema:"title=Day Theme"`
	ThemeNight string     `json:"themeNight,omitempty" jsonschema:"title=Night Theme"`
	ThemeMode  theme.Mode `json:"themeMode,omitempty"  jsonschema:"title=Theme Mode,enum=day,enum=night,enum=auto"`

	Compact         *bool `json:"compact,omitempty"         jsonschema:"title=Compact Lists"`
	LineNumbers     *bool `json:"lineNumbers,omitempty"     jsonschema:"title=Line Numbers"`
	ChromaRendering *bool `json:"chromaRendering,omitempty" jsonschema:"title=Syntax Highlighting"`

	// PageSize is the number of books materialized per load.
	PageSize int `json:"pageSize,omitempty" jsonschema:"title=Page Size,minimum=1"`
}

// NewConfig creates a new [Config] with default values.
func NewConfig() *Config {
	c := &Config{}
	c.EnsureDefaults()

	return c
}

func (c *Config) EnsureDefaults() {
	if c.KeyBinds == nil {
		c.KeyBinds = NewKeyBinds()
	} else {
		c.KeyBinds.EnsureDefaults()
	}
	if c.MinimumDelay == nil {
		defaultDelay := 200 * time.Millisecond
		c.MinimumDelay = &defaultDelay
	}
	if c.ThemeDay == "" {
		c.ThemeDay = "folio-day"
	}
	if c.ThemeNight == "" {
		c.ThemeNight = "folio-night"
	}
	if c.ThemeMode == "" {
		c.ThemeMode = theme.ModeAuto
	}
	if c.Theme == "" {
		c.Theme = c.ThemeDay
	}
	if c.Compact == nil {
		compact := false
		c.Compact = &compact
	}
	if c.LineNumbers == nil {
		lineNumbers := true
		c.LineNumbers = &lineNumbers
	}
	if c.ChromaRendering == nil {
		chromaRendering := true
		c.ChromaRendering = &chromaRendering
	}
	if c.PageSize <= 0 {
		c.PageSize = window.DefaultPageSize
	}
}

func (c *Config) Validate() error {
	var errs []error

	switch c.ThemeMode {
	case theme.ModeDay, theme.ModeNight, theme.ModeAuto, "":
	default:
		errs = append(errs, fmt.Errorf("invalid theme mode %q", c.ThemeMode))
	}

	if c.KeyBinds != nil {
		errs = append(errs, c.KeyBinds.Validate())
	}

	return errors.Join(errs...)
}

type KeyBinds struct {
	Common *common.KeyBinds `json:"common,omitempty" jsonschema:"title=Common Key Bindings"`
	Browse *browse.KeyBinds `json:"browse,omitempty" jsonschema:"title=Browse Key Bindings"`
	Detail *detail.KeyBinds `json:"detail,omitempty" jsonschema:"title=Detail Key Bindings"`
}

func NewKeyBinds() *KeyBinds {
	kb := &KeyBinds{
		Common: &common.KeyBinds{},
		Browse: &browse.KeyBinds{},
		Detail: &detail.KeyBinds{},
	}
	kb.EnsureDefaults()

	return kb
}

func (kb *KeyBinds) EnsureDefaults() {
	if kb.Common == nil {
		kb.Common = &common.KeyBinds{}
	}
	if kb.Browse == nil {
		kb.Browse = &browse.KeyBinds{}
	}
	if kb.Detail == nil {
		kb.Detail = &detail.KeyBinds{}
	}

	kb.Common.EnsureDefaults()
	kb.Browse.EnsureDefaults()
	kb.Detail.EnsureDefaults()
}

// Validate checks that no view's binds collide with the common binds.
func (kb *KeyBinds) Validate() error {
	return errors.Join(
		keys.ValidateBinds(
			kb.Common.GetKeyBinds(),
			kb.Browse.GetKeyBinds(),
		),
		keys.ValidateBinds(
			kb.Common.GetKeyBinds(),
			kb.Detail.GetKeyBinds(),
		),
	)
}
