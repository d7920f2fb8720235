package theme

import (
	"github.com/muesli/termenv"
)

// Mode selects the day or night theme variant.
type Mode string

const (
	ModeDay   Mode = "day"
	ModeNight Mode = "night"
	// ModeAuto resolves to day or night from the terminal background.
	ModeAuto Mode = "auto"
)

// Pair holds the day and night themes and tracks which one is active.
// Toggling swaps the active theme at runtime.
type Pair struct {
	day   *Theme
	night *Theme
	mode  Mode
}

// NewPair derives both variants from the named chroma styles. Empty style
// names fall back to "light" and "dark" respectively. A mode of [ModeAuto]
// (or anything unrecognized) resolves against the terminal background.
func NewPair(dayStyle, nightStyle string, mode Mode) *Pair {
	if dayStyle == "" {
		dayStyle = "light"
	}

	if nightStyle == "" {
		nightStyle = "dark"
	}

	if mode != ModeDay && mode != ModeNight {
		mode = detectMode()
	}

	return &Pair{
		day:   New(dayStyle),
		night: New(nightStyle),
		mode:  mode,
	}
}

// Active returns the theme for the current mode.
func (p *Pair) Active() *Theme {
	if p.mode == ModeDay {
		return p.day
	}

	return p.night
}

// Mode returns the current mode, always [ModeDay] or [ModeNight].
func (p *Pair) Mode() Mode {
	return p.mode
}

// Toggle switches between day and night and returns the new mode.
func (p *Pair) Toggle() Mode {
	if p.mode == ModeDay {
		p.mode = ModeNight
	} else {
		p.mode = ModeDay
	}

	return p.mode
}

func detectMode() Mode {
	if termenv.HasDarkBackground() {
		return ModeNight
	}

	return ModeDay
}
