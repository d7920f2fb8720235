package theme_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foliolib/folio/pkg/ui/theme"
)

func TestNewPair(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		dayStyle     string
		nightStyle   string
		mode         theme.Mode
		expectedMode theme.Mode
	}{
		"explicit day": {
			dayStyle:     "github",
			nightStyle:   "github-dark",
			mode:         theme.ModeDay,
			expectedMode: theme.ModeDay,
		},
		"explicit night": {
			dayStyle:     "github",
			nightStyle:   "github-dark",
			mode:         theme.ModeNight,
			expectedMode: theme.ModeNight,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			p := theme.NewPair(tc.dayStyle, tc.nightStyle, tc.mode)

			assert.Equal(t, tc.expectedMode, p.Mode())
			require.NotNil(t, p.Active())
		})
	}
}

func TestNewPairAutoResolves(t *testing.T) {
	t.Parallel()

	p := theme.NewPair("", "", theme.ModeAuto)

	// Auto must resolve to a concrete mode.
	assert.Contains(t, []theme.Mode{theme.ModeDay, theme.ModeNight}, p.Mode())
	assert.NotNil(t, p.Active())
}

func TestPairToggle(t *testing.T) {
	t.Parallel()

	p := theme.NewPair("github", "github-dark", theme.ModeDay)
	day := p.Active()

	mode := p.Toggle()
	assert.Equal(t, theme.ModeNight, mode)
	assert.Equal(t, theme.ModeNight, p.Mode())

	night := p.Active()
	assert.NotSame(t, day, night)

	mode = p.Toggle()
	assert.Equal(t, theme.ModeDay, mode)
	assert.Same(t, day, p.Active())
}
