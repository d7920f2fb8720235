package yaml_test

import (
	"errors"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foliolib/folio/pkg/ui/theme"
	"github.com/foliolib/folio/pkg/yaml"
)

func TestError(t *testing.T) {
	t.Parallel()

	lipgloss.SetColorProfile(termenv.TrueColor)

	err := yaml.NewError(
		errors.New("invalid shelf expression"),
		yaml.WithPath(yaml.NewPathBuilder().Root().Child("shelves").Build()),
		yaml.WithSourceLines(2),
		yaml.WithTheme(theme.New("onedark")),
		yaml.WithFormatter("terminal16m"),
		yaml.WithSource([]byte(`apiVersion: folio/v1beta1
kind: Configuration
catalog: library.yaml
shelves: value
ui: dark
pageSize: 36
logging: text`)),
	)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid shelf expression")
}

func TestErrorWrapper_Wrap(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		err        error
		wantSource bool
		wantNil    bool
	}{
		"nil error": {
			err:     nil,
			wantNil: true,
		},
		"plain error passes through": {
			err:        errors.New("plain"),
			wantSource: false,
		},
		"yaml error receives options": {
			err:        yaml.NewError(errors.New("bad value")),
			wantSource: true,
		},
	}

	source := []byte("key: value")

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			ew := yaml.NewErrorWrapper(yaml.WithSource(source))

			got := ew.Wrap(tc.err)

			if tc.wantNil {
				assert.NoError(t, got)

				return
			}

			require.Error(t, got)

			var yamlErr *yaml.Error
			if tc.wantSource {
				require.ErrorAs(t, got, &yamlErr)
				assert.Equal(t, source, yamlErr.Source)
			} else {
				assert.False(t, errors.As(got, &yamlErr))
			}
		})
	}
}
