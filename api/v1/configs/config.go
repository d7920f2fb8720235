// Package configs provides the global Configuration type for folio.
package configs

import (
	"fmt"

	"github.com/invopop/jsonschema"

	_ "embed"

	"github.com/foliolib/folio/api"
	v1 "github.com/foliolib/folio/api/v1"
	"github.com/foliolib/folio/pkg/catalog"
	"github.com/foliolib/folio/pkg/shelf"
	"github.com/foliolib/folio/pkg/ui"
	"github.com/foliolib/folio/pkg/yaml"
)

//go:generate go run ../../../internal/schemagen/config/main.go -o configs.v1.json

var (
	//go:embed config.yaml
	defaultConfigYAML []byte

	//go:embed configs.v1.json
	schemaJSON []byte

	// ValidKinds contains the valid kind values for global configurations.
	ValidKinds = []string{"Configuration"}

	// DefaultValidator validates global configuration against the JSON schema.
	DefaultValidator = yaml.MustNewValidator("/configs.v1.json", schemaJSON)

	// Compile-time interface checks.
	_ v1.Object = (*Config)(nil)
)

// Config represents the global folio configuration.
//
//nolint:recvcheck // Must satisfy the jsonschema interface.
type Config struct {
	// Catalog configures how the book catalog is located and loaded.
	Catalog *Catalog `json:"catalog,omitempty" jsonschema:"title=Catalog"`
	// UI holds TUI settings.
	UI          *ui.Config `json:"ui,omitempty" jsonschema:"title=UI"`
	v1.TypeMeta `json:",inline"`
	// Shelves are named CEL matchers cycled through in the browse view.
	Shelves []*shelf.Shelf `json:"shelves,omitempty" jsonschema:"title=Shelves"`
}

// Catalog configures catalog discovery and loading.
type Catalog struct {
	// Path to the catalog file opened when no argument is given.
	Path string `json:"path,omitempty" jsonschema:"title=Catalog Path"`
	// Watch reloads the catalog whenever the file changes on disk.
	Watch *bool `json:"watch,omitempty" jsonschema:"title=Watch"`
	// ReloadFilter is a CEL expression over watch events (`file`,
	// `fs.event`) deciding whether an event triggers a reload. See
	// [catalog.ReloadFilter]. Empty means reload on every content event.
	ReloadFilter string `json:"reloadFilter,omitempty" jsonschema:"title=Reload Filter"`
}

// New creates a new global [Config] with default values.
func New() *Config {
	c := &Config{
		TypeMeta: v1.TypeMeta{
			APIVersion: v1.APIVersion,
			Kind:       "Configuration",
		},
	}
	c.EnsureDefaults()

	return c
}

// EnsureDefaults initializes nil fields to their default values.
func (c *Config) EnsureDefaults() {
	if c.UI == nil {
		c.UI = ui.NewConfig()
	} else {
		c.UI.EnsureDefaults()
	}

	if c.Catalog == nil {
		c.Catalog = &Catalog{}
	}

	if c.Catalog.Watch == nil {
		watch := false
		c.Catalog.Watch = &watch
	}
}

// Validate compiles every shelf expression and checks the key bindings.
func (c *Config) Validate() error {
	seen := make(map[string]struct{}, len(c.Shelves))

	for _, s := range c.Shelves {
		if _, ok := seen[s.Name]; ok {
			return fmt.Errorf("duplicate shelf %q", s.Name)
		}

		seen[s.Name] = struct{}{}

		err := s.CompileExpr()
		if err != nil {
			return fmt.Errorf("validate shelves: %w", err)
		}
	}

	if c.Catalog != nil && c.Catalog.ReloadFilter != "" {
		_, err := catalog.NewReloadFilter(c.Catalog.ReloadFilter)
		if err != nil {
			return fmt.Errorf("validate catalog config: %w", err)
		}
	}

	if c.UI != nil {
		err := c.UI.Validate()
		if err != nil {
			return fmt.Errorf("validate ui config: %w", err)
		}
	}

	return nil
}

func (c Config) JSONSchemaExtend(jss *jsonschema.Schema) {
	v1.ExtendSchemaWithEnums(jss, v1.ValidAPIVersions, ValidKinds)
}

// MarshalYAML serializes the config to YAML.
func (c Config) MarshalYAML() ([]byte, error) {
	type alias Config

	b, err := api.MarshalYAML(alias(c))
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}

	return b, nil
}

// Write writes the config to the specified path if it doesn't already exist.
func (c Config) Write(path string) error {
	b, err := c.MarshalYAML()
	if err != nil {
		return err
	}

	err = api.WriteIfNotExists(path, b)
	if err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	return nil
}

// WriteDefault writes the embedded default config.yaml to the specified path.
func WriteDefault(path string, force bool) error {
	err := api.WriteDefaultFile(path, defaultConfigYAML, force, "configuration")
	if err != nil {
		return fmt.Errorf("write default config: %w", err)
	}

	return nil
}

// Schema returns the embedded JSON schema for the configuration.
func Schema() []byte {
	out := make([]byte, len(schemaJSON))
	copy(out, schemaJSON)

	return out
}

// GetPath returns the path to the global configuration file.
func GetPath() string {
	return api.GetConfigPath("config.yaml")
}
