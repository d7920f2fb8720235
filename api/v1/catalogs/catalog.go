// Package catalogs provides the Catalog document type for folio.
package catalogs

import (
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"

	_ "embed"

	"github.com/foliolib/folio/api"
	v1 "github.com/foliolib/folio/api/v1"
	"github.com/foliolib/folio/pkg/book"
	"github.com/foliolib/folio/pkg/yaml"
)

//go:generate go run ../../../internal/schemagen/catalog/main.go -o catalogs.v1.json

var (
	// FileNames contains the valid names for catalog files.
	FileNames = []string{
		"catalog.yaml",
		"books.yaml",
	}

	//go:embed catalog.yaml
	defaultCatalogYAML []byte

	//go:embed catalogs.v1.json
	schemaJSON []byte

	// DefaultValidator validates catalog documents against the JSON schema.
	DefaultValidator = yaml.MustNewValidator("/catalogs.v1.json", schemaJSON)

	// ValidKinds contains the valid kind values for catalog documents.
	ValidKinds = []string{"Catalog"}

	// Compile-time interface checks.
	_ v1.Object = (*Catalog)(nil)
)

// Catalog is a collection of books with optional metadata.
//
//nolint:recvcheck // Must satisfy the jsonschema interface.
type Catalog struct {
	// Metadata describes the catalog itself.
	Metadata    *Metadata `json:"metadata,omitempty" jsonschema:"title=Metadata"`
	v1.TypeMeta `json:",inline"`
	// Books holds the catalog entries.
	Books []*book.Book `json:"books,omitempty" jsonschema:"title=Books"`
}

// Metadata describes a catalog.
type Metadata struct {
	// Name of the catalog, shown in the status bar.
	Name string `json:"name,omitempty" jsonschema:"title=Name"`
	// Description of the catalog.
	Description string `json:"description,omitempty" jsonschema:"title=Description"`
}

// New creates a new empty [Catalog].
func New() *Catalog {
	c := &Catalog{
		TypeMeta: v1.TypeMeta{
			APIVersion: v1.APIVersion,
			Kind:       "Catalog",
		},
	}
	c.EnsureDefaults()

	return c
}

// EnsureDefaults initializes nil fields to their default values.
func (c *Catalog) EnsureDefaults() {
	if c.Books == nil {
		c.Books = []*book.Book{}
	}
}

// Validate checks requirements that the schema can't represent. Currently
// that is title/author uniqueness across the catalog.
func (c *Catalog) Validate() error {
	seen := make(map[string]struct{}, len(c.Books))

	for _, b := range c.Books {
		key := strings.ToLower(b.Title) + "\x00" + strings.ToLower(b.Author)
		if _, ok := seen[key]; ok {
			return fmt.Errorf("duplicate book: %s by %s", b.Title, b.Author)
		}

		seen[key] = struct{}{}
	}

	return nil
}

// Name returns the catalog's display name, falling back to "catalog" when
// metadata is absent.
func (c *Catalog) Name() string {
	if c.Metadata != nil && c.Metadata.Name != "" {
		return c.Metadata.Name
	}

	return "catalog"
}

func (c Catalog) JSONSchemaExtend(jss *jsonschema.Schema) {
	v1.ExtendSchemaWithEnums(jss, v1.ValidAPIVersions, ValidKinds)
}

// MarshalYAML serializes the catalog to YAML.
func (c Catalog) MarshalYAML() ([]byte, error) {
	type alias Catalog

	b, err := api.MarshalYAML(alias(c))
	if err != nil {
		return nil, fmt.Errorf("marshal catalog: %w", err)
	}

	return b, nil
}

// Write writes the catalog to the specified path if it doesn't already exist.
func (c Catalog) Write(path string) error {
	b, err := c.MarshalYAML()
	if err != nil {
		return err
	}

	err = api.WriteIfNotExists(path, b)
	if err != nil {
		return fmt.Errorf("write catalog: %w", err)
	}

	return nil
}

// DefaultYAML returns the embedded default catalog document.
func DefaultYAML() []byte {
	out := make([]byte, len(defaultCatalogYAML))
	copy(out, defaultCatalogYAML)

	return out
}

// WriteDefault writes the embedded default catalog.yaml to the specified path.
func WriteDefault(path string, force bool) error {
	err := api.WriteDefaultFile(path, defaultCatalogYAML, force, "catalog")
	if err != nil {
		return fmt.Errorf("write default catalog: %w", err)
	}

	return nil
}

// GetPath returns the path to the user's default catalog file.
func GetPath() string {
	return api.GetConfigPath("catalog.yaml")
}

// Find searches for a catalog file starting from targetPath and walking up
// the directory tree until the filesystem root. It checks for all [FileNames]
// in each directory. Returns the path to the catalog if found, or empty
// string if not found.
func Find(targetPath string) (string, error) {
	path, err := api.FindConfigFile(targetPath, FileNames)
	if err != nil {
		return "", fmt.Errorf("find catalog: %w", err)
	}

	return path, nil
}
