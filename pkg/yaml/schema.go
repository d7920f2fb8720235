package yaml

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/invopop/jsonschema"
)

// SchemaGenerator reflects a configuration object into a JSON schema,
// enriching property descriptions with Go doc comments from the originating
// packages.
type SchemaGenerator struct {
	obj  any
	pkgs []string
}

// NewSchemaGenerator creates a [SchemaGenerator] for obj. The provided
// package import paths are scanned for Go comments, which become property
// descriptions in the schema. All paths must belong to the current module.
func NewSchemaGenerator(obj any, pkgs ...string) *SchemaGenerator {
	return &SchemaGenerator{
		obj:  obj,
		pkgs: pkgs,
	}
}

// Generate returns the JSON schema document for the object.
func (g *SchemaGenerator) Generate() ([]byte, error) {
	moduleRoot, modulePath, err := findModuleRoot()
	if err != nil {
		return nil, err
	}

	r := &jsonschema.Reflector{}

	for _, pkg := range g.pkgs {
		rel := strings.TrimPrefix(pkg, modulePath)
		if rel == pkg {
			return nil, fmt.Errorf("package %q is not in module %q", pkg, modulePath)
		}

		dir := filepath.Join(moduleRoot, filepath.FromSlash(strings.TrimPrefix(rel, "/")))

		err := r.AddGoComments(pkg, dir)
		if err != nil {
			return nil, fmt.Errorf("add comments for %q: %w", pkg, err)
		}
	}

	jss := r.Reflect(g.obj)

	data, err := json.MarshalIndent(jss, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}

	return append(data, '\n'), nil
}

// findModuleRoot walks up from the working directory until it finds go.mod,
// returning the directory and the module path.
func findModuleRoot() (string, string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", "", fmt.Errorf("get working directory: %w", err)
	}

	for dir := wd; ; {
		modFile := filepath.Join(dir, "go.mod")

		f, err := os.Open(modFile) //nolint:gosec // G304: Path is derived from the working directory.
		if err == nil {
			modPath := readModulePath(f)

			closeErr := f.Close()
			if closeErr != nil {
				return "", "", fmt.Errorf("close %s: %w", modFile, closeErr)
			}

			if modPath == "" {
				return "", "", fmt.Errorf("%s: missing module directive", modFile)
			}

			return dir, modPath, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}

		dir = parent
	}

	return "", "", errors.New("go.mod not found")
}

func readModulePath(f *os.File) string {
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if rest, ok := strings.CutPrefix(line, "module "); ok {
			return strings.TrimSpace(rest)
		}
	}

	return ""
}
