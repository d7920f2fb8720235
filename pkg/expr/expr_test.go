package expr_test

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/fsnotify/fsnotify"
	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foliolib/folio/pkg/expr"
)

func TestCELPathFunctions(t *testing.T) {
	t.Parallel()

	env, err := expr.NewEnvironment(
		cel.Variable("file", cel.StringType),
	)
	require.NoError(t, err)

	tcs := map[string]struct {
		expression string
		file       string
		expected   bool
	}{
		"pathBase matches catalog file": {
			expression: `pathBase(file) == "catalog.yaml"`,
			file:       "/library/catalog.yaml",
			expected:   true,
		},
		"pathBase does not match": {
			expression: `pathBase(file) == "catalog.yaml"`,
			file:       "/library/books.yaml",
			expected:   false,
		},
		"pathExt with in operator": {
			expression: `pathExt(file) in [".yaml", ".yml"]`,
			file:       "/library/catalog.yml",
			expected:   true,
		},
		"pathExt rejects other extensions": {
			expression: `pathExt(file) in [".yaml", ".yml"]`,
			file:       "/library/catalog.json",
			expected:   false,
		},
		"pathDir contains directory": {
			expression: `pathDir(file).contains("/catalogs")`,
			file:       "/home/user/catalogs/fiction.yaml",
			expected:   true,
		},
		"combined path functions": {
			expression: `pathExt(file) == ".yaml" && !pathBase(file).startsWith(".")`,
			file:       "/library/catalog.yaml",
			expected:   true,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			program, err := env.Compile(tc.expression)
			require.NoError(t, err)

			result, _, err := program.Eval(map[string]any{
				"file": tc.file,
			})
			require.NoError(t, err)

			boolResult, ok := result.Value().(bool)
			require.True(t, ok, "result should be a boolean")
			assert.Equal(t, tc.expected, boolResult)
		})
	}
}

func TestCELBookExpressions(t *testing.T) {
	t.Parallel()

	env, err := expr.NewEnvironment(
		cel.Variable("book", cel.MapType(cel.StringType, cel.DynType)),
	)
	require.NoError(t, err)

	book := map[string]any{
		"title":    "Pride and Prejudice",
		"author":   "Jane Austen",
		"genre":    "Novel",
		"year":     1813,
		"pages":    432,
		"rating":   4.6,
		"language": "en",
		"tags":     []any{"classic", "romance"},
	}

	tcs := map[string]struct {
		expression string
		expected   bool
	}{
		"year comparison": {
			expression: `book.year < 1900`,
			expected:   true,
		},
		"tag membership": {
			expression: `"classic" in book.tags`,
			expected:   true,
		},
		"missing tag": {
			expression: `"dystopia" in book.tags`,
			expected:   false,
		},
		"author contains": {
			expression: `book.author.contains("Austen")`,
			expected:   true,
		},
		"rating and language": {
			expression: `book.rating >= 4.0 && book.language == "en"`,
			expected:   true,
		},
		"genre mismatch": {
			expression: `book.genre == "Poetry"`,
			expected:   false,
		},
		"title matches pattern": {
			expression: `book.title.matches("^Pride.*")`,
			expected:   true,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			program, err := env.Compile(tc.expression)
			require.NoError(t, err)

			result, _, err := program.Eval(map[string]any{
				"book": book,
			})
			require.NoError(t, err)

			boolResult, ok := result.Value().(bool)
			require.True(t, ok, "result should be a boolean")
			assert.Equal(t, tc.expected, boolResult)
		})
	}
}

func TestCELHasMacro(t *testing.T) {
	t.Parallel()

	env, err := expr.NewEnvironment(
		cel.Variable("fs.event", cel.IntType),
	)
	require.NoError(t, err)

	tcs := map[string]struct {
		expression string
		event      fsnotify.Op
		expected   bool
	}{
		"single flag match": {
			expression: `fs.event.has(fs.WRITE)`,
			event:      fsnotify.Write,
			expected:   true,
		},
		"single flag mismatch": {
			expression: `fs.event.has(fs.REMOVE)`,
			event:      fsnotify.Write,
			expected:   false,
		},
		"multiple flags any match": {
			expression: `fs.event.has(fs.CREATE, fs.RENAME)`,
			event:      fsnotify.Create,
			expected:   true,
		},
		"multiple flags no match": {
			expression: `fs.event.has(fs.CREATE, fs.RENAME)`,
			event:      fsnotify.Chmod,
			expected:   false,
		},
		"combined event flags": {
			expression: `fs.event.has(fs.WRITE, fs.CREATE)`,
			event:      fsnotify.Create | fsnotify.Chmod,
			expected:   true,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			program, err := env.Compile(tc.expression)
			require.NoError(t, err)

			result, _, err := program.Eval(map[string]any{
				"fs.event": int64(tc.event),
			})
			require.NoError(t, err)

			boolResult, ok := result.Value().(bool)
			require.True(t, ok, "result should be a boolean")
			assert.Equal(t, tc.expected, boolResult)
		})
	}
}

func TestCELYamlPathFunction(t *testing.T) {
	t.Parallel()

	// Create temporary directory with test files.
	tempDir := t.TempDir()

	// Create a catalog document.
	catalogContent := `apiVersion: folio.dev/v1
kind: Catalog
metadata:
  name: classics
books:
  - title: Pride and Prejudice
    author: Jane Austen
`
	catalogPath := filepath.Join(tempDir, "catalog.yaml")
	require.NoError(t, os.WriteFile(catalogPath, []byte(catalogContent), 0o644))

	// Create a configuration document with some nested structure.
	configContent := `pageSize: 36
ui:
  theme: dracula
  compact: false
catalog:
  path: ~/books/catalog.yaml
`
	configPath := filepath.Join(tempDir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0o644))

	env, err := expr.NewEnvironment(
		cel.Variable("file", cel.StringType),
	)
	require.NoError(t, err)

	tcs := map[string]struct {
		expression string
		file       string
		expected   bool
	}{
		"yamlPath function with kind match": {
			expression: `yamlPath(file, "$.kind") == "Catalog"`,
			file:       catalogPath,
			expected:   true,
		},
		"yamlPath function with nested path": {
			expression: `yamlPath(file, "$.ui.theme") == "dracula"`,
			file:       configPath,
			expected:   true,
		},
		"yamlPath function with non-existent path": {
			expression: `yamlPath(file, "$.nonExistent") != null`,
			file:       catalogPath,
			expected:   false,
		},
		"yamlPath function with numeric value": {
			expression: `yamlPath(file, "$.pageSize") == 36`,
			file:       configPath,
			expected:   true,
		},
		"yamlPath combined with pathBase": {
			expression: `pathBase(file) == "catalog.yaml" && yamlPath(file, "$.apiVersion") == "folio.dev/v1"`,
			file:       catalogPath,
			expected:   true,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			program, err := env.Compile(tc.expression)
			require.NoError(t, err)

			result, _, err := program.Eval(map[string]any{
				"file": tc.file,
			})
			require.NoError(t, err)

			boolResult, ok := result.Value().(bool)
			require.True(t, ok, "result should be a boolean")
			assert.Equal(t, tc.expected, boolResult)
		})
	}
}

func TestConvertToCELValue(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input    any
		expected any
		isNull   bool
	}{
		"nil value": {
			input:  nil,
			isNull: true,
		},
		"bool true": {
			input:    true,
			expected: true,
		},
		"bool false": {
			input:    false,
			expected: false,
		},
		"int": {
			input:    42,
			expected: int64(42),
		},
		"int8": {
			input:    int8(42),
			expected: int64(42),
		},
		"int16": {
			input:    int16(42),
			expected: int64(42),
		},
		"int32": {
			input:    int32(42),
			expected: int64(42),
		},
		"int64": {
			input:    int64(42),
			expected: int64(42),
		},
		"uint": {
			input:    uint(42),
			expected: int64(42),
		},
		"uint8": {
			input:    uint8(42),
			expected: int64(42),
		},
		"uint16": {
			input:    uint16(42),
			expected: int64(42),
		},
		"uint32": {
			input:    uint32(42),
			expected: int64(42),
		},
		"uint64": {
			input:    uint64(42),
			expected: int64(42),
		},
		"uint64 overflow": {
			input:    uint64(math.MaxUint64),
			expected: float64(math.MaxUint64),
		},
		"float32": {
			input:    float32(3.14),
			expected: float64(float32(3.14)),
		},
		"float64": {
			input:    3.14159,
			expected: 3.14159,
		},
		"string": {
			input:    "hello world",
			expected: "hello world",
		},
		"unsupported type": {
			input:  complex(1, 2),
			isNull: true,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			result := expr.ConvertToCELValue(tc.input)

			if tc.isNull {
				assert.Equal(t, types.NullValue, result)

				return
			}

			switch expected := tc.expected.(type) {
			case bool:
				boolVal, ok := result.Value().(bool)
				require.True(t, ok)
				assert.Equal(t, expected, boolVal)
			case int64:
				intVal, ok := result.Value().(int64)
				require.True(t, ok)
				assert.Equal(t, expected, intVal)
			case float64:
				floatVal, ok := result.Value().(float64)
				require.True(t, ok)
				assert.InDelta(t, expected, floatVal, 0.01)
			case string:
				strVal, ok := result.Value().(string)
				require.True(t, ok)
				assert.Equal(t, expected, strVal)
			}
		})
	}
}

func TestConvertToCELValue_Slice(t *testing.T) {
	t.Parallel()

	input := []any{1, "hello", true, nil}
	result := expr.ConvertToCELValue(input)

	assert.NotEqual(t, types.NullValue, result)
	assert.Equal(t, "list", result.Type().TypeName())
}

func TestConvertToCELValue_MapAnyAny(t *testing.T) {
	t.Parallel()

	input := map[any]any{
		"key1": "value1",
		42:     "value2",
	}
	result := expr.ConvertToCELValue(input)

	assert.NotEqual(t, types.NullValue, result)
	assert.Equal(t, "map", result.Type().TypeName())
}

func TestConvertToCELValue_MapStringAny(t *testing.T) {
	t.Parallel()

	input := map[string]any{
		"title":  "Dune",
		"year":   1965,
		"rated":  true,
		"author": map[string]any{"lastName": "Herbert"},
	}
	result := expr.ConvertToCELValue(input)

	assert.NotEqual(t, types.NullValue, result)
	assert.Equal(t, "map", result.Type().TypeName())
}

func TestCELErrorHandling(t *testing.T) {
	t.Parallel()

	env, err := expr.NewEnvironment()
	require.NoError(t, err)

	tcs := map[string]struct {
		expression string
	}{
		"pathBase with invalid input": {
			expression: `pathBase(42)`,
		},
		"pathDir with invalid input": {
			expression: `pathDir(true)`,
		},
		"pathExt with invalid input": {
			expression: `pathExt([])`,
		},
		"yamlPath with invalid file path": {
			expression: `yamlPath(123, "$.test")`,
		},
		"yamlPath with invalid yaml path": {
			expression: `yamlPath("/test.yaml", 456)`,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			// Argument type mismatches surface as compile errors.
			_, err := env.Compile(tc.expression)
			require.Error(t, err)
		})
	}
}

func TestYamlPathErrorCases(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()

	// Create an invalid YAML file.
	invalidYAMLPath := filepath.Join(tempDir, "invalid.yaml")
	require.NoError(t, os.WriteFile(invalidYAMLPath, []byte("invalid: yaml: content: ["), 0o644))

	// Create a valid YAML file for testing invalid paths.
	validYAMLPath := filepath.Join(tempDir, "valid.yaml")
	validContent := `name: test
version: 1.0`
	require.NoError(t, os.WriteFile(validYAMLPath, []byte(validContent), 0o644))

	env, err := expr.NewEnvironment()
	require.NoError(t, err)

	tcs := map[string]struct {
		expression string
	}{
		"non-existent file": {
			expression: `yamlPath("/non/existent/file.yaml", "$.name")`,
		},
		"invalid YAML path syntax": {
			expression: `yamlPath("` + validYAMLPath + `", "invalid[path")`,
		},
		"path not found in YAML": {
			expression: `yamlPath("` + validYAMLPath + `", "$.nonexistent.field")`,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			program, err := env.Compile(tc.expression)
			require.NoError(t, err)

			result, _, err := program.Eval(map[string]any{})
			require.NoError(t, err)

			// All these cases should return null instead of erroring.
			assert.Equal(t, types.NullValue, result)
		})
	}
}

func TestCELComplexDataTypes(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()

	// Create a catalog with nested structure.
	catalogContent := `
metadata:
  name: home-library
  labels:
    owner: reader
    shelf: "A1"
catalog:
  limit: 3
  books:
    - title: Dune
      year: 1965
      pages: 412
    - title: Neuromancer
      year: 1984
      pages: 271
  options:
    watch: true
    debounce: 30.5
    formats:
      - hardcover
      - paperback
      - ebook
`
	catalogPath := filepath.Join(tempDir, "catalog.yaml")
	require.NoError(t, os.WriteFile(catalogPath, []byte(catalogContent), 0o644))

	env, err := expr.NewEnvironment()
	require.NoError(t, err)

	tcs := map[string]struct {
		expected   any
		expression string
	}{
		"string value": {
			expression: `yamlPath("` + catalogPath + `", "$.metadata.name")`,
			expected:   "home-library",
		},
		"integer value": {
			expression: `yamlPath("` + catalogPath + `", "$.catalog.limit")`,
			expected:   int64(3),
		},
		"boolean value": {
			expression: `yamlPath("` + catalogPath + `", "$.catalog.options.watch")`,
			expected:   true,
		},
		"float value": {
			expression: `yamlPath("` + catalogPath + `", "$.catalog.options.debounce")`,
			expected:   30.5,
		},
		"array element": {
			expression: `yamlPath("` + catalogPath + `", "$.catalog.options.formats[0]")`,
			expected:   "hardcover",
		},
		"nested object value": {
			expression: `yamlPath("` + catalogPath + `", "$.catalog.books[0].year")`,
			expected:   int64(1965),
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			program, err := env.Compile(tc.expression)
			require.NoError(t, err)

			result, _, err := program.Eval(map[string]any{})
			require.NoError(t, err)

			switch expected := tc.expected.(type) {
			case string:
				strVal, ok := result.Value().(string)
				require.True(t, ok)
				assert.Equal(t, expected, strVal)
			case int64:
				intVal, ok := result.Value().(int64)
				require.True(t, ok)
				assert.Equal(t, expected, intVal)
			case bool:
				boolVal, ok := result.Value().(bool)
				require.True(t, ok)
				assert.Equal(t, expected, boolVal)
			case float64:
				floatVal, ok := result.Value().(float64)
				require.True(t, ok)
				assert.InDelta(t, expected, floatVal, 0.01)
			}
		})
	}
}
