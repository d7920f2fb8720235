// Package expr provides CEL (Common Expression Language) environments
// for evaluating expressions against books and filesystem events.
//
// It creates CEL environments with custom functions for:
//   - File path operations (pathBase, pathDir, pathExt)
//   - YAML content extraction (yamlPath)
//   - Filesystem event flag checks (has macro with fs.* constants)
//
// Variables are declared by each caller, so every consumer exposes its
// own inputs. Shelf expressions receive `book` (map<string, dyn>), and
// catalog reload expressions receive `file` (string) and `fs.event` (int).
package expr
