package catalog

import (
	"fmt"
	"log/slog"

	"github.com/fsnotify/fsnotify"
	"github.com/google/cel-go/cel"

	"github.com/foliolib/folio/pkg/expr"
)

// ReloadFilter uses a CEL matcher to decide whether a filesystem event on
// the watched catalog triggers a reload.
//
// CEL expressions have access to variables:
//   - `file` (string): The file path that triggered the event
//   - `fs.event` (int): The event type, at least one of `fs.CREATE`,
//     `fs.WRITE`, `fs.REMOVE`, `fs.RENAME`, `fs.CHMOD`
//
// CEL expressions must return a boolean value:
//   - fs.event.has(fs.WRITE, fs.RENAME) - reload for write or rename events
//   - pathExt(file) in [".yaml", ".yml"] - reload only for YAML files
//   - pathBase(file) != "scratch.yaml" - skip reloads for a scratch file
//   - yamlPath(file, "$.kind") == "Catalog" - reload only when the file still
//     holds a catalog document
//
// With no filter configured the loader reloads on every content event.
type ReloadFilter struct {
	program cel.Program

	// Expr is the CEL expression evaluated against each event.
	Expr string
}

// NewReloadFilter compiles a reload filter from a CEL expression.
func NewReloadFilter(expression string) (*ReloadFilter, error) {
	env, err := expr.NewEnvironment(
		cel.Variable("file", cel.StringType),
		cel.Variable("fs.event", cel.IntType),
	)
	if err != nil {
		return nil, fmt.Errorf("create CEL environment: %w", err)
	}

	program, err := env.Compile(expression)
	if err != nil {
		return nil, fmt.Errorf("compile reload filter: %w", err)
	}

	return &ReloadFilter{program: program, Expr: expression}, nil
}

// Matches evaluates the filter against a filesystem event. Evaluation
// failures and non-boolean results suppress the reload, with the cause
// logged.
func (f *ReloadFilter) Matches(path string, op fsnotify.Op) bool {
	result, _, err := f.program.Eval(map[string]any{
		"file":     path,
		"fs.event": int64(op),
	})
	if err != nil {
		slog.Warn("evaluate reload filter",
			slog.String("expr", f.Expr),
			slog.Any("err", err),
		)

		return false
	}

	boolVal, ok := result.Value().(bool)
	if !ok {
		slog.Warn("reload filter did not return a boolean",
			slog.String("expr", f.Expr),
		)

		return false
	}

	return boolVal
}

func (f *ReloadFilter) String() string {
	return f.Expr
}
