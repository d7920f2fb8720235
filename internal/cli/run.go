package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/foliolib/folio/api/v1/catalogs"
	"github.com/foliolib/folio/api/v1/configs"
	"github.com/foliolib/folio/pkg/catalog"
	"github.com/foliolib/folio/pkg/config"
	"github.com/foliolib/folio/pkg/log"
	"github.com/foliolib/folio/pkg/ui"
	"github.com/foliolib/folio/pkg/ui/common"
	"github.com/foliolib/folio/pkg/ui/theme"
	"github.com/foliolib/folio/pkg/ui/themes"
	"github.com/foliolib/folio/pkg/window"
)

const (
	cmdExamples = `  # Browse the catalog in the current directory:
  folio

  # Browse a specific catalog file:
  folio ./library/catalog.yaml

  # Watch for changes and reload:
  folio ./library/catalog.yaml --watch

  # Read a catalog from stdin:
  cat catalog.yaml | folio -

  # Send the first page to a file (disables TUI):
  folio ./library/catalog.yaml > books.txt`
)

type RunArgs struct {
	*RootArgs

	Path       string
	StdinData  []byte
	ConfigPath string
	ThemeMode  string
	PageSize   int
	Watch      bool
	Plain      bool
	Compact    bool
}

func NewRunArgs(rootArgs *RootArgs) *RunArgs {
	return &RunArgs{
		RootArgs: rootArgs,
	}
}

func (ra *RunArgs) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&ra.ConfigPath, "config", "", "Path to the folio configuration file")
	cmd.Flags().StringVar(&ra.ThemeMode, "theme-mode", "", "Theme mode, one of: day, night, auto")
	cmd.Flags().IntVar(&ra.PageSize, "page-size", 0, "Number of books materialized per load")
	cmd.Flags().BoolVarP(&ra.Watch, "watch", "w", false, "Watch the catalog file and reload on changes")
	cmd.Flags().BoolVar(&ra.Plain, "plain", false, "Print the first page of the catalog and exit")
	cmd.Flags().BoolVar(&ra.Compact, "compact", false, "Render one line per book in the browse view")

	err := cmd.MarkFlagFilename("config", "yaml", "yml")
	if err != nil {
		panic(fmt.Errorf("mark config flag: %w", err))
	}

	err = cmd.RegisterFlagCompletionFunc("theme-mode",
		cobra.FixedCompletions([]string{"day", "night", "auto"}, cobra.ShellCompDirectiveNoFileComp),
	)
	if err != nil {
		panic(fmt.Errorf("register theme-mode completion: %w", err))
	}
}

func NewRunCmd(ra *RunArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:               "run [catalog]",
		Short:             "Default command, can be used explicitly if the catalog path is ambiguous",
		Example:           cmdExamples,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: runCompletion(),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				ra.Path = args[0]
			}

			return run(cmd, ra)
		},
	}
	ra.AddFlags(cmd)

	bindEnvVars(cmd)

	return cmd
}

func runCompletion() func(*cobra.Command, []string, string) ([]cobra.Completion, cobra.ShellCompDirective) {
	return func(_ *cobra.Command, args []string, _ string) ([]cobra.Completion, cobra.ShellCompDirective) {
		// Only the catalog path is completable.
		if len(args) == 0 {
			return []cobra.Completion{"yaml", "yml"}, cobra.ShellCompDirectiveFilterFileExt
		}

		return nil, cobra.ShellCompDirectiveNoFileComp
	}
}

func run(cmd *cobra.Command, rc *RunArgs) error {
	if rc.Path == "-" {
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}

		rc.StdinData = b
	}

	cfg, err := loadConfig(rc)
	if err != nil {
		return err
	}

	applyFlagOverrides(cfg, rc)

	err = themes.RegisterBuiltin()
	if err != nil {
		return fmt.Errorf("register themes: %w", err)
	}

	src, err := setupSource(rc, cfg)
	if err != nil {
		return fmt.Errorf("create catalog source: %w", err)
	}

	// If stdout is not a terminal, print instead of starting the TUI.
	if rc.Plain || !term.IsTerminal(int(os.Stdout.Fd())) {
		return writePlainOutput(cmd, src, cfg.UI.PageSize)
	}

	// While the TUI owns the terminal, capture log records and flush
	// them once it exits.
	logBuf := log.NewCircularBuffer(100)
	logHandler, err := log.CreateHandlerWithStrings(logBuf, rc.LogLevel, rc.LogFormat)
	if err != nil {
		return fmt.Errorf("create log handler: %w", err)
	}

	slog.SetDefault(slog.New(logHandler))

	err = runUI(cfg, src)
	if err != nil {
		slog.Error("run UI", slog.Any("err", err))
		flushLogs(cmd.ErrOrStderr(), logBuf)

		return fmt.Errorf("ui program failure: %w", err)
	}

	flushLogs(cmd.ErrOrStderr(), logBuf)

	return nil
}

// loadConfig reads the global configuration, writing the default one first
// if none exists yet.
func loadConfig(rc *RunArgs) (*configs.Config, error) {
	cfg := configs.New()

	configPath := rc.ConfigPath
	if configPath == "" {
		configPath = configs.GetPath()
	}

	err := configs.WriteDefault(configPath, false)
	if err != nil {
		slog.Error("write default config", slog.Any("err", err))
	}

	cl, err := config.NewLoaderFromFile(configPath, configs.New, configs.DefaultValidator, config.WithThemeFromData())
	if err != nil {
		slog.Warn("could not read config, using defaults", slog.Any("err", err))

		return cfg, nil
	}

	err = cl.Validate()
	if err != nil {
		return nil, fmt.Errorf("invalid config %q: %w", configPath, err)
	}

	cfg, err = cl.Load()
	if err != nil {
		return nil, fmt.Errorf("invalid config %q: %w", configPath, err)
	}

	err = cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("invalid config %q: %w", configPath, err)
	}

	return cfg, nil
}

// applyFlagOverrides lets command line flags win over config file values.
func applyFlagOverrides(cfg *configs.Config, rc *RunArgs) {
	if rc.ThemeMode != "" {
		cfg.UI.ThemeMode = theme.Mode(rc.ThemeMode)
	}
	if rc.PageSize > 0 {
		cfg.UI.PageSize = rc.PageSize
	}
	if rc.Compact {
		compact := true
		cfg.UI.Compact = &compact
	}
	if rc.Watch {
		cfg.Catalog.Watch = &rc.Watch
	}
}

// setupSource creates the catalog source from stdin data, the path
// argument, or the configured catalog location.
func setupSource(rc *RunArgs, cfg *configs.Config) (common.CatalogSource, error) {
	if len(rc.StdinData) > 0 {
		return catalog.NewStatic(rc.StdinData)
	}

	path := rc.Path
	if path == "" {
		path = cfg.Catalog.Path
	}
	if path == "" {
		found, err := catalogs.Find(".")
		if err == nil && found != "" {
			path = found
		}
	}
	if path == "" {
		slog.Warn("no catalog found, using the starter catalog")

		return catalog.NewDefault(), nil
	}

	opts := []catalog.LoaderOpt{catalog.WithWatch(*cfg.Catalog.Watch)}

	if cfg.Catalog.ReloadFilter != "" {
		rf, err := catalog.NewReloadFilter(cfg.Catalog.ReloadFilter)
		if err != nil {
			return nil, fmt.Errorf("invalid reload filter: %w", err)
		}

		opts = append(opts, catalog.WithReloadFilter(rf))
	}

	return catalog.NewLoader(path, opts...)
}

// writePlainOutput prints the first page of the catalog without the TUI.
func writePlainOutput(cmd *cobra.Command, src common.CatalogSource, pageSize int) error {
	out := src.Load()
	if out.Error != nil {
		return fmt.Errorf("load catalog: %w", out.Error)
	}

	win := window.New(out.Books, window.WithPageSize(pageSize))

	books, remaining, err := win.LoadFirst()
	if err != nil {
		return fmt.Errorf("page catalog: %w", err)
	}

	w := cmd.OutOrStdout()
	for _, b := range books {
		mustN(fmt.Fprintf(w, "%s · %s · %d\n", b.Title, b.Author, b.Year))
	}

	if remaining > 0 {
		mustN(fmt.Fprintf(cmd.ErrOrStderr(), "%s more books not shown\n", humanize.Comma(int64(remaining))))
	}

	return nil
}

func flushLogs(w io.Writer, buf *log.CircularBuffer) {
	slog.Debug("flush logs to console",
		slog.Int("count", buf.Size()),
		slog.Int("max", buf.Capacity()),
		slog.Bool("truncated", buf.IsFull()),
	)

	_, err := buf.WriteTo(w)
	if err != nil {
		panic(err)
	}
}

// runUI starts the UI program.
func runUI(cfg *configs.Config, src common.CatalogSource) error {
	p := ui.NewProgram(cfg.UI, src, cfg.Shelves)

	_, err := p.Run()
	if err != nil {
		return fmt.Errorf("tea: %w", err)
	}

	return nil
}
