package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/foliolib/folio/api/v1/configs"
	"github.com/foliolib/folio/pkg/config"
	"github.com/foliolib/folio/pkg/ui/record"
)

// NewConfigCmd returns the `folio config` command group.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the folio configuration",
	}

	cmd.AddCommand(
		newConfigInitCmd(),
		newConfigPathCmd(),
		newConfigShowCmd(),
		newConfigSchemaCmd(),
	)

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write the default configuration file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := configs.GetPath()
			if len(args) > 0 {
				path = args[0]
			}

			err := configs.WriteDefault(path, force)
			if err != nil {
				return err //nolint:wrapcheck // Already wrapped.
			}

			mustN(fmt.Fprintln(cmd.OutOrStdout(), path))

			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing configuration, keeping a backup")

	return cmd
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mustN(fmt.Fprintln(cmd.OutOrStdout(), configs.GetPath()))

			return nil
		},
	}
}

func newConfigShowCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the active configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if configPath == "" {
				configPath = configs.GetPath()
			}

			cl, err := config.NewLoaderFromFile(
				configPath, configs.New, configs.DefaultValidator, config.WithThemeFromData(),
			)
			if err != nil {
				return err //nolint:wrapcheck // Return the original error.
			}

			cfg, err := cl.Load()
			if err != nil {
				return fmt.Errorf("load config %q: %w", configPath, err)
			}

			b, err := cfg.MarshalYAML()
			if err != nil {
				return fmt.Errorf("marshal config yaml: %w", err)
			}

			cr := record.NewChromaRenderer(cl.GetTheme(), record.WithoutLineNumbers())
			pretty, err := cr.RenderContent(string(b), 0)
			if err != nil {
				mustN(fmt.Fprintln(cmd.OutOrStdout(), string(b)))

				return err //nolint:wrapcheck // Plain output was already written.
			}

			mustN(fmt.Fprintln(cmd.OutOrStdout(), pretty))

			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to the folio configuration file")

	return cmd
}

func newConfigSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the configuration JSON schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mustN(cmd.OutOrStdout().Write(configs.Schema()))

			return nil
		},
	}
}
