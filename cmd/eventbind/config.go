package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/randalmurphal/eventbind/pkg/eventbind/config"
	"github.com/randalmurphal/eventbind/pkg/eventbind/dispatch"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Work with dispatcher configuration files",
	}
	cmd.AddCommand(newConfigCheckCmd())
	return cmd
}

func newConfigCheckCmd() *cobra.Command {
	var withEnv bool

	cmd := &cobra.Command{
		Use:   "check <file>",
		Short: "Load and validate a configuration file",
		Long: `Load a YAML, JSON or TOML configuration file, validate it and build a
dispatcher from it. The configured journal is opened and closed again, so
an unwritable sqlite path is reported here. With --env, EVENTBIND_*
environment variables override the file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromFile(args[0])
			if err != nil {
				return err
			}
			if withEnv {
				if cfg, err = config.ApplyEnv(cfg); err != nil {
					return err
				}
			}

			d, err := dispatch.FromConfig(cfg)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			if err := d.Close(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			t := newTable(out)
			t.AppendHeader(table.Row{"Setting", "Value"})
			t.AppendRows([]table.Row{
				{"scope_filter_order", cfg.ScopeFilterOrder},
				{"log_level", cfg.LogLevel},
				{"metrics", cfg.Metrics},
				{"tracing", cfg.Tracing},
				{"stop_on_error", cfg.StopOnError},
				{"journal.driver", cfg.Journal.Driver},
				{"journal.path", cfg.Journal.Path},
				{"journal.max_entries", cfg.Journal.MaxEntries},
			})
			t.Render()
			fmt.Fprintf(out, "%s %s is valid\n", text.FgGreen.Sprint("✓"), args[0])
			return nil
		},
	}
	cmd.Flags().BoolVar(&withEnv, "env", false, "apply EVENTBIND_* environment overrides")
	return cmd
}
