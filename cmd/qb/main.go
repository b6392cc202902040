// Package main provides qb, a command that compiles YAML query descriptions
// into SQL for the configured dialect.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	querybuilder "github.com/Mahmoud1478/go-query-builder"
	"github.com/Mahmoud1478/go-query-builder/config"
	"github.com/Mahmoud1478/go-query-builder/dialect"
	"github.com/Mahmoud1478/go-query-builder/internal/render"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app is the state shared by the subcommands once configuration is loaded.
type app struct {
	cfgFile string
	db      *querybuilder.DB
	logger  *slog.Logger
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "qb",
		Short: "Compile query descriptions into SQL",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "dialects" || cmd.Name() == "help" {
				return nil
			}

			cfg, err := config.Load(a.cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}

			level := slog.LevelInfo
			if cfg.Verbose {
				level = slog.LevelDebug
			}
			a.logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

			// An unknown dialect is fatal before any statement is built.
			d, err := cfg.Dialect()
			if err != nil {
				return err
			}
			a.logger.Debug("qb: configuration loaded", "driver", d.Name(), "env", cfg.Env)
			a.db = querybuilder.New(d, querybuilder.WithLogger(a.logger))
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (yaml)")
	rootCmd.PersistentFlags().String("driver", "", "SQL dialect: "+strings.Join(dialect.Names(), ", "))
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")

	rootCmd.AddCommand(newRenderCmd(a), newDialectsCmd())
	return rootCmd
}

func newRenderCmd(a *app) *cobra.Command {
	var raw bool
	cmd := &cobra.Command{
		Use:   "render <query.yaml>",
		Short: "Compile a query description and print the statement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			desc, err := render.Load(args[0])
			if err != nil {
				return err
			}
			outs, err := desc.Compile(a.db)
			if err != nil {
				return fmt.Errorf("compile %s: %w", args[0], err)
			}
			return render.Write(cmd.OutOrStdout(), a.db.Dialect(), outs, raw)
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "Inline bound values (inspection only, no escaping)")
	return cmd
}

func newDialectsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dialects",
		Short: "List the accepted dialect names",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			for _, name := range dialect.Names() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
		},
	}
}
