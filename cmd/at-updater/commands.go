package main

import (
	"cmp"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"at-updater/internal/common"
	"at-updater/internal/config"
	"at-updater/internal/mapping"
	"at-updater/internal/mnemonic"
	"at-updater/internal/prompt"
	"at-updater/internal/updater"
)

var version = "dev"

// options holds the flag values shared by all commands.
type options struct {
	configPath     string
	atPath         string
	cacheDir       string
	dropUnresolved bool
	strict         bool
	dryRun         bool
	reportPath     string
	logLevel       string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "at-updater",
		Short: "Resolve access transformer rules to obfuscated names",
		Long: `at-updater reads access_transformations.at from the current directory,
downloads the stable-name and mnemonic mapping releases, and rewrites every
rule naming a stable class and a mnemonic member into obfuscated names.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := opts.load(cmd)
			if err != nil {
				return err
			}

			_, err = updater.Run(cmd.Context(), cfg, updater.Deps{
				Out:      cmd.OutOrStdout(),
				Err:      cmd.ErrOrStderr(),
				Prompter: prompt.NewStdinPrompter(cmd.OutOrStdout()),
				Logger:   log,
			})

			return err
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "YAML configuration file")
	flags.StringVar(&opts.cacheDir, "cache-dir", "", "keep downloaded archives in this directory")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	root.Flags().StringVar(&opts.atPath, "at", "", "access transformer file to rewrite")
	root.Flags().BoolVar(&opts.dropUnresolved, "drop-unresolved", false, "remove unresolved rules instead of marking them")
	root.Flags().BoolVar(&opts.strict, "strict", false, "exit with an error when any rule is unresolved")
	root.Flags().BoolVar(&opts.dryRun, "dry-run", false, "print the result instead of writing the file")
	root.Flags().StringVar(&opts.reportPath, "report", "", "write a YAML resolution report to this path")

	root.AddCommand(newInspectCmd(opts), newVersionCmd())

	return root
}

// load builds the configuration: file and environment first, then any flag
// set on the command line.
func (o *options) load(cmd *cobra.Command) (config.Config, *slog.Logger, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return cfg, nil, err
	}

	flags := cmd.Flags()

	if flags.Changed("at") {
		cfg.ATPath = o.atPath
	}

	if flags.Changed("cache-dir") {
		cfg.CacheDir = o.cacheDir
	}

	if flags.Changed("drop-unresolved") {
		cfg.DropUnresolved = o.dropUnresolved
	}

	if flags.Changed("strict") {
		cfg.Strict = o.strict
	}

	if flags.Changed("dry-run") {
		cfg.DryRun = o.dryRun
	}

	if flags.Changed("report") {
		cfg.ReportPath = o.reportPath
	}

	if flags.Changed("log-level") {
		cfg.LogLevel = o.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return cfg, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	level, _ := cfg.Level()

	return cfg, newLogger(cmd.ErrOrStderr(), level), nil
}

func newInspectCmd(opts *options) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "inspect <stable class>",
		Short: "Show the mappings known for a class",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := opts.load(cmd)
			if err != nil {
				return err
			}

			f, closeFn, err := updater.NewFetcher(cfg, nil, log)
			if err != nil {
				return err
			}
			defer closeFn()

			tables, err := updater.LoadTables(cmd.Context(), f, cfg, log)
			if err != nil {
				return err
			}

			class := tables.Classes.Lookup(strings.ReplaceAll(args[0], ".", "/"))
			if class == nil {
				return fmt.Errorf("no class found: %s", args[0])
			}

			if raw {
				spew.Fdump(cmd.OutOrStdout(), class)
				return nil
			}

			printClass(cmd.OutOrStdout(), class, tables.Names)

			return nil
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "dump the raw mapping structure")

	return cmd
}

func printClass(w io.Writer, class *mapping.ClassMapping, names mnemonic.Table) {
	fmt.Fprintf(w, "%s -> %s\n", class.StableName, class.ObfuscatedName)

	for _, ctor := range class.ConstructorList() {
		fmt.Fprintf(w, "  constructor %s\n", ctor)
	}

	printMembers(w, "method", class.Methods, names)
	printMembers(w, "field", class.Fields, names)
}

func printMembers(w io.Writer, noun string, members map[string]string, names mnemonic.Table) {
	ids := common.SortedKeys(members)
	slices.SortStableFunc(ids, func(a, b string) int {
		return compareNames(names, a, b)
	})

	for _, id := range ids {
		name, ok := names.Name(id)
		if !ok {
			name = "-"
		}

		fmt.Fprintf(w, "  %s %s %s -> %s\n", noun, name, id, members[id])
	}
}

// compareNames orders members by mnemonic, unnamed members last.
func compareNames(names mnemonic.Table, a, b string) int {
	na, okA := names.Name(a)
	nb, okB := names.Name(b)

	switch {
	case okA && okB:
		return cmp.Compare(na, nb)
	case okA:
		return -1
	case okB:
		return 1
	default:
		return 0
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "at-updater %s\n", version)
		},
	}
}
