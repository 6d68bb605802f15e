// Package updater runs one update of the access transformer file: read it,
// build both mapping tables concurrently, resolve every rule and commit the
// result.
package updater

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"at-updater/internal/cache"
	"at-updater/internal/config"
	"at-updater/internal/diagnostic"
	"at-updater/internal/fetch"
	"at-updater/internal/mapping"
	"at-updater/internal/mnemonic"
	"at-updater/internal/plan"
	"at-updater/internal/prompt"
	"at-updater/internal/rewrite"
)

// ErrUnresolvedRules is returned in strict mode when a rule failed to
// resolve. The file has already been written when it is returned.
var ErrUnresolvedRules = errors.New("unresolved rules")

// Fetcher retrieves archive entries. *fetch.Fetcher implements it.
type Fetcher interface {
	Fetch(ctx context.Context, url string, entries []string) (map[string]string, error)
}

// Deps are the run's collaborators. Zero values select the process
// defaults.
type Deps struct {
	Out      io.Writer
	Err      io.Writer
	Prompter prompt.Prompter
	Logger   *slog.Logger
	// HTTPClient overrides the client built from the configured timeout.
	HTTPClient *http.Client
	// Fetcher overrides the HTTP fetcher entirely.
	Fetcher Fetcher
}

func (d Deps) withDefaults() Deps {
	if d.Out == nil {
		d.Out = os.Stdout
	}

	if d.Err == nil {
		d.Err = os.Stderr
	}

	if d.Logger == nil {
		d.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if d.Prompter == nil {
		d.Prompter = prompt.NewStdinPrompter(d.Out)
	}

	return d
}

// Tables holds both lookup tables. They are read-only once built.
type Tables struct {
	Classes mapping.Table
	Names   mnemonic.Table
}

// Result describes a completed run.
type Result struct {
	Plan    *plan.Plan
	Written bool
}

// Run performs one update. A missing file is reported before any network
// access, and a fetch or parse failure leaves the file untouched.
func Run(ctx context.Context, cfg config.Config, deps Deps) (*Result, error) {
	deps = deps.withDefaults()
	log := deps.Logger

	file, err := rewrite.Load(cfg.ATPath)
	if err != nil {
		return nil, err
	}

	log.Debug("loaded access transformer", slog.String("path", file.Path), slog.Int("lines", len(file.Lines)))

	fetcher := deps.Fetcher
	if fetcher == nil {
		f, closeFn, err := NewFetcher(cfg, deps.HTTPClient, log)
		if err != nil {
			return nil, err
		}
		defer closeFn()

		fetcher = f
	}

	tables, err := LoadTables(ctx, fetcher, cfg, log)
	if err != nil {
		return nil, err
	}

	reporter := diagnostic.NewReporter(deps.Out, deps.Err)
	prompter := prompt.Preset{Signatures: cfg.FieldSignatures, Next: deps.Prompter}

	p := plan.NewResolver(tables.Classes, tables.Names, prompter, reporter, cfg.Resolution()).Resolve(file.Lines)
	res := &Result{Plan: p}

	if cfg.DryRun {
		if _, err := deps.Out.Write(rewrite.Render(p.Lines)); err != nil {
			return res, fmt.Errorf("writing dry run output: %w", err)
		}
	} else {
		if err := file.Commit(p.Lines); err != nil {
			return res, err
		}

		res.Written = true
	}

	if cfg.ReportPath != "" {
		if err := plan.WriteReport(p, cfg.ReportPath); err != nil {
			return res, err
		}
	}

	s := p.Summary()
	log.Info("update finished",
		slog.String("path", file.Path),
		slog.Bool("written", res.Written),
		slog.Int("rules", s.Total-s.Passthrough),
		slog.Int("resolved", s.Resolved),
		slog.Int("unresolved", s.Unresolved),
		slog.Int("dropped", s.Dropped),
		slog.Int("outputs", s.Outputs),
		slog.Int("diagnostics", p.Diagnostics.Len()))

	if cfg.Strict && p.Diagnostics.HasErrors() {
		return res, fmt.Errorf("%w: %w", ErrUnresolvedRules, p.Diagnostics.Error())
	}

	return res, nil
}

// NewFetcher builds the HTTP fetcher for cfg, opening the archive cache
// when one is configured. The returned function releases the cache.
func NewFetcher(cfg config.Config, client *http.Client, log *slog.Logger) (*fetch.Fetcher, func(), error) {
	if client == nil {
		client = &http.Client{Timeout: cfg.HTTPTimeout}
	}

	opts := []fetch.Option{
		fetch.WithClient(client),
		fetch.WithLogger(log),
		fetch.WithMaxBytes(cfg.MaxArchiveBytes),
	}

	closeFn := func() {}

	if cfg.CacheDir != "" {
		cacheCfg := cache.DefaultConfig(cfg.CacheDir)
		cacheCfg.TTL = cfg.CacheTTL
		cacheCfg.Logger = log.With(slog.String("component", "cache"))

		store, err := cache.Open(cacheCfg)
		if err != nil {
			return nil, nil, err
		}

		opts = append(opts, fetch.WithCache(store))
		closeFn = func() {
			if err := store.Close(); err != nil {
				log.Warn("closing archive cache failed", slog.String("error", err.Error()))
			}
		}
	}

	return fetch.New(opts...), closeFn, nil
}

// LoadTables fetches and parses both releases concurrently. The first
// failure cancels the other branch and is returned; no partial tables are
// returned.
func LoadTables(ctx context.Context, f Fetcher, cfg config.Config, log *slog.Logger) (*Tables, error) {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)

	var tables Tables

	g.Go(func() error {
		files, err := f.Fetch(gctx, cfg.Stable.URL, cfg.Stable.Entries())
		if err != nil {
			return err
		}

		classes, err := mapping.Build(files[cfg.Stable.JoinedEntry], files[cfg.Stable.ConstructorsEntry])
		if err != nil {
			return fmt.Errorf("building stable name table: %w", err)
		}

		tables.Classes = classes

		return nil
	})

	g.Go(func() error {
		files, err := f.Fetch(gctx, cfg.Mnemonic.URL, cfg.Mnemonic.Entries())
		if err != nil {
			return err
		}

		names, err := mnemonic.Build(files[cfg.Mnemonic.MethodsEntry], files[cfg.Mnemonic.FieldsEntry])
		if err != nil {
			return fmt.Errorf("building mnemonic table: %w", err)
		}

		tables.Names = names

		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats := tables.Classes.Stats()
	log.Info("mapping tables ready",
		slog.Int("classes", stats.Classes),
		slog.Int("methods", stats.Methods),
		slog.Int("fields", stats.Fields),
		slog.Int("constructors", stats.Constructors),
		slog.Int("mnemonics", len(tables.Names)),
		slog.Duration("took", time.Since(start)))

	return &tables, nil
}
