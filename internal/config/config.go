// Package config holds the run configuration: built-in defaults, an
// optional YAML file and AT_UPDATER_ environment overrides, applied in
// that order. Command-line flags are applied last by the caller.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"at-updater/internal/cache"
	"at-updater/internal/fetch"
	"at-updater/internal/match"
	"at-updater/internal/plan"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "AT_UPDATER_"

// Default locations of the mapping releases.
const (
	DefaultATPath            = "access_transformations.at"
	DefaultStableURL         = "http://files.minecraftforge.net/maven/de/oceanlabs/mcp/mcp_config/1.13/mcp_config-1.13.zip"
	DefaultJoinedEntry       = "config/joined.tsrg"
	DefaultConstructorsEntry = "config/constructors.txt"
	DefaultMnemonicURL       = "http://export.mcpbot.bspk.rs/mcp_snapshot_nodoc/20181106-1.13.1/mcp_snapshot_nodoc-20181106-1.13.1.zip"
	DefaultMethodsEntry      = "methods.csv"
	DefaultFieldsEntry       = "fields.csv"
)

// Config is the complete run configuration.
type Config struct {
	// ATPath is the access transformer file rewritten in place.
	ATPath string `yaml:"at_path" env:"AT_PATH"`

	Stable   StableArchive   `yaml:"stable" envPrefix:"STABLE_"`
	Mnemonic MnemonicArchive `yaml:"mnemonic" envPrefix:"MNEMONIC_"`

	// CacheDir enables the archive cache when set.
	CacheDir        string        `yaml:"cache_dir" env:"CACHE_DIR"`
	CacheTTL        time.Duration `yaml:"cache_ttl" env:"CACHE_TTL"`
	HTTPTimeout     time.Duration `yaml:"http_timeout" env:"HTTP_TIMEOUT"`
	MaxArchiveBytes int64         `yaml:"max_archive_bytes" env:"MAX_ARCHIVE_BYTES"`

	MethodPrefix string `yaml:"method_prefix" env:"METHOD_PREFIX"`
	FieldPrefix  string `yaml:"field_prefix" env:"FIELD_PREFIX"`

	DropUnresolved bool   `yaml:"drop_unresolved" env:"DROP_UNRESOLVED"`
	Strict         bool   `yaml:"strict" env:"STRICT"`
	DryRun         bool   `yaml:"dry_run" env:"DRY_RUN"`
	ReportPath     string `yaml:"report" env:"REPORT"`

	// FieldSignatures maps owner#member to the field's type signature.
	FieldSignatures map[string]string `yaml:"field_signatures" env:"FIELD_SIGNATURES"`

	LogLevel string `yaml:"log_level" env:"LOG_LEVEL"`
}

// StableArchive locates the stable-name release.
type StableArchive struct {
	URL               string `yaml:"url" env:"URL"`
	JoinedEntry       string `yaml:"joined_entry" env:"JOINED_ENTRY"`
	ConstructorsEntry string `yaml:"constructors_entry" env:"CONSTRUCTORS_ENTRY"`
}

// Entries returns the archive entries to extract.
func (a StableArchive) Entries() []string {
	return []string{a.JoinedEntry, a.ConstructorsEntry}
}

// MnemonicArchive locates the mnemonic release.
type MnemonicArchive struct {
	URL          string `yaml:"url" env:"URL"`
	MethodsEntry string `yaml:"methods_entry" env:"METHODS_ENTRY"`
	FieldsEntry  string `yaml:"fields_entry" env:"FIELDS_ENTRY"`
}

// Entries returns the archive entries to extract.
func (a MnemonicArchive) Entries() []string {
	return []string{a.MethodsEntry, a.FieldsEntry}
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		ATPath: DefaultATPath,
		Stable: StableArchive{
			URL:               DefaultStableURL,
			JoinedEntry:       DefaultJoinedEntry,
			ConstructorsEntry: DefaultConstructorsEntry,
		},
		Mnemonic: MnemonicArchive{
			URL:          DefaultMnemonicURL,
			MethodsEntry: DefaultMethodsEntry,
			FieldsEntry:  DefaultFieldsEntry,
		},
		CacheTTL:        cache.DefaultTTL,
		HTTPTimeout:     fetch.DefaultTimeout,
		MaxArchiveBytes: fetch.DefaultMaxBytes,
		MethodPrefix:    match.DefaultMethodPrefix,
		FieldPrefix:     match.DefaultFieldPrefix,
		LogLevel:        "info",
	}
}

// LoadFile reads a YAML configuration file over the defaults.
func LoadFile(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := Parse(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// Parse decodes YAML data over cfg. Unknown keys are rejected.
func Parse(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	err := dec.Decode(cfg)
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to parse config YAML: %w", err)
	}

	return nil
}

// Load builds the configuration from defaults, the optional file at path
// and the environment.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		var err error

		cfg, err = LoadFile(path)
		if err != nil {
			return cfg, err
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}

	return cfg, nil
}

// Validate checks the configuration and reports every problem found.
func (c Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.ATPath) == "" {
		errs = append(errs, errors.New("at_path must not be empty"))
	}

	errs = append(errs, validateURL("stable.url", c.Stable.URL), validateURL("mnemonic.url", c.Mnemonic.URL))

	for name, entry := range map[string]string{
		"stable.joined_entry":       c.Stable.JoinedEntry,
		"stable.constructors_entry": c.Stable.ConstructorsEntry,
		"mnemonic.methods_entry":    c.Mnemonic.MethodsEntry,
		"mnemonic.fields_entry":     c.Mnemonic.FieldsEntry,
		"method_prefix":             c.MethodPrefix,
		"field_prefix":              c.FieldPrefix,
	} {
		if strings.TrimSpace(entry) == "" {
			errs = append(errs, fmt.Errorf("%s must not be empty", name))
		}
	}

	if c.HTTPTimeout <= 0 {
		errs = append(errs, fmt.Errorf("http_timeout must be positive, got %s", c.HTTPTimeout))
	}

	if c.CacheTTL < 0 {
		errs = append(errs, fmt.Errorf("cache_ttl must not be negative, got %s", c.CacheTTL))
	}

	if c.MaxArchiveBytes <= 0 {
		errs = append(errs, fmt.Errorf("max_archive_bytes must be positive, got %d", c.MaxArchiveBytes))
	}

	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

func validateURL(name, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must be an http or https URL, got %q", name, raw)
	}

	return nil
}

// Level returns the configured log level.
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log_level: %w", err)
	}

	return level, nil
}

// Resolution returns the resolution settings.
func (c Config) Resolution() plan.ResolutionConfig {
	rc := plan.DefaultConfig()
	rc.MethodPrefix = c.MethodPrefix
	rc.FieldPrefix = c.FieldPrefix

	if c.DropUnresolved {
		rc.Policy = plan.PolicyDrop
	}

	return rc
}
