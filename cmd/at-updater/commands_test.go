package main

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"at-updater/internal/mapping"
	"at-updater/internal/mnemonic"
	"at-updater/internal/rewrite"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()

	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "at-updater dev\n", out)
}

func TestRootMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "access_transformations.at")

	_, err := execute(t, "--at", path)

	var missing *rewrite.ConfigMissingError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, path, missing.Path)
}

func TestRootInvalidConfig(t *testing.T) {
	_, err := execute(t, "--log-level", "loud")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestRootRejectsArgs(t *testing.T) {
	_, err := execute(t, "extra")
	assert.Error(t, err)
}

func TestFlagsOverrideConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "at-updater.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("at_path: from-file.at\nstrict: true\n"), 0o644))

	opts := &options{}
	cmd := newRootCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--config", cfgPath, "--strict=false", "--report", "r.yaml"}))

	opts.configPath, _ = cmd.Flags().GetString("config")
	opts.strict, _ = cmd.Flags().GetBool("strict")
	opts.reportPath, _ = cmd.Flags().GetString("report")

	cfg, _, err := opts.load(cmd)
	require.NoError(t, err)

	assert.Equal(t, "from-file.at", cfg.ATPath)
	assert.False(t, cfg.Strict)
	assert.Equal(t, "r.yaml", cfg.ReportPath)
}

func TestPrintClass(t *testing.T) {
	classes, err := mapping.Build("a/B com/x/B\n\tc field_1_\n\tV func_1_ func_1_\n\te ()V func_9_\n", "1 com/x/B ()V\n")
	require.NoError(t, err)

	names := mnemonic.Table{"func_1_": "doThing", "field_1_": "health"}

	var out bytes.Buffer
	printClass(&out, classes.Lookup("com/x/B"), names)

	assert.Equal(t, "com/x/B -> a/B\n"+
		"  constructor <init> ()V\n"+
		"  method doThing func_1_ -> V func_1_\n"+
		"  method - func_9_ -> e ()V\n"+
		"  field health field_1_ -> c\n", out.String())
}

func TestNewLoggerPlainForBuffers(t *testing.T) {
	var buf bytes.Buffer

	log := newLogger(&buf, slog.LevelInfo)
	log.Debug("hidden")
	log.Info("update finished", slog.Int("outputs", 3))

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "level=INFO")
	assert.Contains(t, buf.String(), "outputs=3")
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{name: "success", err: nil, code: 0, message: ""},
		{
			name:    "missing file is a no-op",
			err:     &rewrite.ConfigMissingError{Path: "access_transformations.at"},
			code:    0,
			message: "access_transformations.at must be in current run directory\n",
		},
		{
			name:    "wrapped missing file",
			err:     fmt.Errorf("update: %w", &rewrite.ConfigMissingError{Path: "x.at"}),
			code:    0,
			message: "x.at must be in current run directory\n",
		},
		{name: "failure", err: errors.New("boom"), code: 1, message: "at-updater: boom\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer

			assert.Equal(t, tt.code, exitCode(&out, tt.err))
			assert.Equal(t, tt.message, out.String())
		})
	}
}

func TestRootMissingFileExitsCleanly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "access_transformations.at")

	_, err := execute(t, "--at", path)

	var out bytes.Buffer
	assert.Zero(t, exitCode(&out, err))
	assert.Contains(t, out.String(), "must be in current run directory")
}
