package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"funlang/internal/logging"
	"funlang/internal/project"
)

// settings is the merge of funlang.toml and the command line; flags the
// user set explicitly win over the manifest.
type settings struct {
	colorErr       bool // stderr
	colorOut       bool // stdout
	quiet          bool
	timings        bool
	diagFormat     string
	maxDiagnostics int
	jobs           int
	cache          bool
	manifest       *project.Manifest // nil без funlang.toml
	baseDir        string
	log            *zap.Logger
	stdout         io.Writer
	stderr         io.Writer
}

func loadSettings(cmd *cobra.Command) (*settings, error) {
	flags := cmd.Root().PersistentFlags()

	configPath, err := flags.GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	manifest, err := loadManifest(configPath)
	if err != nil {
		return nil, err
	}
	cfg := project.Defaults()
	if manifest != nil {
		cfg = manifest.Config
	}

	s := &settings{
		maxDiagnostics: cfg.Build.MaxDiagnostics,
		jobs:           cfg.Build.Jobs,
		cache:          cfg.Build.Cache,
		manifest:       manifest,
		stdout:         cmd.OutOrStdout(),
		stderr:         cmd.ErrOrStderr(),
	}
	if flags.Changed("max-diagnostics") {
		if s.maxDiagnostics, err = flags.GetInt("max-diagnostics"); err != nil {
			return nil, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
		}
	}
	if s.quiet, err = flags.GetBool("quiet"); err != nil {
		return nil, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if s.timings, err = flags.GetBool("timings"); err != nil {
		return nil, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if s.diagFormat, err = readChoice(flags, "diag-format", "pretty", "json", "short"); err != nil {
		return nil, err
	}
	colorMode, err := readChoice(flags, "color", "auto", "on", "off")
	if err != nil {
		return nil, err
	}
	s.colorErr = colorEnabledFor(colorMode, s.stderr)
	s.colorOut = colorEnabledFor(colorMode, s.stdout)

	if s.baseDir, err = os.Getwd(); err != nil {
		return nil, err
	}

	logCfg := logging.DefaultConfig()
	logCfg.Level, logCfg.File = cfg.Log.Level, cfg.Log.File
	if flags.Changed("log-level") {
		logCfg.Level, _ = flags.GetString("log-level")
	}
	if flags.Changed("log-file") {
		logCfg.File, _ = flags.GetString("log-file")
	}
	if manifest != nil && logCfg.File != "" && !filepath.IsAbs(logCfg.File) && !flags.Changed("log-file") {
		logCfg.File = filepath.Join(manifest.Root, logCfg.File)
	}
	if s.log, err = logging.New(logCfg); err != nil {
		return nil, err
	}
	if manifest != nil {
		s.log.Debug("manifest loaded", zap.String("path", manifest.Path))
	}
	return s, nil
}

// close flushes the logger; zap reports harmless sync errors on terminals.
func (s *settings) close() {
	_ = s.log.Sync()
}

func loadManifest(configPath string) (*project.Manifest, error) {
	if configPath != "" {
		cfg, err := project.LoadFile(configPath)
		if err != nil {
			return nil, err
		}
		return &project.Manifest{Path: configPath, Root: filepath.Dir(configPath), Config: cfg}, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	manifest, ok, err := project.Load(wd)
	if err != nil || !ok {
		return nil, err
	}
	return manifest, nil
}

func readChoice(flags *pflag.FlagSet, name string, allowed ...string) (string, error) {
	value, err := flags.GetString(name)
	if err != nil {
		return "", fmt.Errorf("failed to get %s flag: %w", name, err)
	}
	value = strings.ToLower(strings.TrimSpace(value))
	for _, a := range allowed {
		if value == a {
			return value, nil
		}
	}
	return "", fmt.Errorf("invalid --%s value %q (expected %s)", name, value, strings.Join(allowed, "|"))
}

// colorEnabledFor is colorEnabled for writers that may not be files.
func colorEnabledFor(mode string, w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return mode == "on"
	}
	return colorEnabled(mode, f)
}

func colorEnabled(mode string, f *os.File) bool {
	switch mode {
	case "on":
		return true
	case "off":
		return false
	default:
		return isTerminal(f) && os.Getenv("NO_COLOR") == ""
	}
}
