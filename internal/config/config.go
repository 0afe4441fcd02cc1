// Package config resolves the run configuration from command-line flags,
// COLSTAT_* environment variables, and an optional YAML file. Explicitly
// set flags win over the environment, which wins over the file, which
// wins over flag defaults.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Input modes.
const (
	ModeText   = "text"
	ModeSQLite = "sqlite"
)

const envPrefix = "COLSTAT_"

// Config is every user-settable knob for one run.
type Config struct {
	// Input is the collection database or flat export to read.
	Input string `koanf:"input" validate:"required"`
	// Mode selects the reader; empty means infer from the extension.
	Mode string `koanf:"mode" validate:"required,oneof=text sqlite"`
	// MaxRows caps how many rows each report table prints.
	MaxRows int `koanf:"max-rows" validate:"min=1"`
	// CorrectedRetrievability measures recall probability against the
	// current instant rather than the next day boundary.
	CorrectedRetrievability bool   `koanf:"corrected-retrievability"`
	LogLevel                string `koanf:"log-level" validate:"required,oneof=debug info warn error fatal"`
	LogFile                 string `koanf:"log-file"`
}

// DefineFlags registers every configuration key on the flag set. The
// flag defaults are the configuration defaults.
func DefineFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "path to a YAML config file")
	fs.StringP("input", "i", "", "collection database or flat export to read")
	fs.StringP("mode", "m", "", "input mode: text or sqlite (default: by file extension)")
	fs.Int("max-rows", 60, "maximum rows to print per table")
	fs.Bool("corrected-retrievability", false, "measure retrievability at the current instant instead of the next day boundary")
	fs.String("log-level", "info", "log level: debug, info, warn, error, or fatal")
	fs.String("log-file", "", "also write logs to this rotating file")
}

// Load resolves the configuration from the parsed flag set.
func Load(flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if path, _ := flags.GetString("config"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	if err := k.Load(env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(key, value string) (string, any) {
			key = strings.TrimPrefix(key, envPrefix)
			key = strings.ReplaceAll(strings.ToLower(key), "_", "-")
			return key, value
		},
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
		return nil, fmt.Errorf("failed to load flags: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Mode == "" && cfg.Input != "" {
		mode, err := DetectMode(cfg.Input)
		if err != nil {
			return nil, err
		}
		cfg.Mode = mode
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// DetectMode infers the input mode from the file extension.
func DetectMode(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".tsv":
		return ModeText, nil
	case ".anki2", ".anki21", ".db", ".sqlite":
		return ModeSQLite, nil
	default:
		return "", fmt.Errorf("cannot infer input mode from %q; pass --mode", filepath.Base(path))
	}
}
