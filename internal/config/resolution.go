package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/dkoosis/btfilter/internal/logging"
	"github.com/dkoosis/btfilter/pkg/filter"
)

// Environment variables.
const (
	EnvConfig  = "BTFILTER_CONFIG"
	EnvTheme   = "BTFILTER_THEME"
	EnvNoColor = "BTFILTER_NO_COLOR"
)

// Defaults.
const (
	DefaultTheme  = "default"
	DefaultFormat = "auto"
)

// Value sources, recorded for --debug output.
const (
	SourceCLI     = "cli"
	SourceEnv     = "env"
	SourceFile    = "file"
	SourceDefault = "default"
)

// CliFlags holds command-line values. The *Set fields record whether the
// user passed the flag explicitly.
type CliFlags struct {
	ConfigPath string
	Theme      string
	NoColor    bool
	Format     string
	SystemPath string
	Debug      bool

	NoColorSet bool
	DebugSet   bool
}

// Resolved is the final configuration after applying precedence rules.
type Resolved struct {
	// File is the parsed config file, empty when none was found.
	File *FileConfig
	Path string

	Theme      string
	NoColor    bool
	Format     string
	SystemPath string
	Prefixes   []string
	Debug      bool

	ThemeSource   string
	NoColorSource string
	FormatSource  string

	// Warnings collects non-fatal problems, such as an unreadable config
	// file that was found by search rather than named explicitly.
	Warnings []string
}

// Resolve merges flags, environment and config file onto the defaults.
// A config file named by --config or BTFILTER_CONFIG must load; a file found
// by search that fails to load is reported in Warnings and ignored.
func Resolve(flags CliFlags) (*Resolved, error) {
	r := &Resolved{
		File:          &FileConfig{},
		Theme:         DefaultTheme,
		Format:        DefaultFormat,
		SystemPath:    filter.DefaultSystemPath,
		ThemeSource:   SourceDefault,
		NoColorSource: SourceDefault,
		FormatSource:  SourceDefault,
	}

	explicit := flags.ConfigPath
	if explicit == "" {
		explicit = os.Getenv(EnvConfig)
	}
	if explicit != "" {
		cfg, err := Load(explicit)
		if err != nil {
			return nil, err
		}
		r.File, r.Path = cfg, explicit
	} else if found := FindPath(); found != "" {
		cfg, err := Load(found)
		if err != nil {
			r.Warnings = append(r.Warnings, fmt.Sprintf("ignoring %s: %v", found, err))
		} else {
			r.File, r.Path = cfg, found
		}
	}

	file := r.File
	if file.Theme != "" {
		r.Theme, r.ThemeSource = file.Theme, SourceFile
	}
	if file.NoColor != nil {
		r.NoColor, r.NoColorSource = *file.NoColor, SourceFile
	}
	if file.Format != "" {
		r.Format, r.FormatSource = file.Format, SourceFile
	}
	if file.SystemPath != "" {
		r.SystemPath = file.SystemPath
	}
	if file.Prefixes != nil {
		r.Prefixes = append([]string(nil), file.Prefixes...)
	}
	r.Debug = file.Debug

	if v := os.Getenv(EnvTheme); v != "" {
		r.Theme, r.ThemeSource = v, SourceEnv
	}
	if v := getEnvBool(EnvNoColor, "NO_COLOR"); v != nil {
		r.NoColor, r.NoColorSource = *v, SourceEnv
	}
	if logging.DebugFromEnv() {
		r.Debug = true
	}

	if flags.Theme != "" {
		r.Theme, r.ThemeSource = flags.Theme, SourceCLI
	}
	if flags.NoColorSet {
		r.NoColor, r.NoColorSource = flags.NoColor, SourceCLI
	}
	if flags.Format != "" {
		r.Format, r.FormatSource = flags.Format, SourceCLI
	}
	if flags.SystemPath != "" {
		r.SystemPath = flags.SystemPath
	}
	if flags.DebugSet {
		r.Debug = flags.Debug
	}

	if err := validate(r); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return r, nil
}

// getEnvBool reads a boolean from environment variables, trying multiple keys.
// Returns nil if none are set. NO_COLOR follows the no-color.org convention:
// any non-empty value that is not a boolean counts as true.
func getEnvBool(keys ...string) *bool {
	for _, key := range keys {
		val := os.Getenv(key)
		if val == "" {
			continue
		}
		b, err := strconv.ParseBool(val)
		if err != nil {
			b = true
		}
		return &b
	}
	return nil
}

func validate(r *Resolved) error {
	switch r.Format {
	case "auto", "terminal", "plain", "json":
	default:
		return fmt.Errorf("invalid format %q (must be: auto, terminal, plain, json)", r.Format)
	}
	switch r.Theme {
	case "default", "orca", "mono":
	default:
		return fmt.Errorf("invalid theme %q (must be: default, orca, mono)", r.Theme)
	}
	return nil
}
