package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoosis/btfilter/pkg/color"
	"github.com/dkoosis/btfilter/pkg/filter"
)

// isolate moves the test into an empty directory with no user config.
func isolate(t *testing.T) string {
	t.Helper()
	tempDir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(tempDir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tempDir, "xdg"))
	t.Setenv("HOME", filepath.Join(tempDir, "home"))
	for _, k := range []string{EnvConfig, EnvTheme, EnvNoColor, "NO_COLOR", "BTFILTER_DEBUG"} {
		t.Setenv(k, "")
	}
	return tempDir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestFindPath_ReturnsLocalConfig_When_FileExists(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, FileName), "theme: orca\n")

	assert.Equal(t, FileName, FindPath())
}

func TestFindPath_UsesXDGPath_When_LocalMissing(t *testing.T) {
	dir := isolate(t)
	xdgPath := filepath.Join(dir, "xdg", "btfilter", FileName)
	writeFile(t, xdgPath, "theme: orca\n")

	assert.Equal(t, xdgPath, FindPath())
}

func TestFindPath_ReturnsEmpty_When_NoConfigAvailable(t *testing.T) {
	isolate(t)
	assert.Equal(t, "", FindPath())
}

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(`
theme: mono
no_color: true
system_path: /opt/toolchain
prefixes: [acme, std]
colors:
  argument: {foreground: red, intensity: bold}
filters:
  elide_std: {enabled: false}
  colorize: {priority: 7}
`))
	require.NoError(t, err)
	assert.Equal(t, "mono", cfg.Theme)
	require.NotNil(t, cfg.NoColor)
	assert.True(t, *cfg.NoColor)
	assert.Equal(t, "/opt/toolchain", cfg.SystemPath)
	assert.Equal(t, []string{"acme", "std"}, cfg.Prefixes)
	assert.Equal(t, ItemConfig{Intensity: "bold", Foreground: "red"}, cfg.Colors["argument"])
	require.NotNil(t, cfg.Filters["elide_std"].Enabled)
	assert.False(t, *cfg.Filters["elide_std"].Enabled)
	require.NotNil(t, cfg.Filters["colorize"].Priority)
	assert.Equal(t, 7, *cfg.Filters["colorize"].Priority)
}

func TestParse_Empty(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, &FileConfig{}, cfg)
}

func TestParse_UnknownField(t *testing.T) {
	_, err := Parse([]byte("colour: red\n"))
	assert.Error(t, err)
}

func TestResolve_Defaults(t *testing.T) {
	isolate(t)
	r, err := Resolve(CliFlags{})
	require.NoError(t, err)

	assert.Equal(t, DefaultTheme, r.Theme)
	assert.Equal(t, DefaultFormat, r.Format)
	assert.Equal(t, filter.DefaultSystemPath, r.SystemPath)
	assert.False(t, r.NoColor)
	assert.Nil(t, r.Prefixes)
	assert.Equal(t, SourceDefault, r.ThemeSource)
	assert.Empty(t, r.Path)
}

func TestResolve_PriorityOrder(t *testing.T) {
	tests := []struct {
		name              string
		file              string
		env               map[string]string
		flags             CliFlags
		wantTheme         string
		wantThemeSource   string
		wantNoColor       bool
		wantNoColorSource string
	}{
		{
			name:              "file over defaults",
			file:              "theme: orca\nno_color: true\n",
			wantTheme:         "orca",
			wantThemeSource:   SourceFile,
			wantNoColor:       true,
			wantNoColorSource: SourceFile,
		},
		{
			name:              "env over file",
			file:              "theme: orca\nno_color: false\n",
			env:               map[string]string{EnvTheme: "mono", "NO_COLOR": "1"},
			wantTheme:         "mono",
			wantThemeSource:   SourceEnv,
			wantNoColor:       true,
			wantNoColorSource: SourceEnv,
		},
		{
			name:              "cli over env",
			env:               map[string]string{EnvTheme: "mono", EnvNoColor: "true"},
			flags:             CliFlags{Theme: "orca", NoColor: false, NoColorSet: true},
			wantTheme:         "orca",
			wantThemeSource:   SourceCLI,
			wantNoColor:       false,
			wantNoColorSource: SourceCLI,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := isolate(t)
			if tt.file != "" {
				writeFile(t, filepath.Join(dir, FileName), tt.file)
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			r, err := Resolve(tt.flags)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTheme, r.Theme)
			assert.Equal(t, tt.wantThemeSource, r.ThemeSource)
			assert.Equal(t, tt.wantNoColor, r.NoColor)
			assert.Equal(t, tt.wantNoColorSource, r.NoColorSource)
		})
	}
}

func TestResolve_ExplicitConfigMustLoad(t *testing.T) {
	dir := isolate(t)
	_, err := Resolve(CliFlags{ConfigPath: filepath.Join(dir, "missing.yaml")})
	assert.Error(t, err)

	t.Setenv(EnvConfig, filepath.Join(dir, "also-missing.yaml"))
	_, err = Resolve(CliFlags{})
	assert.Error(t, err)
}

func TestResolve_BrokenDiscoveredFileIsWarning(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, FileName), "theme: [unclosed\n")

	r, err := Resolve(CliFlags{})
	require.NoError(t, err)
	require.Len(t, r.Warnings, 1)
	assert.Contains(t, r.Warnings[0], FileName)
	assert.Equal(t, DefaultTheme, r.Theme)
}

func TestResolve_InvalidValues(t *testing.T) {
	isolate(t)
	_, err := Resolve(CliFlags{Format: "html"})
	assert.ErrorContains(t, err, "invalid format")

	_, err = Resolve(CliFlags{Theme: "neon"})
	assert.ErrorContains(t, err, "invalid theme")
}

func TestResolve_DebugAndSystemPath(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, FileName), "system_path: /opt\nprefixes: [acme]\n")
	t.Setenv("BTFILTER_DEBUG", "1")

	r, err := Resolve(CliFlags{})
	require.NoError(t, err)
	assert.True(t, r.Debug)
	assert.Equal(t, "/opt", r.SystemPath)
	assert.Equal(t, []string{"acme"}, r.Prefixes)

	r, err = Resolve(CliFlags{SystemPath: "/nix", Debug: false, DebugSet: true})
	require.NoError(t, err)
	assert.False(t, r.Debug)
	assert.Equal(t, "/nix", r.SystemPath)
}

func TestApplyColors_RejectsInvalidKeepsPrevious(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, FileName), `
colors:
  argument: {foreground: chartreuse, background: blue}
  frame: {foreground: red}
`)
	r, err := Resolve(CliFlags{})
	require.NoError(t, err)

	reg := color.NewRegistry()
	errs := r.ApplyColors(reg)
	require.Len(t, errs, 2)
	assert.ErrorIs(t, errs[0], color.ErrInvalidValue)
	assert.ErrorIs(t, errs[1], color.ErrUnknownItem)

	fg, _ := reg.Get(color.ItemArgument, color.AttrForeground)
	bg, _ := reg.Get(color.ItemArgument, color.AttrBackground)
	assert.Equal(t, "yellow", fg)
	assert.Equal(t, "blue", bg)
}

func TestApplyFilters(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, FileName), `
filters:
  elide_std: {enabled: false}
  colorize: {priority: -1}
  nope: {enabled: true}
`)
	r, err := Resolve(CliFlags{})
	require.NoError(t, err)

	reg := filter.NewDefaultRegistry(filter.Options{})
	errs := r.ApplyFilters(reg)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], filter.ErrUnknownFilter)

	assert.Equal(t, []filter.Entry{
		{Name: filter.NameColorize, Priority: -1, Enabled: true},
		{Name: filter.NameRemovePrefix, Priority: 0, Enabled: true},
		{Name: filter.NameElideStd, Priority: 1, Enabled: false},
	}, reg.Ordered())
}
