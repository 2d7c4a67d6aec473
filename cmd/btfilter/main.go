// btfilter rewrites debugger backtraces into a compact, readable form.
//
// Usage:
//
//	gdb -batch -ex bt ./prog core | btfilter
//	btfilter frames.json
//	btfilter -i crash.txt
//
// Accepts two input formats:
//   - GDB "bt" text
//   - a JSON frame list
//
// Three filters run in priority order: remove_prefix strips namespace
// qualifiers, elide_std folds frames from the system path into the frame
// that called them, and colorize adds ANSI color.
//
// Output modes (auto-detected):
//
//	terminal  styled output (default when TTY)
//	plain     GDB-style text (default when piped)
//	json      structured JSON for automation
package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/dkoosis/btfilter/internal/config"
	"github.com/dkoosis/btfilter/internal/logging"
	"github.com/dkoosis/btfilter/pkg/backtrace"
	"github.com/dkoosis/btfilter/pkg/browse"
	"github.com/dkoosis/btfilter/pkg/color"
	"github.com/dkoosis/btfilter/pkg/filter"
	"github.com/dkoosis/btfilter/pkg/frame"
	"github.com/dkoosis/btfilter/pkg/render"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// Exit codes.
const (
	exitOK      = 0
	exitRuntime = 1
	exitUsage   = 2
)

// exitError carries the exit code for err.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func runtimeErr(err error) error { return &exitError{code: exitRuntime, err: err} }

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if args == nil {
		args = []string{}
	}
	root := newRootCommand(stdin, stdout, stderr)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(stderr, "btfilter: %v\n", err)
		var ee *exitError
		if errors.As(err, &ee) {
			return ee.code
		}
		return exitUsage
	}
	return exitOK
}

// settings holds the flag values shared by all commands.
type settings struct {
	configPath string
	systemPath string
	debug      bool
	sets       []string
	disabled   []string
	priorities priorityFlag

	format      string
	theme       string
	noColor     bool
	interactive bool
}

// priorityFlag collects repeated --priority name=n values.
type priorityFlag map[string]int

var _ pflag.Value = priorityFlag(nil)

func (p priorityFlag) String() string {
	parts := make([]string, 0, len(p))
	for name, n := range p {
		parts = append(parts, name+"="+strconv.Itoa(n))
	}
	return strings.Join(parts, ",")
}

func (p priorityFlag) Set(v string) error {
	name, num, ok := strings.Cut(v, "=")
	if !ok || strings.TrimSpace(name) == "" {
		return fmt.Errorf("want <filter>=<priority>, got %q", v)
	}
	n, err := strconv.Atoi(strings.TrimSpace(num))
	if err != nil {
		return fmt.Errorf("priority for %s: %w", name, err)
	}
	p[strings.TrimSpace(name)] = n
	return nil
}

func (p priorityFlag) Type() string { return "filter=n" }

func newRootCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	s := &settings{priorities: priorityFlag{}}

	root := &cobra.Command{
		Use:           "btfilter [file|-]",
		Short:         "Rewrite debugger backtraces into a readable form",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFilter(cmd, s, args, stdin, stdout, stderr)
		},
	}
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&s.configPath, "config", "", "config file (default: ./"+config.FileName+")")
	pf.StringVar(&s.systemPath, "system-path", "", "path prefix of frames to elide (default "+filter.DefaultSystemPath+")")
	pf.BoolVar(&s.debug, "debug", false, "log pipeline diagnostics to stderr")
	pf.StringArrayVar(&s.sets, "set", nil, `set a color: "<item> <attribute> <value>" (repeatable)`)
	pf.StringArrayVar(&s.disabled, "disable", nil, "disable a filter by name (repeatable)")
	pf.Var(s.priorities, "priority", "override a filter priority (repeatable)")

	f := root.Flags()
	f.StringVar(&s.format, "format", "", "output format: auto, terminal, plain, json")
	f.StringVar(&s.theme, "theme", "", "theme: default, orca, mono")
	f.BoolVar(&s.noColor, "no-color", false, "disable the colorize filter and theme colors")
	f.BoolVarP(&s.interactive, "interactive", "i", false, "browse the backtrace interactively")

	root.AddCommand(
		newShowCommand(s, stdout, stderr),
		newFiltersCommand(s, stdout, stderr),
		newVersionCommand(stdout),
	)
	return root
}

// env is the configured pipeline shared by all commands.
type env struct {
	resolved *config.Resolved
	log      *logrus.Logger
	colors   *color.Registry
	filters  *filter.Registry
}

// setup resolves configuration and builds the color and filter registries.
// Rejected color values, from the config file or --set, are logged and
// skipped. Malformed --set arguments and unknown filter names are usage
// errors.
func setup(cmd *cobra.Command, s *settings, stderr io.Writer) (*env, error) {
	flags := config.CliFlags{
		ConfigPath: s.configPath,
		Theme:      s.theme,
		NoColor:    s.noColor,
		Format:     s.format,
		SystemPath: s.systemPath,
		Debug:      s.debug,
		NoColorSet: flagChanged(cmd, "no-color"),
		DebugSet:   flagChanged(cmd, "debug"),
	}
	r, err := config.Resolve(flags)
	if err != nil {
		return nil, err
	}

	log := logging.New(stderr, r.Debug)
	for _, w := range r.Warnings {
		log.Warn(w)
	}
	log.WithFields(logrus.Fields{
		"path":            r.Path,
		"theme":           r.Theme,
		"theme_source":    r.ThemeSource,
		"format":          r.Format,
		"format_source":   r.FormatSource,
		"no_color":        r.NoColor,
		"no_color_source": r.NoColorSource,
	}).Debug("config resolved")

	colors := color.NewRegistry()
	for _, err := range r.ApplyColors(colors) {
		log.Warn(err)
	}
	for _, v := range s.sets {
		parts := strings.Fields(v)
		if len(parts) != 3 {
			return nil, fmt.Errorf("--set %q: want \"<item> <attribute> <value>\"", v)
		}
		if err := colors.Set(parts[0], parts[1], parts[2]); err != nil {
			log.Warn(fmt.Errorf("--set: %w", colorHint(err, parts[0], parts[1])))
		}
	}

	filters := filter.NewDefaultRegistry(filter.Options{
		Prefixes:   r.Prefixes,
		SystemPath: r.SystemPath,
		Colors:     colors,
	}, filter.WithLogger(log))
	for _, err := range r.ApplyFilters(filters) {
		log.Warn(err)
	}
	for _, name := range s.disabled {
		if err := filters.Enable(name, false); err != nil {
			return nil, fmt.Errorf("--disable: %w", withHint(err, name, filterNames(filters)))
		}
	}
	for _, name := range sortedNames(s.priorities) {
		if err := filters.SetPriority(name, s.priorities[name]); err != nil {
			return nil, fmt.Errorf("--priority: %w", withHint(err, name, filterNames(filters)))
		}
	}

	return &env{resolved: r, log: log, colors: colors, filters: filters}, nil
}

func flagChanged(cmd *cobra.Command, name string) bool {
	f := cmd.Flags().Lookup(name)
	return f != nil && f.Changed
}

func runFilter(cmd *cobra.Command, s *settings, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	e, err := setup(cmd, s, stderr)
	if err != nil {
		return err
	}

	input, name, err := readInput(args, stdin)
	if err != nil {
		return runtimeErr(err)
	}
	if len(bytes.TrimSpace(input)) == 0 {
		return fmt.Errorf("no input on %s", name)
	}

	res, err := backtrace.Read(input)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	if res.Skipped > 0 {
		e.log.WithField("lines", res.Skipped).Warn("skipped unparsed lines")
	}
	e.log.WithFields(logrus.Fields{"format": res.Format, "frames": len(res.Frames)}).Debug("input read")

	mode := resolveFormat(e.resolved.Format, stdout)
	if s.interactive {
		mode = "terminal"
	}
	if e.resolved.NoColor || mode != "terminal" {
		_ = e.filters.Enable(filter.NameColorize, false)
	}

	out := e.filters.Run(res.Frames)
	e.log.WithFields(logrus.Fields{
		"frames": len(out),
		"elided": frame.Count(out) - len(out),
	}).Debug("pipeline done")

	theme := render.ThemeByName(e.resolved.Theme)
	if e.resolved.NoColor {
		theme = render.MonoTheme()
	}

	if s.interactive {
		return runBrowser(out, theme, args, stdin, stdout)
	}

	fmt.Fprint(stdout, selectRenderer(mode, theme, stdout).Render(out))
	return nil
}

// readInput reads the named file, or stdin when no file or "-" is given.
func readInput(args []string, stdin io.Reader) ([]byte, string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, "stdin", fmt.Errorf("reading stdin: %w", err)
		}
		return data, "stdin", nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, args[0], err
	}
	return data, args[0], nil
}

// runBrowser starts the interactive browser. Keys come from stdin when the
// backtrace was read from a file, otherwise from the controlling terminal.
func runBrowser(frames []frame.Frame, theme render.Theme, args []string, stdin io.Reader, stdout io.Writer) error {
	if !isTTYWriter(stdout) {
		return errors.New("--interactive needs a terminal on stdout")
	}
	in := stdin
	if len(args) == 0 || args[0] == "-" {
		tty, err := os.Open("/dev/tty")
		if err != nil {
			return runtimeErr(fmt.Errorf("opening terminal: %w", err))
		}
		defer tty.Close()
		in = tty
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := browse.Run(ctx, browse.New(frames, theme), in, stdout); err != nil {
		return runtimeErr(err)
	}
	return nil
}

// isTTYWriter reports whether w is a terminal.
func isTTYWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// termWidth returns the terminal width of w, defaulting to 80.
func termWidth(w io.Writer) int {
	if f, ok := w.(*os.File); ok {
		if tw, _, err := term.GetSize(int(f.Fd())); err == nil && tw > 0 {
			return tw
		}
	}
	return 80
}

func resolveFormat(format string, w io.Writer) string {
	if format != "auto" {
		return format
	}
	if isTTYWriter(w) {
		return "terminal"
	}
	return "plain"
}

func selectRenderer(mode string, theme render.Theme, w io.Writer) render.Renderer {
	switch mode {
	case "json":
		return render.NewJSON()
	case "plain":
		return render.NewPlain()
	default:
		return render.NewTerminal(theme, termWidth(w))
	}
}
