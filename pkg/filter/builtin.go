package filter

import (
	"path"
	"strings"

	"github.com/dkoosis/btfilter/pkg/color"
	"github.com/dkoosis/btfilter/pkg/frame"
	"github.com/dkoosis/btfilter/pkg/simplify"
)

// Built-in filter names and priorities.
const (
	NameRemovePrefix = "remove_prefix"
	NameElideStd     = "elide_std"
	NameColorize     = "colorize"

	PriorityRemovePrefix = 0
	PriorityElideStd     = 1
	PriorityColorize     = 2
)

// DefaultSystemPath is the install prefix whose frames are elided.
const DefaultSystemPath = "/usr"

// Options configures the built-in filters.
type Options struct {
	// Prefixes are the namespace qualifiers to strip; nil selects
	// simplify.DefaultPrefixes.
	Prefixes []string

	// SystemPath overrides DefaultSystemPath.
	SystemPath string

	// Colors overrides the default color registry.
	Colors *color.Registry
}

// NewDefaultRegistry registers remove_prefix, elide_std and colorize.
func NewDefaultRegistry(o Options, opts ...Option) *Registry {
	simp := simplify.New(o.Prefixes)
	colors := o.Colors
	if colors == nil {
		colors = color.NewRegistry()
	}
	r := NewRegistry(opts...)
	// Names are distinct constants, registration cannot fail.
	_ = r.Register(NewRemovePrefix(simp))
	_ = r.Register(NewElideStd(simp, o.SystemPath))
	_ = r.Register(NewColorize(colors))
	return r
}

// RemovePrefix strips namespace qualifiers and rewrites status codes in
// function names.
type RemovePrefix struct {
	simp *simplify.Simplifier
}

// NewRemovePrefix returns a remove_prefix filter.
func NewRemovePrefix(simp *simplify.Simplifier) *RemovePrefix {
	if simp == nil {
		simp = simplify.New(nil)
	}
	return &RemovePrefix{simp: simp}
}

func (f *RemovePrefix) Name() string  { return NameRemovePrefix }
func (f *RemovePrefix) Priority() int { return PriorityRemovePrefix }

// Filter maps every frame one to one.
func (f *RemovePrefix) Filter(frames []frame.Frame) []frame.Frame {
	out := make([]frame.Frame, len(frames))
	for i, fr := range frames {
		fr.Function = f.simp.StripName(fr.Function)
		fr.Args = frame.CopyArgs(fr.Args)
		out[i] = fr
	}
	return out
}

// ElideStd folds frames located under the system path into the last
// surviving frame before them.
type ElideStd struct {
	simp       *simplify.Simplifier
	systemPath string
}

// NewElideStd returns an elide_std filter. An empty systemPath selects
// DefaultSystemPath.
func NewElideStd(simp *simplify.Simplifier, systemPath string) *ElideStd {
	if simp == nil {
		simp = simplify.New(nil)
	}
	if systemPath == "" {
		systemPath = DefaultSystemPath
	}
	return &ElideStd{simp: simp, systemPath: systemPath}
}

func (f *ElideStd) Name() string  { return NameElideStd }
func (f *ElideStd) Priority() int { return PriorityElideStd }

// Filter returns the surviving frames. A run of system frames attaches, in
// order, to the single survivor preceding the run; the first frame always
// survives.
func (f *ElideStd) Filter(frames []frame.Frame) []frame.Frame {
	out := make([]frame.Frame, 0, len(frames))
	for _, fr := range frames {
		if len(out) > 0 && strings.HasPrefix(fr.Filename, f.systemPath) {
			last := &out[len(out)-1]
			last.Elided = append(last.Elided, f.fold(fr))
			continue
		}
		fr.Elided = append([]frame.Frame(nil), fr.Elided...)
		out = append(out, fr)
	}
	return out
}

func (f *ElideStd) fold(fr frame.Frame) frame.Frame {
	fr.Folded = true
	fr.Function = f.simp.Simplify(fr.Function)
	if fr.Function == simplify.StdlibInternal {
		fr.Args = nil
	}
	fr.Filename = path.Base(fr.Filename)
	return fr
}

// Colorize styles function names, filenames and argument symbols with the
// items of a color registry. Argument values are never styled.
type Colorize struct {
	colors *color.Registry
}

// NewColorize returns a colorize filter reading colors at render time.
func NewColorize(colors *color.Registry) *Colorize {
	return &Colorize{colors: colors}
}

func (f *Colorize) Name() string  { return NameColorize }
func (f *Colorize) Priority() int { return PriorityColorize }

// Filter maps every frame one to one, including elided children.
func (f *Colorize) Filter(frames []frame.Frame) []frame.Frame {
	if frames == nil {
		return nil
	}
	out := make([]frame.Frame, len(frames))
	for i, fr := range frames {
		out[i] = f.colorize(fr)
	}
	return out
}

func (f *Colorize) colorize(fr frame.Frame) frame.Frame {
	fr.Function = f.function(fr.Function)
	fr.Filename = f.filename(fr.Filename)
	if fr.Args != nil {
		args := make([]frame.Arg, len(fr.Args))
		for i, a := range fr.Args {
			args[i] = a.WithSymbol(f.colors.Apply(color.ItemArgument, a.Symbol))
		}
		fr.Args = args
	}
	fr.Elided = f.Filter(fr.Elided)
	return fr
}

func (f *Colorize) function(name string) string {
	if name == "" {
		return name
	}
	if simplify.IsStd(name) {
		name = simplify.Deversion(name)
		name = simplify.CanonicalString(name)
		name = simplify.Emphasize(name)
		return f.colors.Apply(color.ItemStdFunction, name)
	}
	return f.colors.Apply(color.ItemFunction, name)
}

func (f *Colorize) filename(name string) string {
	if name == "" {
		return name
	}
	if strings.HasPrefix(name, "/") {
		return f.colors.Apply(color.ItemStdFilename, name)
	}
	return f.colors.Apply(color.ItemFilename, name)
}
