// Package render formats filtered frames for output.
package render

import (
	"errors"
	"strconv"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/dkoosis/btfilter/pkg/frame"
)

// OptimizedOut is printed for arguments whose value is unavailable.
const OptimizedOut = "<optimized out>"

// Renderer converts frames to formatted output.
type Renderer interface {
	Render(frames []frame.Frame) string
}

// ValueText resolves a's value for display. Failures are reported in the
// returned text and affect only this argument.
func ValueText(f frame.Frame, a frame.Arg) string {
	v, err := f.ArgValue(a)
	switch {
	case err == nil:
		return v
	case errors.Is(err, frame.ErrUnavailable):
		return OptimizedOut
	default:
		return "<error: " + err.Error() + ">"
	}
}

// Location returns the " at file:line" or " from file" suffix of f, or ""
// when f has no filename.
func Location(f frame.Frame) string {
	switch {
	case f.Filename == "":
		return ""
	case f.Line > 0:
		return " at " + f.Filename + ":" + strconv.Itoa(f.Line)
	default:
		return " from " + f.Filename
	}
}

// stripped returns f with escape sequences removed from its display text.
func stripped(f frame.Frame) frame.Frame {
	f.Function = ansi.Strip(f.Function)
	f.Filename = ansi.Strip(f.Filename)
	if f.Args != nil {
		args := make([]frame.Arg, len(f.Args))
		for i, a := range f.Args {
			args[i] = a.WithSymbol(ansi.Strip(a.Symbol))
		}
		f.Args = args
	}
	return f
}

// argList renders "(a=1, b=2)" or "" for an absent list.
func argList(f frame.Frame) string {
	if f.Args == nil {
		return ""
	}
	parts := make([]string, len(f.Args))
	for i, a := range f.Args {
		parts[i] = a.Symbol + "=" + ValueText(f, a)
	}
	return " (" + strings.Join(parts, ", ") + ")"
}
