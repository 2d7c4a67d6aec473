// Package frame defines the stack frame values that flow through the filter
// pipeline. Frames are plain data: filters return transformed copies rather
// than mutating the host's frames in place.
package frame

import (
	"errors"
	"fmt"
)

// ErrUnavailable reports that an argument has no pre-evaluated value and the
// frame carries no Handle to evaluate it with.
var ErrUnavailable = errors.New("value unavailable")

// Handle is the host's evaluation context for one frame. It is used to
// resolve argument values lazily, only when a renderer prints them.
type Handle interface {
	Evaluate(symbol string) (string, error)
}

// Frame is one activation record of a backtrace.
type Frame struct {
	Level    int
	Address  string
	Function string
	Filename string
	Line     int

	// Args is nil when the argument list is absent; renderers then omit the
	// argument section entirely. An empty non-nil slice renders as "()".
	Args []Arg

	// Elided holds frames folded into this one, in their original order.
	Elided []Frame

	// Folded is set on frames that were folded into a predecessor.
	Folded bool

	Handle Handle
}

// Arg binds a symbol to a lazily resolved value.
type Arg struct {
	// Symbol is the display text; filters may rewrite it.
	Symbol string

	name  string
	value *string
}

// NewArg returns an argument with no pre-evaluated value. Its value is
// resolved through the owning frame's Handle.
func NewArg(symbol string) Arg {
	return Arg{Symbol: symbol, name: symbol}
}

// NewArgValue returns an argument whose value is already known.
func NewArgValue(symbol, value string) Arg {
	return Arg{Symbol: symbol, name: symbol, value: &value}
}

// Name returns the raw symbol name used for evaluation. It is unaffected by
// rewrites of Symbol.
func (a Arg) Name() string {
	if a.name == "" {
		return a.Symbol
	}
	return a.name
}

// Evaluated reports whether the argument carries a pre-evaluated value.
func (a Arg) Evaluated() bool {
	return a.value != nil
}

// WithSymbol returns a copy of a with new display text.
func (a Arg) WithSymbol(symbol string) Arg {
	if a.name == "" {
		a.name = a.Symbol
	}
	a.Symbol = symbol
	return a
}

// ArgValue resolves the value of a in the context of f.
func (f Frame) ArgValue(a Arg) (string, error) {
	if a.value != nil {
		return *a.value, nil
	}
	if f.Handle == nil {
		return "", ErrUnavailable
	}
	v, err := f.Handle.Evaluate(a.Name())
	if err != nil {
		return "", fmt.Errorf("evaluating %s: %w", a.Name(), err)
	}
	return v, nil
}

// CopyArgs returns a copy of args, preserving nil.
func CopyArgs(args []Arg) []Arg {
	if args == nil {
		return nil
	}
	out := make([]Arg, len(args))
	copy(out, args)
	return out
}

// Walk calls fn for each frame in frames and, depth first, for every frame
// elided into it.
func Walk(frames []Frame, fn func(f Frame)) {
	for _, f := range frames {
		fn(f)
		Walk(f.Elided, fn)
	}
}

// Count returns the number of frames in frames including elided children.
func Count(frames []Frame) int {
	n := 0
	Walk(frames, func(Frame) { n++ })
	return n
}
