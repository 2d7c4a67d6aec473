// Package filter runs backtraces through an ordered chain of named frame
// filters.
//
// Filters are registered under unique names with an integer priority. [Registry.Run]
// feeds the host's frames through every enabled filter in ascending priority
// order, ties broken by registration order, and returns the final sequence
// for rendering. Each filter is a pure function over frame values: it may
// rewrite fields of every frame or fold frames into the Elided list of a
// surviving frame, but never mutates its input.
package filter

import (
	"errors"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/dkoosis/btfilter/internal/logging"
	"github.com/dkoosis/btfilter/pkg/frame"
)

var (
	ErrDuplicateFilter = errors.New("duplicate filter")
	ErrUnknownFilter   = errors.New("unknown filter")
)

// Filter transforms a frame sequence.
type Filter interface {
	Name() string
	Priority() int
	Filter(frames []frame.Frame) []frame.Frame
}

// Func adapts a function to the Filter interface.
type Func struct {
	FilterName     string
	FilterPriority int
	Fn             func([]frame.Frame) []frame.Frame
}

func (f Func) Name() string                              { return f.FilterName }
func (f Func) Priority() int                             { return f.FilterPriority }
func (f Func) Filter(frames []frame.Frame) []frame.Frame { return f.Fn(frames) }

// Entry describes a registered filter.
type Entry struct {
	Name     string
	Priority int
	Enabled  bool
}

type entry struct {
	Entry
	filter Filter
}

// Registry holds filters keyed by name. The zero value is not usable; call
// NewRegistry.
type Registry struct {
	entries []*entry
	byName  map[string]*entry
	log     logrus.FieldLogger
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used to trace pipeline stages.
func WithLogger(l logrus.FieldLogger) Option {
	return func(r *Registry) {
		if l != nil {
			r.log = l
		}
	}
}

// NewRegistry returns an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{byName: make(map[string]*entry), log: logging.Discard()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds f, enabled, at its own priority.
func (r *Registry) Register(f Filter) error {
	name := f.Name()
	if _, ok := r.byName[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateFilter, name)
	}
	e := &entry{Entry: Entry{Name: name, Priority: f.Priority(), Enabled: true}, filter: f}
	r.entries = append(r.entries, e)
	r.byName[name] = e
	return nil
}

// Enable turns the named filter on or off.
func (r *Registry) Enable(name string, enabled bool) error {
	e, ok := r.byName[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownFilter, name)
	}
	e.Enabled = enabled
	return nil
}

// SetPriority changes the named filter's priority.
func (r *Registry) SetPriority(name string, priority int) error {
	e, ok := r.byName[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownFilter, name)
	}
	e.Priority = priority
	return nil
}

// Ordered returns every registered filter in execution order.
func (r *Registry) Ordered() []Entry {
	sorted := r.sorted()
	out := make([]Entry, len(sorted))
	for i, e := range sorted {
		out[i] = e.Entry
	}
	return out
}

func (r *Registry) sorted() []*entry {
	sorted := append([]*entry(nil), r.entries...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Priority < sorted[j].Priority })
	return sorted
}

// Run passes frames through each enabled filter, lowest priority first.
func (r *Registry) Run(frames []frame.Frame) []frame.Frame {
	out := frames
	for _, e := range r.sorted() {
		if !e.Enabled {
			continue
		}
		in := len(out)
		out = e.filter.Filter(out)
		r.log.WithFields(logrus.Fields{
			"filter":   e.Name,
			"priority": e.Priority,
			"in":       in,
			"out":      len(out),
		}).Debug("filter stage")
	}
	return out
}
