// Package simplify rewrites raw C++ qualified names from a debugger into a
// shorter display form.
//
// Each rule is an independent pure function so it can be tested on its own;
// [Simplifier.Simplify] chains them. Names that match no rule pass through
// unchanged.
package simplify

import (
	"regexp"
	"strings"
)

// StdlibInternal replaces names that belong to the standard library's
// implementation-reserved area.
const StdlibInternal = "[stdlib internal]"

// Bold and BoldOff bracket emphasized parts of a standard library name.
// BoldOff resets intensity only, so an enclosing color survives.
const (
	Bold    = "\x1b[1m"
	BoldOff = "\x1b[22m"
)

// DefaultPrefixes are the namespace qualifiers stripped by default, in
// application order.
var DefaultPrefixes = []string{"Tests", "oc::mosaic", "oc", "std"}

var (
	statusCodeRe     = regexp.MustCompile(`\boc::mosaic::StatusCode<(\d+)>`)
	deversionRe      = regexp.MustCompile(`\bstd::__cxx\d+::`)
	basicStringRe    = regexp.MustCompile(`\b(std::)?basic_string<char, (?:std::)?char_traits<char>, (?:std::)?allocator<char> ?>`)
	allocatorRe      = regexp.MustCompile(`,\s*(?:std::)?allocator<(?:[^<>]|<[^<>]*>)*>\s*>`)
	emphasizeCallRe  = regexp.MustCompile(`(\w+)([<\[(])`)
	emphasizeMemRe   = regexp.MustCompile(`\)::(\w+)`)
	emphasizePunctRe = regexp.MustCompile(`([<(,)>])`)
)

// StatusCode rewrites oc::mosaic::StatusCode<N> to #N.
func StatusCode(s string) string {
	return statusCodeRe.ReplaceAllString(s, "#${1}")
}

// Deversion collapses the versioned inline namespace std::__cxxNN:: to std::.
func Deversion(s string) string {
	return deversionRe.ReplaceAllString(s, "std::")
}

// CanonicalString rewrites the default-traits, default-allocator
// basic_string<char> instantiation to string, keeping a std:: qualifier if
// one was present.
func CanonicalString(s string) string {
	return basicStringRe.ReplaceAllString(s, "${1}string")
}

// DropAllocator removes an explicit trailing allocator argument from
// container templates: vector<int, allocator<int> > becomes vector<int>.
func DropAllocator(s string) string {
	for {
		next := allocatorRe.ReplaceAllString(s, ">")
		if next == s {
			return s
		}
		s = next
	}
}

// InternalSentinel returns StdlibInternal for names starting with an
// implementation-reserved underscore.
func InternalSentinel(s string) string {
	if strings.HasPrefix(s, "_") {
		return StdlibInternal
	}
	return s
}

// IsStd reports whether name is qualified by a standard library namespace.
func IsStd(name string) bool {
	return strings.HasPrefix(name, "std::") || strings.HasPrefix(name, "__gnu_cxx::")
}

// Emphasize wraps template and call punctuation, the identifiers preceding
// them and the member name after "::" in Bold/BoldOff markers.
func Emphasize(s string) string {
	s = emphasizeCallRe.ReplaceAllString(s, Bold+"${1}"+BoldOff+"${2}")
	s = emphasizeMemRe.ReplaceAllString(s, ")::"+Bold+"${1}"+BoldOff)
	return emphasizePunctRe.ReplaceAllString(s, Bold+"${1}"+BoldOff)
}

// Simplifier strips a configured, ordered list of namespace prefixes.
type Simplifier struct {
	prefixes []string
	patterns []*regexp.Regexp
}

// New returns a Simplifier for prefixes. A nil slice selects DefaultPrefixes.
func New(prefixes []string) *Simplifier {
	if prefixes == nil {
		prefixes = DefaultPrefixes
	}
	s := &Simplifier{prefixes: append([]string(nil), prefixes...)}
	for _, p := range s.prefixes {
		p = strings.TrimSuffix(strings.TrimSpace(p), "::")
		if p == "" {
			continue
		}
		s.patterns = append(s.patterns, regexp.MustCompile(`\b`+regexp.QuoteMeta(p)+`::`))
	}
	return s
}

// Prefixes returns the configured prefixes.
func (s *Simplifier) Prefixes() []string {
	return append([]string(nil), s.prefixes...)
}

// StripPrefixes removes every prefix:: occurrence anywhere in name, repeating
// until the name stops changing so that qualifiers uncovered by an earlier
// removal are stripped too.
func (s *Simplifier) StripPrefixes(name string) string {
	for {
		next := name
		for _, re := range s.patterns {
			next = re.ReplaceAllString(next, "")
		}
		if next == name {
			return name
		}
		name = next
	}
}

// StripName collapses versioned std namespaces, applies the status-code
// rewrite and strips prefixes.
func (s *Simplifier) StripName(name string) string {
	for {
		next := s.StripPrefixes(StatusCode(Deversion(name)))
		if next == name {
			return name
		}
		name = next
	}
}

// Simplify applies every rule in order. It is idempotent.
func (s *Simplifier) Simplify(raw string) string {
	name := s.StripName(raw)
	name = CanonicalString(name)
	name = DropAllocator(name)
	return InternalSentinel(name)
}

var defaultSimplifier = New(nil)

// Simplify simplifies raw with DefaultPrefixes.
func Simplify(raw string) string {
	return defaultSimplifier.Simplify(raw)
}
