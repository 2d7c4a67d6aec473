package backtrace

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/dkoosis/btfilter/pkg/frame"
)

// optimizedValue is what GDB prints for an argument it could not evaluate.
const optimizedValue = "<optimized out>"

var (
	headRe = regexp.MustCompile(`^#(\d+)\s+(?:(0x[0-9a-fA-F]+) in )?(.*)$`)
	atRe   = regexp.MustCompile(`^(.*) at (\S+):(\d+)$`)
	fromRe = regexp.MustCompile(`^(.*) from (\S+)$`)
)

// ParseGDB reads GDB "bt" output. Continuation lines, which GDB indents
// when it wraps a long frame, are joined to their frame. Lines that are not
// frames are skipped and counted.
func ParseGDB(r io.Reader) ([]frame.Frame, int, error) {
	var (
		frames  []frame.Frame
		skipped int
		pending string
	)
	flush := func() {
		if pending == "" {
			return
		}
		if f, ok := parseFrameLine(pending); ok {
			frames = append(frames, f)
		} else {
			skipped++
		}
		pending = ""
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), " \t\r")
		switch {
		case line == "":
			flush()
		case strings.HasPrefix(line, "#"):
			flush()
			pending = line
		case pending != "" && (line[0] == ' ' || line[0] == '\t'):
			pending += " " + strings.TrimSpace(line)
		default:
			flush()
			skipped++
		}
	}
	flush()
	if err := sc.Err(); err != nil {
		return nil, skipped, fmt.Errorf("reading backtrace: %w", err)
	}
	return frames, skipped, nil
}

func parseFrameLine(line string) (frame.Frame, bool) {
	m := headRe.FindStringSubmatch(line)
	if m == nil {
		return frame.Frame{}, false
	}
	level, err := strconv.Atoi(m[1])
	if err != nil {
		return frame.Frame{}, false
	}
	f := frame.Frame{Level: level, Address: m[2]}
	rest := m[3]

	if am := atRe.FindStringSubmatch(rest); am != nil {
		rest, f.Filename = am[1], am[2]
		f.Line, _ = strconv.Atoi(am[3])
	} else if fm := fromRe.FindStringSubmatch(rest); fm != nil {
		rest, f.Filename = fm[1], fm[2]
	}

	rest = strings.TrimSpace(rest)
	if open := argsStart(rest); open >= 0 {
		f.Function = strings.TrimSpace(rest[:open])
		f.Args = parseArgs(rest[open+1 : len(rest)-1])
	} else {
		f.Function = rest
	}
	if f.Function == "" {
		return frame.Frame{}, false
	}
	return f, true
}

// argsStart returns the index of the '(' opening the trailing argument list
// of s, or -1 when s has none.
func argsStart(s string) int {
	if !strings.HasSuffix(s, ")") {
		return -1
	}
	depth := 0
	for i := len(s) - 1; i >= 0; i-- {
		switch s[i] {
		case ')':
			depth++
		case '(':
			depth--
			if depth == 0 {
				if i == 0 || s[i-1] != ' ' {
					return -1
				}
				return i
			}
		}
	}
	return -1
}

// parseArgs splits "a=1, b=..." into arguments. An empty list yields an
// empty non-nil slice. GDB's "..." placeholder is kept as the value text;
// "<optimized out>" becomes an argument with no value.
func parseArgs(s string) []frame.Arg {
	args := []frame.Arg{}
	for _, part := range splitTopLevel(s) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, value, ok := strings.Cut(part, "=")
		name = strings.TrimSpace(name)
		value = strings.TrimSpace(value)
		if !ok || value == optimizedValue {
			args = append(args, frame.NewArg(name))
			continue
		}
		args = append(args, frame.NewArgValue(name, value))
	}
	return args
}

// splitTopLevel splits s on commas that are outside brackets and quotes.
func splitTopLevel(s string) []string {
	var (
		parts []string
		depth int
		quote byte
		start int
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			switch c {
			case '\\':
				i++
			case quote:
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			quote = c
		case '(', '{', '[', '<':
			depth++
		case ')', '}', ']', '>':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}
