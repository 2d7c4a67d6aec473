// Package color maps named backtrace items to terminal escape sequences.
//
// Each [Item] has three independently configurable attributes: intensity,
// foreground and background. A [Registry] holds the five items used by the
// colorize filter, starts out with fixed defaults and is updated through
// "<item> <attribute>" keys. Values outside an attribute's enumeration are
// rejected and leave the current setting untouched.
package color

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Reset ends a styled span.
const Reset = "\x1b[m"

const csi = "\x1b["

var (
	ErrUnknownItem      = errors.New("unknown item")
	ErrUnknownAttribute = errors.New("unknown attribute")
	ErrInvalidValue     = errors.New("invalid value")
)

// Intensity selects normal, bold or faint text.
type Intensity int

const (
	IntensityNormal Intensity = iota
	IntensityBold
	IntensityFaint
)

var intensityNames = []string{"normal", "bold", "faint"}

func (i Intensity) String() string {
	if i < 0 || int(i) >= len(intensityNames) {
		return "Intensity(" + strconv.Itoa(int(i)) + ")"
	}
	return intensityNames[i]
}

// ParseIntensity parses one of "normal", "bold", "faint".
func ParseIntensity(s string) (Intensity, error) {
	for i, n := range intensityNames {
		if n == s {
			return Intensity(i), nil
		}
	}
	return 0, fmt.Errorf("%w: intensity %q (want one of %s)", ErrInvalidValue, s, strings.Join(intensityNames, ", "))
}

// Color is one of the eight basic terminal colors, or None.
type Color int

const (
	None Color = iota
	Black
	Red
	Green
	Yellow
	Blue
	Magenta
	Cyan
	White
)

var colorNames = []string{"none", "black", "red", "green", "yellow", "blue", "magenta", "cyan", "white"}

func (c Color) String() string {
	if c < 0 || int(c) >= len(colorNames) {
		return "Color(" + strconv.Itoa(int(c)) + ")"
	}
	return colorNames[c]
}

// index is the SGR color offset; None has no offset.
func (c Color) index() int {
	return int(c) - 1
}

// ParseColor parses a color name.
func ParseColor(s string) (Color, error) {
	for i, n := range colorNames {
		if n == s {
			return Color(i), nil
		}
	}
	return None, fmt.Errorf("%w: color %q (want one of %s)", ErrInvalidValue, s, strings.Join(colorNames, ", "))
}

// Item is a named set of styling attributes.
type Item struct {
	Name       string
	Intensity  Intensity
	Foreground Color
	Background Color
}

// Escape returns the control sequence selecting the item's style. ok is
// false when the item applies no styling.
func (it Item) Escape() (seq string, ok bool) {
	codes := make([]string, 0, 3)
	switch it.Intensity {
	case IntensityBold:
		codes = append(codes, "1")
	case IntensityFaint:
		codes = append(codes, "2")
	}
	if it.Foreground != None {
		codes = append(codes, strconv.Itoa(30+it.Foreground.index()))
	}
	if it.Background != None {
		codes = append(codes, strconv.Itoa(40+it.Background.index()))
	}
	if len(codes) == 0 {
		return "", false
	}
	return csi + strings.Join(codes, ";") + "m", true
}

// Apply wraps text in the item's escape sequence and Reset. Text is
// returned unchanged when the item applies no styling.
func (it Item) Apply(text string) string {
	seq, ok := it.Escape()
	if !ok {
		return text
	}
	return seq + text + Reset
}
