package render

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/dkoosis/btfilter/pkg/frame"
)

// Terminal renders frames as styled terminal output via lipgloss. Long
// argument lists wrap onto indented continuation lines the way GDB wraps
// them.
type Terminal struct {
	theme Theme
	width int
}

// NewTerminal creates a terminal renderer with the given theme.
func NewTerminal(theme Theme, width int) *Terminal {
	if width <= 0 {
		width = 80
	}
	return &Terminal{theme: theme, width: width}
}

// Render formats all frames for terminal display.
func (t *Terminal) Render(frames []frame.Frame) string {
	levelWidth := 0
	folded := 0
	frame.Walk(frames, func(f frame.Frame) {
		if w := runewidth.StringWidth(levelLabel(f)); w > levelWidth {
			levelWidth = w
		}
		if f.Folded {
			folded++
		}
	})

	var sb strings.Builder
	t.write(&sb, frames, "", levelWidth)
	if folded > 0 {
		sb.WriteString(t.theme.Muted.Render(fmt.Sprintf("%s %d std frames folded", t.theme.Icons.Folded, folded)))
		sb.WriteString("\n")
	}
	return sb.String()
}

func (t *Terminal) write(sb *strings.Builder, frames []frame.Frame, indent string, levelWidth int) {
	for _, f := range frames {
		for _, line := range t.frameLines(f, indent, levelWidth) {
			sb.WriteString(line)
			sb.WriteString("\n")
		}
		t.write(sb, f.Elided, indent+"  "+t.theme.Muted.Render(t.theme.Icons.Elided)+" ", levelWidth)
	}
}

// FrameLine renders a single frame without wrapping.
func (t *Terminal) FrameLine(f frame.Frame) string {
	w := &wrapper{}
	t.addPieces(w, f, "", runewidth.StringWidth(levelLabel(f)))
	return w.String()
}

func (t *Terminal) frameLines(f frame.Frame, indent string, levelWidth int) []string {
	w := &wrapper{width: t.width, cont: strings.Repeat(" ", lipgloss.Width(indent)+4)}
	t.addPieces(w, f, indent, levelWidth)
	return w.finish()
}

func (t *Terminal) addPieces(w *wrapper, f frame.Frame, indent string, levelWidth int) {
	var head strings.Builder
	head.WriteString(indent)
	head.WriteString(t.theme.Level.Render(runewidth.FillRight(levelLabel(f), levelWidth)))
	head.WriteString("  ")
	if f.Address != "" {
		head.WriteString(t.theme.Address.Render(f.Address))
		head.WriteString(" " + t.theme.Keyword.Render("in") + " ")
	}
	head.WriteString(f.Function)

	switch {
	case f.Args == nil:
		w.add(head.String())
	case len(f.Args) == 0:
		w.add(head.String() + " ()")
	default:
		w.add(head.String() + " (")
		for i, a := range f.Args {
			piece := a.Symbol + "=" + t.value(f, a)
			if i == len(f.Args)-1 {
				piece += ")"
			} else {
				piece += ","
			}
			if i > 0 {
				piece = " " + piece
			}
			w.add(piece)
		}
	}

	if f.Filename != "" {
		if f.Line > 0 {
			w.add(" " + t.theme.Keyword.Render("at") + " " + f.Filename + t.theme.Muted.Render(":"+strconv.Itoa(f.Line)))
		} else {
			w.add(" " + t.theme.Keyword.Render("from") + " " + f.Filename)
		}
	}
}

func (t *Terminal) value(f frame.Frame, a frame.Arg) string {
	v, err := f.ArgValue(a)
	switch {
	case err == nil:
		return t.theme.Value.Render(v)
	case errors.Is(err, frame.ErrUnavailable):
		return t.theme.Muted.Render(OptimizedOut)
	default:
		return t.theme.Error.Render("<error: " + err.Error() + ">")
	}
}

func levelLabel(f frame.Frame) string {
	return "#" + strconv.Itoa(f.Level)
}

// wrapper fills lines with pieces, starting a continuation line when the
// next piece would overflow width. A width of zero disables wrapping.
type wrapper struct {
	width int
	cont  string
	lines []string
	cur   strings.Builder
}

func (w *wrapper) add(piece string) {
	if w.width > 0 && w.cur.Len() > 0 &&
		lipgloss.Width(w.cur.String())+lipgloss.Width(piece) > w.width {
		w.lines = append(w.lines, strings.TrimRight(w.cur.String(), " "))
		w.cur.Reset()
		w.cur.WriteString(w.cont)
		piece = strings.TrimLeft(piece, " ")
	}
	w.cur.WriteString(piece)
}

func (w *wrapper) finish() []string {
	if w.cur.Len() > 0 {
		w.lines = append(w.lines, w.cur.String())
		w.cur.Reset()
	}
	return w.lines
}

func (w *wrapper) String() string {
	return strings.Join(w.finish(), "\n")
}
