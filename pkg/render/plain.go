package render

import (
	"strconv"
	"strings"

	"github.com/dkoosis/btfilter/pkg/frame"
)

// Plain renders frames as GDB-style text with no escape sequences. Elided
// frames are indented under the frame they were folded into.
type Plain struct{}

// NewPlain creates a plain text renderer.
func NewPlain() *Plain {
	return &Plain{}
}

// Render formats frames one per line.
func (p *Plain) Render(frames []frame.Frame) string {
	var sb strings.Builder
	p.write(&sb, frames, "")
	return sb.String()
}

func (p *Plain) write(sb *strings.Builder, frames []frame.Frame, indent string) {
	for _, f := range frames {
		f = stripped(f)
		sb.WriteString(indent)
		sb.WriteString("#" + strconv.Itoa(f.Level) + "  ")
		if f.Address != "" {
			sb.WriteString(f.Address + " in ")
		}
		sb.WriteString(f.Function)
		sb.WriteString(argList(f))
		sb.WriteString(Location(f))
		sb.WriteString("\n")
		p.write(sb, f.Elided, indent+"    ")
	}
}
