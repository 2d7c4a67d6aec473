// Package browse is an interactive backtrace browser. Frames folded by the
// elide_std filter can be expanded in place, and argument values are
// resolved only for the frame under the cursor.
package browse

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/dkoosis/btfilter/pkg/frame"
	"github.com/dkoosis/btfilter/pkg/render"
)

// Styles holds the browser chrome styles.
type Styles struct {
	Title      lipgloss.Style
	ListBox    lipgloss.Style
	DetailBox  lipgloss.Style
	Header     lipgloss.Style
	Selected   lipgloss.Style
	Unselected lipgloss.Style
	Muted      lipgloss.Style
	StatusBar  lipgloss.Style
}

// DefaultStyles returns the standard browser styles.
func DefaultStyles() Styles {
	border := lipgloss.RoundedBorder()
	return Styles{
		Title:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0077B6")),
		ListBox:    lipgloss.NewStyle().Border(border).BorderForeground(lipgloss.Color("#626262")).Padding(0, 1),
		DetailBox:  lipgloss.NewStyle().Border(border).BorderForeground(lipgloss.Color("#626262")).Padding(0, 1),
		Header:     lipgloss.NewStyle().Bold(true),
		Selected:   lipgloss.NewStyle().Reverse(true),
		Unselected: lipgloss.NewStyle(),
		Muted:      lipgloss.NewStyle().Foreground(lipgloss.Color("#626262")),
		StatusBar:  lipgloss.NewStyle().Foreground(lipgloss.Color("#626262")),
	}
}

// row is one visible list line: a top-level frame or one of its elided
// children.
type row struct {
	top   int
	child int // -1 for the top-level frame itself
}

// Model is the bubbletea model of the browser.
type Model struct {
	frames   []frame.Frame
	rows     []row
	expanded map[int]bool
	selected int

	theme    render.Theme
	styles   Styles
	viewport viewport.Model

	ready       bool
	width       int
	height      int
	listWidth   int
	detailWidth int
}

// New creates a browser over frames.
func New(frames []frame.Frame, theme render.Theme) Model {
	m := Model{
		frames:   frames,
		expanded: make(map[int]bool),
		theme:    theme,
		styles:   DefaultStyles(),
		viewport: viewport.New(0, 0),
	}
	m.rebuildRows()
	return m
}

// Run starts the browser and blocks until the user quits.
func Run(ctx context.Context, m Model, in io.Reader, out io.Writer) error {
	program := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
		tea.WithAltScreen(),
	)
	_, err := program.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.selected > 0 {
				m.selected--
				m.refreshViewport()
			}
			return m, nil
		case "down", "j":
			if m.selected < len(m.rows)-1 {
				m.selected++
				m.refreshViewport()
			}
			return m, nil
		case "enter", " ":
			m.toggle()
			return m, nil
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.listWidth = m.calculateListWidth()
		if m.listWidth < 24 {
			m.listWidth = 24
		}
		if m.listWidth > m.width/2 {
			m.listWidth = m.width / 2
		}
		m.detailWidth = m.width - m.listWidth - 1
		m.viewport.Width = max(m.detailWidth-4, 1)
		m.viewport.Height = max(m.height-8, 1)
		m.ready = true
		m.refreshViewport()
	}
	return m, nil
}

// Selected returns the frame under the cursor.
func (m Model) Selected() (frame.Frame, bool) {
	if m.selected < 0 || m.selected >= len(m.rows) {
		return frame.Frame{}, false
	}
	return m.frameAt(m.rows[m.selected]), true
}

// Expanded reports whether the top-level frame at index i shows its elided
// children.
func (m Model) Expanded(i int) bool {
	return m.expanded[i]
}

func (m Model) frameAt(r row) frame.Frame {
	f := m.frames[r.top]
	if r.child >= 0 {
		return f.Elided[r.child]
	}
	return f
}

func (m *Model) toggle() {
	if m.selected >= len(m.rows) {
		return
	}
	top := m.rows[m.selected].top
	if len(m.frames[top].Elided) == 0 {
		return
	}
	m.expanded[top] = !m.expanded[top]
	m.rebuildRows()
	for i, r := range m.rows {
		if r.top == top && r.child < 0 {
			m.selected = i
			break
		}
	}
	m.refreshViewport()
}

func (m *Model) rebuildRows() {
	rows := make([]row, 0, len(m.frames))
	for i, f := range m.frames {
		rows = append(rows, row{top: i, child: -1})
		if m.expanded[i] {
			for j := range f.Elided {
				rows = append(rows, row{top: i, child: j})
			}
		}
	}
	m.rows = rows
}

func (m *Model) calculateListWidth() int {
	maxWidth := 0
	for _, r := range m.rows {
		if w := lipgloss.Width(m.rowText(r)); w > maxWidth {
			maxWidth = w
		}
	}
	return maxWidth + 4
}

func (m *Model) refreshViewport() {
	f, ok := m.Selected()
	if !ok {
		m.viewport.SetContent("No frames")
		return
	}
	m.viewport.SetContent(m.detail(f))
	m.viewport.GotoTop()
}

// detail describes f, resolving its argument values.
func (m Model) detail(f frame.Frame) string {
	var sb strings.Builder
	field := func(label, value string) {
		if value == "" {
			return
		}
		sb.WriteString(m.styles.Muted.Render(fmt.Sprintf("%-9s", label)))
		sb.WriteString(" " + value + "\n")
	}
	field("function", f.Function)
	if f.Filename != "" {
		loc := f.Filename
		if f.Line > 0 {
			loc += ":" + strconv.Itoa(f.Line)
		}
		field("location", loc)
	}
	field("address", f.Address)

	switch {
	case f.Args == nil:
	case len(f.Args) == 0:
		sb.WriteString("\n" + m.styles.Header.Render("arguments") + "\n")
		sb.WriteString(m.styles.Muted.Render("  (none)") + "\n")
	default:
		sb.WriteString("\n" + m.styles.Header.Render("arguments") + "\n")
		for _, a := range f.Args {
			sb.WriteString("  " + a.Symbol + " = " + render.ValueText(f, a) + "\n")
		}
	}

	if n := len(f.Elided); n > 0 {
		sb.WriteString("\n" + m.styles.Header.Render(fmt.Sprintf("elided frames (%d)", n)) + "\n")
		for _, e := range f.Elided {
			sb.WriteString("  #" + strconv.Itoa(e.Level) + " " + e.Function + render.Location(e) + "\n")
		}
	}
	return sb.String()
}

func (m Model) rowText(r row) string {
	f := m.frameAt(r)
	label := "#" + strconv.Itoa(f.Level) + " " + f.Function
	if r.child >= 0 {
		return "    " + label
	}
	switch {
	case len(f.Elided) == 0:
		return "  " + label
	case m.expanded[r.top]:
		return "▾ " + label
	default:
		return "▸ " + label + m.styles.Muted.Render(fmt.Sprintf(" [+%d]", len(f.Elided)))
	}
}

func (m Model) View() string {
	if !m.ready {
		return "Loading frames..."
	}

	contentHeight := max(m.height-6, 3)
	lineWidth := max(m.listWidth-4, 8)

	// Keep the cursor visible by scrolling the list window.
	start := 0
	if m.selected >= contentHeight {
		start = m.selected - contentHeight + 1
	}
	var listLines []string
	for i := start; i < len(m.rows) && len(listLines) < contentHeight; i++ {
		text := ansi.Truncate(m.rowText(m.rows[i]), lineWidth, "…")
		if i == m.selected {
			listLines = append(listLines, m.styles.Selected.Width(lineWidth).Render(ansi.Strip(text)))
		} else {
			listLines = append(listLines, m.styles.Unselected.Render(text))
		}
	}
	for len(listLines) < contentHeight {
		listLines = append(listLines, "")
	}
	listPanel := m.styles.ListBox.Width(m.listWidth).Render(strings.Join(listLines, "\n"))

	header := "No frames"
	if f, ok := m.Selected(); ok {
		header = render.NewTerminal(m.theme, m.detailWidth).FrameLine(frame.Frame{
			Level:    f.Level,
			Function: f.Function,
			Filename: f.Filename,
			Line:     f.Line,
		})
	}
	detailLines := strings.Split(ansi.Truncate(header, max(m.detailWidth-4, 8), "…")+"\n\n"+m.viewport.View(), "\n")
	for len(detailLines) < contentHeight {
		detailLines = append(detailLines, "")
	}
	if len(detailLines) > contentHeight {
		detailLines = detailLines[:contentHeight]
	}
	detailPanel := m.styles.DetailBox.Width(m.detailWidth).Render(strings.Join(detailLines, "\n"))

	title := m.styles.Title.Render(fmt.Sprintf("btfilter  %d frames", frame.Count(m.frames)))
	panels := lipgloss.JoinHorizontal(lipgloss.Top, listPanel, detailPanel)
	help := m.styles.StatusBar.Render("↑/↓ navigate • enter expand • q quit")
	return lipgloss.JoinVertical(lipgloss.Left, title, panels, help)
}
