package render

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoosis/btfilter/pkg/frame"
)

type stubHandle map[string]string

func (h stubHandle) Evaluate(symbol string) (string, error) {
	if v, ok := h[symbol]; ok {
		return v, nil
	}
	return "", errors.New("cannot access memory at address 0x0")
}

func sampleFrames() []frame.Frame {
	return []frame.Frame{
		{
			Level:    0,
			Address:  "0x401000",
			Function: "foo",
			Filename: "test.cc",
			Line:     10,
			Args:     []frame.Arg{frame.NewArgValue("x", "1"), frame.NewArg("p"), frame.NewArg("q")},
			Handle:   stubHandle{"p": "0x7ffe"},
			Elided: []frame.Frame{
				{Level: 1, Function: "[stdlib internal]", Filename: "vector.h", Folded: true},
				{Level: 2, Function: "[stdlib internal]", Filename: "algo.h", Folded: true},
			},
		},
		{Level: 3, Function: "main", Args: []frame.Arg{}, Filename: "/lib/libc.so.6"},
		{Level: 4, Function: "_start", Args: []frame.Arg{frame.NewArg("argc")}},
	}
}

func TestValueText(t *testing.T) {
	f := sampleFrames()[0]
	assert.Equal(t, "1", ValueText(f, f.Args[0]))
	assert.Equal(t, "0x7ffe", ValueText(f, f.Args[1]))
	assert.Equal(t, "<error: evaluating q: cannot access memory at address 0x0>", ValueText(f, f.Args[2]))

	noHandle := sampleFrames()[2]
	assert.Equal(t, OptimizedOut, ValueText(noHandle, noHandle.Args[0]))
}

func TestLocation(t *testing.T) {
	assert.Equal(t, " at a.cc:3", Location(frame.Frame{Filename: "a.cc", Line: 3}))
	assert.Equal(t, " from /lib/libc.so.6", Location(frame.Frame{Filename: "/lib/libc.so.6"}))
	assert.Equal(t, "", Location(frame.Frame{Line: 3}))
}

func TestPlain_Render(t *testing.T) {
	want := strings.Join([]string{
		"#0  0x401000 in foo (x=1, p=0x7ffe, q=<error: evaluating q: cannot access memory at address 0x0>) at test.cc:10",
		"    #1  [stdlib internal] from vector.h",
		"    #2  [stdlib internal] from algo.h",
		"#3  main () from /lib/libc.so.6",
		"#4  _start (argc=<optimized out>)",
		"",
	}, "\n")
	assert.Equal(t, want, NewPlain().Render(sampleFrames()))
}

func TestPlain_StripsEscapes(t *testing.T) {
	frames := []frame.Frame{{
		Level:    0,
		Function: "\x1b[30;45mfoo\x1b[m",
		Args:     []frame.Arg{frame.NewArgValue("x", "1").WithSymbol("\x1b[33mx\x1b[m")},
	}}
	assert.Equal(t, "#0  foo (x=1)\n", NewPlain().Render(frames))
}

func TestPlain_Empty(t *testing.T) {
	assert.Equal(t, "", NewPlain().Render(nil))
}

func TestTerminal_Render(t *testing.T) {
	out := NewTerminal(MonoTheme(), 200).Render(sampleFrames())
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 6)

	assert.Contains(t, lines[0], "#0  0x401000 in foo (x=1, p=0x7ffe, q=<error:")
	assert.Contains(t, lines[0], "at test.cc:10")
	assert.Contains(t, lines[1], "- #1  [stdlib internal] from vector.h")
	assert.Contains(t, lines[3], "#3  main () from /lib/libc.so.6")
	assert.Contains(t, lines[4], "#4  _start (argc=<optimized out>)")
	assert.Contains(t, lines[5], "2 std frames folded")
}

func TestTerminal_WrapsLongArgumentLists(t *testing.T) {
	f := frame.Frame{
		Level:    0,
		Function: "compute",
		Args: []frame.Arg{
			frame.NewArgValue("alpha", "1111111111"),
			frame.NewArgValue("beta", "2222222222"),
			frame.NewArgValue("gamma", "3333333333"),
		},
		Filename: "compute.cc",
		Line:     42,
	}
	out := NewTerminal(MonoTheme(), 40).Render([]frame.Frame{f})
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Greater(t, len(lines), 1)
	assert.True(t, strings.HasPrefix(lines[0], "#0  compute (alpha=1111111111,"))
	for _, l := range lines[1:] {
		assert.True(t, strings.HasPrefix(l, "    "), "continuation line %q", l)
	}
	joined := strings.Join(strings.Fields(out), " ")
	assert.Equal(t, "#0 compute (alpha=1111111111, beta=2222222222, gamma=3333333333) at compute.cc:42", joined)
}

func TestTerminal_FrameLine(t *testing.T) {
	f := frame.Frame{Level: 12, Function: "main", Args: []frame.Arg{}}
	assert.Equal(t, "#12  main ()", NewTerminal(MonoTheme(), 10).FrameLine(f))
}

func TestJSON_Render(t *testing.T) {
	out := NewJSON().Render(sampleFrames())

	var doc struct {
		Version string `json:"version"`
		Total   int    `json:"total"`
		Frames  []struct {
			Function string `json:"function"`
			Args     *[]struct {
				Name        string  `json:"name"`
				Value       *string `json:"value"`
				Unavailable bool    `json:"unavailable"`
				Error       string  `json:"error"`
			} `json:"args"`
			Elided []struct {
				Level  int  `json:"level"`
				Folded bool `json:"folded"`
			} `json:"elided"`
		} `json:"frames"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "1", doc.Version)
	assert.Equal(t, 5, doc.Total)
	require.Len(t, doc.Frames, 3)

	args := *doc.Frames[0].Args
	require.Len(t, args, 3)
	assert.Equal(t, "1", *args[0].Value)
	assert.Equal(t, "0x7ffe", *args[1].Value)
	assert.Nil(t, args[2].Value)
	assert.Contains(t, args[2].Error, "cannot access memory")
	require.Len(t, doc.Frames[0].Elided, 2)
	assert.True(t, doc.Frames[0].Elided[0].Folded)

	require.NotNil(t, doc.Frames[1].Args)
	assert.Empty(t, *doc.Frames[1].Args)
	assert.True(t, (*doc.Frames[2].Args)[0].Unavailable)
}

func TestThemeByName(t *testing.T) {
	assert.Equal(t, "orca", ThemeByName("orca").Name)
	assert.Equal(t, "mono", ThemeByName("mono").Name)
	assert.Equal(t, "default", ThemeByName("neon").Name)
}
