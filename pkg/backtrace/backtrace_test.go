package backtrace

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoosis/btfilter/internal/detect"
	"github.com/dkoosis/btfilter/pkg/frame"
	"github.com/dkoosis/btfilter/pkg/render"
)

const sampleGDB = `warning: could not load shared library symbols
#0  0x0000555555555149 in Tests::foo (x=1, s=...) at src/test.cc:10
#1  0x00007ffff7e4a123 in std::__cxx11::basic_string<char, std::char_traits<char>, std::allocator<char> >::_M_construct<char const*> (this=0x7fffffffd8a0,
    __beg=0x555555556004 "hello", __end=<optimized out>) at /usr/include/c++/12/bits/basic_string.tcc:225
#2  0x00007ffff7c29d90 in __libc_start_call_main () from /lib/x86_64-linux-gnu/libc.so.6
#3  <signal handler called>
Run till exit
`

func TestParseGDB(t *testing.T) {
	frames, skipped, err := ParseGDB(strings.NewReader(sampleGDB))
	require.NoError(t, err)
	assert.Equal(t, 2, skipped)
	require.Len(t, frames, 4)

	f0 := frames[0]
	assert.Equal(t, 0, f0.Level)
	assert.Equal(t, "0x0000555555555149", f0.Address)
	assert.Equal(t, "Tests::foo", f0.Function)
	assert.Equal(t, "src/test.cc", f0.Filename)
	assert.Equal(t, 10, f0.Line)
	require.Len(t, f0.Args, 2)
	v, err := f0.ArgValue(f0.Args[0])
	require.NoError(t, err)
	assert.Equal(t, "1", v)
	v, err = f0.ArgValue(f0.Args[1])
	require.NoError(t, err)
	assert.Equal(t, "...", v)

	f1 := frames[1]
	assert.Equal(t, "std::__cxx11::basic_string<char, std::char_traits<char>, std::allocator<char> >::_M_construct<char const*>", f1.Function)
	assert.Equal(t, "/usr/include/c++/12/bits/basic_string.tcc", f1.Filename)
	assert.Equal(t, 225, f1.Line)
	require.Len(t, f1.Args, 3)
	assert.Equal(t, "__beg", f1.Args[1].Name())
	v, err = f1.ArgValue(f1.Args[1])
	require.NoError(t, err)
	assert.Equal(t, `0x555555556004 "hello"`, v)
	assert.False(t, f1.Args[2].Evaluated())

	f2 := frames[2]
	assert.Equal(t, "__libc_start_call_main", f2.Function)
	assert.Equal(t, "/lib/x86_64-linux-gnu/libc.so.6", f2.Filename)
	assert.Equal(t, 0, f2.Line)
	assert.NotNil(t, f2.Args)
	assert.Empty(t, f2.Args)

	f3 := frames[3]
	assert.Equal(t, "<signal handler called>", f3.Function)
	assert.Nil(t, f3.Args)
	assert.Empty(t, f3.Address)
}

func TestParseGDB_ValuePlaceholders(t *testing.T) {
	frames, _, err := ParseGDB(strings.NewReader("#0  0x1 in f (v=..., n=3, p=<optimized out>) at a.cc:1\n"))
	require.NoError(t, err)
	require.Len(t, frames, 1)
	assert.Equal(t, "#0  0x1 in f (v=..., n=3, p=<optimized out>) at a.cc:1\n", render.NewPlain().Render(frames))

	_, err = frames[0].ArgValue(frames[0].Args[2])
	assert.ErrorIs(t, err, frame.ErrUnavailable)
}

func TestParseGDB_OperatorCall(t *testing.T) {
	frames, _, err := ParseGDB(strings.NewReader("#4  0x1 in Functor::operator() (this=0x2) at f.cc:3\n"))
	require.NoError(t, err)
	require.Len(t, frames, 1)
	assert.Equal(t, "Functor::operator()", frames[0].Function)
	require.Len(t, frames[0].Args, 1)
	assert.Equal(t, "this", frames[0].Args[0].Name())
}

func TestSplitTopLevel(t *testing.T) {
	assert.Equal(t,
		[]string{"a={x = 1, y = 2}", " s=\"a, b\"", " c=99 'c'"},
		splitTopLevel(`a={x = 1, y = 2}, s="a, b", c=99 'c'`))
}

func TestReadJSON(t *testing.T) {
	frames, err := ReadJSON([]byte(`{"frames": [
		{"level": 0, "function": "oc::mosaic::run", "file": "run.cc", "line": 4,
		 "args": [{"name": "n", "value": "3"}, {"name": "p"}, {"name": "q", "error": "cannot access memory"}]},
		{"level": 1, "function": "main", "args": []},
		{"level": 2, "function": "_start", "address": "0x10"}
	]}`))
	require.NoError(t, err)
	require.Len(t, frames, 3)

	f0 := frames[0]
	assert.Equal(t, "run.cc", f0.Filename)
	v, err := f0.ArgValue(f0.Args[0])
	require.NoError(t, err)
	assert.Equal(t, "3", v)
	_, err = f0.ArgValue(f0.Args[1])
	assert.ErrorIs(t, err, frame.ErrUnavailable)
	_, err = f0.ArgValue(f0.Args[2])
	assert.ErrorContains(t, err, "cannot access memory")

	assert.NotNil(t, frames[1].Args)
	assert.Empty(t, frames[1].Args)
	assert.Nil(t, frames[2].Args)
	assert.Equal(t, "0x10", frames[2].Address)
}

func TestReadJSON_Errors(t *testing.T) {
	_, err := ReadJSON([]byte(`[{"level": 0}]`))
	assert.ErrorContains(t, err, "missing function")

	_, err = ReadJSON([]byte(`[{"level": "zero"}]`))
	assert.Error(t, err)
}

func TestRead(t *testing.T) {
	res, err := Read([]byte(`[{"level":0,"function":"main"}]`))
	require.NoError(t, err)
	assert.Equal(t, detect.JSON, res.Format)
	assert.Len(t, res.Frames, 1)

	res, err = Read([]byte(sampleGDB))
	require.NoError(t, err)
	assert.Equal(t, detect.GDB, res.Format)
	assert.Len(t, res.Frames, 4)
	assert.Equal(t, 2, res.Skipped)

	_, err = Read([]byte("hello"))
	assert.ErrorIs(t, err, ErrUnknownFormat)
}
