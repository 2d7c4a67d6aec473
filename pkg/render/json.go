package render

import (
	"encoding/json"
	"errors"

	"github.com/dkoosis/btfilter/pkg/frame"
)

// JSON renders frames as structured JSON for automation. Argument values
// are resolved; a failed evaluation is reported on that argument only.
type JSON struct{}

// NewJSON creates a JSON renderer.
func NewJSON() *JSON {
	return &JSON{}
}

type jsonOutput struct {
	Version string      `json:"version"`
	Total   int         `json:"total"`
	Frames  []jsonFrame `json:"frames"`
}

type jsonFrame struct {
	Level    int         `json:"level"`
	Address  string      `json:"address,omitempty"`
	Function string      `json:"function"`
	File     string      `json:"file,omitempty"`
	Line     int         `json:"line,omitempty"`
	Args     *[]jsonArg  `json:"args,omitempty"`
	Folded   bool        `json:"folded,omitempty"`
	Elided   []jsonFrame `json:"elided,omitempty"`
}

type jsonArg struct {
	Name        string  `json:"name"`
	Value       *string `json:"value,omitempty"`
	Unavailable bool    `json:"unavailable,omitempty"`
	Error       string  `json:"error,omitempty"`
}

// Render formats all frames as JSON.
func (j *JSON) Render(frames []frame.Frame) string {
	out := jsonOutput{
		Version: "1",
		Total:   frame.Count(frames),
		Frames:  toJSONFrames(frames),
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		errJSON, _ := json.Marshal(map[string]string{"error": err.Error()})
		return string(errJSON)
	}
	return string(data) + "\n"
}

func toJSONFrames(frames []frame.Frame) []jsonFrame {
	out := make([]jsonFrame, 0, len(frames))
	for _, f := range frames {
		f = stripped(f)
		jf := jsonFrame{
			Level:    f.Level,
			Address:  f.Address,
			Function: f.Function,
			File:     f.Filename,
			Line:     f.Line,
			Folded:   f.Folded,
		}
		if f.Args != nil {
			args := make([]jsonArg, 0, len(f.Args))
			for _, a := range f.Args {
				args = append(args, toJSONArg(f, a))
			}
			jf.Args = &args
		}
		if len(f.Elided) > 0 {
			jf.Elided = toJSONFrames(f.Elided)
		}
		out = append(out, jf)
	}
	return out
}

func toJSONArg(f frame.Frame, a frame.Arg) jsonArg {
	ja := jsonArg{Name: a.Symbol}
	v, err := f.ArgValue(a)
	switch {
	case err == nil:
		ja.Value = &v
	case errors.Is(err, frame.ErrUnavailable):
		ja.Unavailable = true
	default:
		ja.Error = err.Error()
	}
	return ja
}
