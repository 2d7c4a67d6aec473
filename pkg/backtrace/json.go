package backtrace

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dkoosis/btfilter/pkg/frame"
)

// JSONFrame is the wire form of one frame.
type JSONFrame struct {
	Level    int        `json:"level"`
	Address  string     `json:"address,omitempty"`
	Function string     `json:"function"`
	File     string     `json:"file,omitempty"`
	Line     int        `json:"line,omitempty"`
	Args     *[]JSONArg `json:"args,omitempty"`
}

// JSONArg is the wire form of one argument. A nil Value means the value was
// not captured; Error records why evaluation failed.
type JSONArg struct {
	Name  string  `json:"name"`
	Value *string `json:"value,omitempty"`
	Error string  `json:"error,omitempty"`
}

type jsonDocument struct {
	Frames []JSONFrame `json:"frames"`
}

// ReadJSON decodes a frame array or a {"frames": [...]} document. A frame
// without an "args" key has an absent argument list.
func ReadJSON(data []byte) ([]frame.Frame, error) {
	data = bytes.TrimSpace(data)
	var wire []JSONFrame
	if len(data) > 0 && data[0] == '[' {
		if err := json.Unmarshal(data, &wire); err != nil {
			return nil, fmt.Errorf("decoding frames: %w", err)
		}
	} else {
		var doc jsonDocument
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decoding frames: %w", err)
		}
		wire = doc.Frames
	}

	frames := make([]frame.Frame, 0, len(wire))
	for i, jf := range wire {
		if jf.Function == "" {
			return nil, fmt.Errorf("frame %d: missing function", i)
		}
		frames = append(frames, jf.toFrame())
	}
	return frames, nil
}

func (jf JSONFrame) toFrame() frame.Frame {
	f := frame.Frame{
		Level:    jf.Level,
		Address:  jf.Address,
		Function: jf.Function,
		Filename: jf.File,
		Line:     jf.Line,
	}
	if jf.Args == nil {
		return f
	}
	f.Args = make([]frame.Arg, 0, len(*jf.Args))
	var h staticHandle
	for _, ja := range *jf.Args {
		switch {
		case ja.Value != nil:
			f.Args = append(f.Args, frame.NewArgValue(ja.Name, *ja.Value))
		default:
			f.Args = append(f.Args, frame.NewArg(ja.Name))
			if ja.Error != "" {
				if h == nil {
					h = staticHandle{}
				}
				h[ja.Name] = errors.New(ja.Error)
			}
		}
	}
	if h != nil {
		f.Handle = h
	}
	return f
}
