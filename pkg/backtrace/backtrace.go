// Package backtrace reads backtraces into frames. Two inputs are supported:
// a JSON frame list and the text GDB prints for "bt".
package backtrace

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/dkoosis/btfilter/internal/detect"
	"github.com/dkoosis/btfilter/pkg/frame"
)

// ErrUnknownFormat is returned by Read when the input is neither JSON nor
// GDB text.
var ErrUnknownFormat = errors.New("unrecognized backtrace format")

// Result is the outcome of reading a backtrace.
type Result struct {
	Frames []frame.Frame
	Format detect.Format

	// Skipped counts GDB lines that did not parse as frames.
	Skipped int
}

// Read sniffs data and decodes it with the matching reader.
func Read(data []byte) (*Result, error) {
	switch f := detect.Sniff(data); f {
	case detect.JSON:
		frames, err := ReadJSON(data)
		if err != nil {
			return nil, err
		}
		return &Result{Frames: frames, Format: f}, nil
	case detect.GDB:
		frames, skipped, err := ParseGDB(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		return &Result{Frames: frames, Format: f, Skipped: skipped}, nil
	default:
		return nil, fmt.Errorf("%w (want a JSON frame list or GDB bt output)", ErrUnknownFormat)
	}
}

// staticHandle answers evaluations from a fixed table. Symbols missing from
// the table are unavailable.
type staticHandle map[string]error

func (h staticHandle) Evaluate(symbol string) (string, error) {
	if err, ok := h[symbol]; ok {
		return "", err
	}
	return "", frame.ErrUnavailable
}
