// Package detect sniffs input to determine the backtrace format.
package detect

import (
	"bufio"
	"bytes"
	"encoding/json"
	"regexp"
)

// Format represents a recognized input format.
type Format int

const (
	Unknown Format = iota
	JSON           // JSON frame array or {"frames": [...]} document
	GDB            // GDB "bt" text
)

func (f Format) String() string {
	switch f {
	case JSON:
		return "json"
	case GDB:
		return "gdb"
	default:
		return "unknown"
	}
}

var gdbFrameLine = regexp.MustCompile(`^#\d+\s`)

// Sniff examines input to determine its format.
func Sniff(data []byte) Format {
	data = bytes.TrimLeft(data, " \t\r\n")
	if len(data) == 0 {
		return Unknown
	}

	switch data[0] {
	case '[', '{':
		if isFrameJSON(data) {
			return JSON
		}
		return Unknown
	}

	if isGDB(data) {
		return GDB
	}
	return Unknown
}

func isFrameJSON(data []byte) bool {
	if data[0] == '[' {
		var probe []json.RawMessage
		return json.Unmarshal(data, &probe) == nil
	}
	var probe struct {
		Frames []json.RawMessage `json:"frames"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return false
	}
	return probe.Frames != nil
}

// isGDB reports whether any of the leading lines looks like a frame line.
// GDB may print warnings before the backtrace itself.
func isGDB(data []byte) bool {
	sc := bufio.NewScanner(bytes.NewReader(data))
	for i := 0; i < 16 && sc.Scan(); i++ {
		if gdbFrameLine.Match(sc.Bytes()) {
			return true
		}
	}
	return false
}
