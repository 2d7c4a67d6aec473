// Package logging builds the diagnostic logger shared by btfilter's
// commands. Diagnostics go to stderr so they never mix with rendered
// backtraces on stdout.
package logging

import (
	"io"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
)

// EnvDebug enables debug logging when set to a true value or any
// non-boolean, non-empty string.
const EnvDebug = "BTFILTER_DEBUG"

// New returns a text logger writing to w at warn level, or debug level when
// debug is true.
func New(w io.Writer, debug bool) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
		DisableColors:    true,
	})
	l.SetLevel(logrus.WarnLevel)
	if debug {
		l.SetLevel(logrus.DebugLevel)
	}
	return l
}

// Discard returns a logger that drops everything.
func Discard() *logrus.Logger {
	return New(io.Discard, false)
}

// DebugFromEnv reports whether EnvDebug requests debug output.
func DebugFromEnv() bool {
	v := os.Getenv(EnvDebug)
	if v == "" {
		return false
	}
	if b, err := strconv.ParseBool(v); err == nil {
		return b
	}
	return true
}
