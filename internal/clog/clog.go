// Package clog provides the process-wide progress/error logging used by
// the aeronav command line tool. It mirrors the quiet-flag-gated info()
// and always-on error() pair found throughout the tools this program was
// modeled after: informational progress goes to stdout and is suppressed
// by -quiet, errors always go to stderr prefixed "Error:".
package clog

import (
	"fmt"
	"os"
	"sync/atomic"
)

var quiet atomic.Bool

// SetQuiet sets the process-wide quiet flag. It is the only mutable
// global state outside the loaded catalog.
func SetQuiet(v bool) {
	quiet.Store(v)
}

// Quiet reports the current value of the quiet flag.
func Quiet() bool {
	return quiet.Load()
}

// Info prints a progress line to stdout unless quiet is set.
func Info(format string, args ...interface{}) {
	if quiet.Load() {
		return
	}
	fmt.Fprintf(os.Stdout, format+"\n", args...)
}

// Error prints an error line to stderr, always, prefixed "Error:".
func Error(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}
