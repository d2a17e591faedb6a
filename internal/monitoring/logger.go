// Package monitoring holds the diagnostic logger shared by the flattening
// stages and the command-line tools.
package monitoring

import "log"

// Logf is the package-level diagnostic logger. It defaults to log.Printf but
// may be replaced by SetLogger; the pipeline writes stage summaries and
// flushed diagnostics through it.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil mutes it.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// StageLogf returns a logger that tags every line with stage. It resolves
// Logf at call time, so a later SetLogger still takes effect.
func StageLogf(stage string) func(format string, v ...interface{}) {
	return func(format string, v ...interface{}) {
		Logf("["+stage+"] "+format, v...)
	}
}
