// Package monitoring holds the diagnostic logging hook shared by the
// analysis stages.
package monitoring

import "log"

// Logf is the package-level diagnostic logger. It defaults to log.Printf and
// may be replaced by SetLogger, for example to mute stage chatter in tests.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil will set a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// Componentf logs through Logf with a "[component] " prefix.
func Componentf(component, format string, v ...interface{}) {
	Logf("["+component+"] "+format, v...)
}
