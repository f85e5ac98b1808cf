// Package monitoring routes unexpected errors to an error tracker.
package monitoring

import "time"

// Monitor defines methods used for error reporting.
type Monitor interface {
	CaptureException(err error, tags map[string]string)
	Recover()
	Flush(timeout time.Duration)
}

type NopMonitor struct{}

func (NopMonitor) CaptureException(error, map[string]string) {}
func (NopMonitor) Recover()                                  {}
func (NopMonitor) Flush(time.Duration)                       {}

var current Monitor = NopMonitor{}

// Init sets the global monitor implementation.
func Init(m Monitor) {
	if m != nil {
		current = m
	}
}

// Current returns the global monitor.
func Current() Monitor { return current }

// CaptureException records the error with optional tags.
func CaptureException(err error, tags map[string]string) {
	if err == nil {
		return
	}
	current.CaptureException(err, tags)
}

// Capture records err with tags given as alternating key/value pairs. A
// trailing key without value is ignored.
func Capture(err error, kv ...string) {
	tags := make(map[string]string, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		tags[kv[i]] = kv[i+1]
	}
	CaptureException(err, tags)
}

// Recover captures panics in goroutines.
func Recover() {
	current.Recover()
}

// Flush flushes buffered events.
func Flush(d time.Duration) {
	current.Flush(d)
}
