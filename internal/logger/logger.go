// Package logger provides verbose logging for docqa.
// When verbose mode is enabled via the --verbose flag, messages are
// printed to stderr to trace documents and questions through the
// retrieval pipeline. Nothing is printed otherwise.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
)

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput redirects verbose logs. Defaults to os.Stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// logf writes one line when verbose. Lines from concurrent callers do not
// interleave.
func logf(prefix, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	if !verbose {
		return
	}
	fmt.Fprintf(output, prefix+format+"\n", args...)
}

// Debug traces pipeline internals: batches, matches, cache hits.
func Debug(format string, args ...any) {
	logf("[DEBUG] ", format, args...)
}

// Info reports stage transitions.
func Info(format string, args ...any) {
	logf("[INFO] ", format, args...)
}

// Warn reports recoverable failures, such as a failed question in a batch.
func Warn(format string, args ...any) {
	logf("[WARN] ", format, args...)
}

// Section prints a header separating one document or question from the next.
func Section(name string) {
	logf("\n", "=== %s ===", name)
}

// Timed logs how long an operation took when the returned func is called.
// Typical use is defer logger.Timed("embedding")().
func Timed(name string) func() {
	start := time.Now()
	return func() {
		Debug("%s took %s", name, time.Since(start).Round(time.Millisecond))
	}
}
