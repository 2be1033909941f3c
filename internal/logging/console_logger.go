package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// ConsoleLogger writes one line per message to a writer, stderr by default.
// Safe for concurrent use by multiple goroutines.
type ConsoleLogger struct {
	out     io.Writer
	verbose bool
	mu      sync.Mutex
}

// NewConsoleLogger logs to stderr. Verbose messages are dropped unless verbose is set.
func NewConsoleLogger(verbose bool) *ConsoleLogger {
	return NewWriterLogger(os.Stderr, verbose)
}

// NewWriterLogger logs to w.
func NewWriterLogger(w io.Writer, verbose bool) *ConsoleLogger {
	return &ConsoleLogger{out: w, verbose: verbose}
}

func (l *ConsoleLogger) Verbose(format string, args ...interface{}) {
	if !l.verbose {
		return
	}
	l.write("[VERBOSE] ", format, args)
}

func (l *ConsoleLogger) Info(format string, args ...interface{}) {
	l.write("", format, args)
}

func (l *ConsoleLogger) Error(format string, args ...interface{}) {
	l.write("[ERROR] ", format, args)
}

func (l *ConsoleLogger) write(prefix, format string, args []interface{}) {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprint(l.out, prefix+msg+"\n")
}

// Timer reports the time since start through logger.Verbose as
// "<label>: <seconds> seconds". Use with defer:
//
//	defer logging.Timer(logger, "serialize orders")()
func Timer(logger interface{ Verbose(string, ...interface{}) }, label string) func() {
	start := time.Now()
	return func() {
		logger.Verbose("%s: %.3f seconds", label, time.Since(start).Seconds())
	}
}
