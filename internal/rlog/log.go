// Package rlog is the core's process-wide logger. Every fallible
// operation in the rasterizer (spec.md §7) reports through here rather
// than returning an error, matching the taxonomy: resource allocation
// failures, binding mismatches and assertion failures all log at Error
// and the caller degrades to a no-op or zero value.
//
// No third-party structured logger is used: the teacher this repo is
// grounded on never imports one either (see DESIGN.md), so this wraps
// the standard library's log.Logger behind a mutex, matching spec.md
// §7's "Logging is single-threaded (internal mutex) and truncated to
// 1 KiB per record."
package rlog

import (
	"fmt"
	"log"
	"os"
	"sync"
)

// Level identifies the severity of a log record.
type Level int

// Log levels, most to least severe order not implied.
const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
)

func (l Level) String() string {
	switch l {
	case LevelError:
		return "ERROR"
	case LevelWarn:
		return "WARN"
	case LevelInfo:
		return "INFO"
	case LevelDebug:
		return "DEBUG"
	default:
		return "?"
	}
}

const maxRecordBytes = 1024

var (
	mu      sync.Mutex
	logger  = log.New(os.Stderr, "", log.LstdFlags)
	enabled = true
)

// SetOutput redirects future log records to w, or disables logging
// entirely when w is nil. Calls after disabling are no-ops, matching
// the "no teardown required" contract of a global logger (spec.md §9).
func SetOutput(w *log.Logger) {
	mu.Lock()
	defer mu.Unlock()
	if w == nil {
		enabled = false
		return
	}
	enabled = true
	logger = w
}

func emit(level Level, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	if !enabled {
		return
	}
	msg := sprintfTruncated(format, args...)
	logger.Printf("[%s] %s", level, msg)
}

func sprintfTruncated(format string, args ...any) string {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	if len(msg) > maxRecordBytes {
		return msg[:maxRecordBytes]
	}
	return msg
}

// Errorf logs a Resource-allocation-failure or Binding-mismatch class
// record (spec.md §7).
func Errorf(format string, args ...any) { emit(LevelError, format, args...) }

// Warnf logs a non-fatal condition below Error level; assertion failures
// are logged through Errorf instead.
func Warnf(format string, args ...any) { emit(LevelWarn, format, args...) }

// Infof logs routine informational output.
func Infof(format string, args ...any) { emit(LevelInfo, format, args...) }

// Debugf logs verbose diagnostic output.
func Debugf(format string, args ...any) { emit(LevelDebug, format, args...) }
