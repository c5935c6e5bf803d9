package errors

import (
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"
)

var (
	// DefaultHandler is the global error handler.
	// It defaults to LogHandler with verbose=false.
	DefaultHandler ErrorHandler = NewLogHandler(nil)

	handlerMu sync.RWMutex
)

// SetHandler configures the global error handler.
// Pass nil to restore the default LogHandler.
func SetHandler(h ErrorHandler) {
	handlerMu.Lock()
	defer handlerMu.Unlock()
	if h == nil {
		DefaultHandler = NewLogHandler(nil)
	} else {
		DefaultHandler = h
	}
}

// getHandler returns the current error handler.
func getHandler() ErrorHandler {
	handlerMu.RLock()
	defer handlerMu.RUnlock()
	return DefaultHandler
}

// Report sends an error to the global handler.
// If err.Timestamp is zero, it is set to the current time.
func Report(err *ComposeError) {
	if err == nil {
		return
	}
	if err.Timestamp.IsZero() {
		err.Timestamp = time.Now()
	}
	if h := getHandler(); h != nil {
		h.HandleError(err)
	}
}

// ReportErr wraps err into a ComposeError of the given kind and reports it.
// A nil err is ignored.
func ReportErr(op string, kind ErrorKind, err error) {
	if err == nil {
		return
	}
	Report(&ComposeError{Op: op, Kind: kind, Err: err})
}

// ReportPanic sends a panic error to the global handler.
func ReportPanic(err *PanicError) {
	if err == nil {
		return
	}
	if h := getHandler(); h != nil {
		h.HandlePanic(err)
	}
}

// Recover is a helper for deferred panic recovery.
// Usage: defer errors.Recover("operation.name")
func Recover(op string) {
	if r := recover(); r != nil {
		ReportPanic(&PanicError{
			Op:         op,
			Value:      r,
			StackTrace: CaptureStack(),
			Timestamp:  time.Now(),
		})
	}
}

// RecoverInto is like Recover but stores the PanicError in *dst instead of
// only reporting it, so construction code can turn a panicking hook into a
// returned error.
func RecoverInto(op string, dst *error) {
	if r := recover(); r != nil {
		pe := &PanicError{
			Op:         op,
			Value:      r,
			StackTrace: CaptureStack(),
			Timestamp:  time.Now(),
		}
		ReportPanic(pe)
		if dst != nil {
			*dst = pe
		}
	}
}

// CaptureStack returns the current call stack as a string.
// It skips the first few frames to exclude the CaptureStack call itself.
func CaptureStack() string {
	const maxDepth = 32
	var pcs [maxDepth]uintptr
	n := runtime.Callers(3, pcs[:])
	if n == 0 {
		return ""
	}

	frames := runtime.CallersFrames(pcs[:n])
	var sb strings.Builder
	for {
		frame, more := frames.Next()
		sb.WriteString(frame.Function)
		sb.WriteString("\n\t")
		sb.WriteString(frame.File)
		sb.WriteString(":")
		sb.WriteString(strconv.Itoa(frame.Line))
		sb.WriteString("\n")
		if !more {
			break
		}
	}
	return sb.String()
}
