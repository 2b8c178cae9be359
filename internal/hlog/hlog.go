// Package hlog is a minimal leveled logger for trace messages; the root
// package traces plan construction with it and cmd/hefftectl each rank's
// plan sizes. It is silent by default so
// library use never writes to stderr unconditionally; cmd/hefftectl turns
// it on the way the teacher's client/server mains raise log.SetFlags for
// a debug build.
package hlog

import (
	"fmt"
	"log"
	"os"
	"sync/atomic"
)

var verbose int32

// SetVerbose toggles trace-level logging on or off process-wide.
func SetVerbose(on bool) {
	if on {
		atomic.StoreInt32(&verbose, 1)
	} else {
		atomic.StoreInt32(&verbose, 0)
	}
}

var logger = log.New(os.Stderr, "heffte: ", log.LstdFlags|log.Lshortfile)

// Tracef logs a formatted trace message when verbose logging is enabled.
func Tracef(format string, args ...any) {
	if atomic.LoadInt32(&verbose) == 0 {
		return
	}
	logger.Output(2, fmt.Sprintf(format, args...))
}
