// -----------------------------------------------------------------------
// Crash Protection - Panic recovery for a single run
// -----------------------------------------------------------------------

package common

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	"github.com/ternarybob/arbor"
)

// CrashReport formats a panic value and stack trace into a report.
func CrashReport(panicVal interface{}, stackTrace string) string {
	var report bytes.Buffer

	report.WriteString("=== JOUHOU CRASH REPORT ===\n")
	report.WriteString(fmt.Sprintf("Time: %s\n", time.Now().Format(time.RFC3339)))
	report.WriteString(fmt.Sprintf("Version: %s\n", GetFullVersion()))
	report.WriteString(fmt.Sprintf("GOOS: %s GOARCH: %s\n", runtime.GOOS, runtime.GOARCH))
	report.WriteString("\n")

	report.WriteString("=== PANIC VALUE ===\n")
	report.WriteString(fmt.Sprintf("%v\n", panicVal))
	report.WriteString("\n")

	report.WriteString("=== STACK TRACE ===\n")
	report.WriteString(stackTrace)
	report.WriteString("\n")

	report.WriteString("=== END CRASH REPORT ===\n")
	return report.String()
}

// GetStackTrace returns the current goroutine's stack trace.
func GetStackTrace() string {
	buf := make([]byte, 8192)
	n := runtime.Stack(buf, false) // false = current goroutine only
	return string(buf[:n])
}

// RecoverRun converts a panic into exit code 1. The report goes to the logger
// when one is set and is always written to stderr.
// Usage: defer common.RecoverRun(logger, &exitCode)
func RecoverRun(logger arbor.ILogger, exitCode *int) {
	if r := recover(); r != nil {
		handlePanic(logger, os.Stderr, r, GetStackTrace())
		if exitCode != nil {
			*exitCode = 1
		}
	}
}

func handlePanic(logger arbor.ILogger, w io.Writer, panicVal interface{}, stackTrace string) {
	if logger != nil {
		logger.Error().
			Str("panic", fmt.Sprintf("%v", panicVal)).
			Msg("Run aborted by panic")
	}
	fmt.Fprintf(w, "%s", CrashReport(panicVal, stackTrace))
}
