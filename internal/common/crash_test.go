package common

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCrashReport(t *testing.T) {
	report := CrashReport("boom", "goroutine 1 [running]:")

	assert.Contains(t, report, "=== JOUHOU CRASH REPORT ===")
	assert.Contains(t, report, "boom")
	assert.Contains(t, report, "goroutine 1 [running]:")
	assert.Contains(t, report, GetFullVersion())
}

func TestRecoverRunSetsExitCode(t *testing.T) {
	exitCode := 0

	func() {
		defer RecoverRun(nil, &exitCode)
		panic("unexpected")
	}()

	assert.Equal(t, 1, exitCode)
}

func TestRecoverRunWithoutPanic(t *testing.T) {
	exitCode := 0

	func() {
		defer RecoverRun(nil, &exitCode)
	}()

	assert.Equal(t, 0, exitCode)
}

func TestHandlePanicWritesReport(t *testing.T) {
	var buf bytes.Buffer

	handlePanic(nil, &buf, "bad state", "stack")

	assert.Contains(t, buf.String(), "bad state")
	assert.Contains(t, buf.String(), "=== STACK TRACE ===")
}
