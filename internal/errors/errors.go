package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/bium/internal/lockfile"
	"github.com/julianstephens/bium/internal/logger"
	"github.com/julianstephens/bium/internal/planner"
)

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// ExitCode maps an error to a process exit code: 2 for bad input,
// 3 for missing entities, 4 when a running server holds the data, 1 otherwise.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case stderrors.Is(err, planner.ErrValidation), stderrors.Is(err, planner.ErrInvalidTransition):
		return 2
	case stderrors.Is(err, planner.ErrNotFound):
		return 3
	case stderrors.Is(err, lockfile.ErrServerRunning):
		return 4
	default:
		return 1
	}
}

// Fatal logs an error and exits the program with a code derived from err
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(ExitCode(err))
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}
