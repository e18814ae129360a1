// Package errors renders command failures for the terminal.
package errors

import (
	stderrors "errors"
	"fmt"
	"os"
	"strings"

	"github.com/julianstephens/carelog/internal/logger"
	"github.com/julianstephens/carelog/internal/service"
	"github.com/julianstephens/carelog/internal/validation"
)

// Format formats an error with a consistent "Error: " prefix.
// Validation failures are expanded into one line per field.
func Format(err error) string {
	if err == nil {
		return ""
	}
	var verrs validation.Errors
	if stderrors.As(err, &verrs) {
		return "Error: " + strings.TrimRight(verrs.FormatReport(), "\n")
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats a message with a consistent "Error: " prefix
func Formatf(format string, args ...any) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// ExitCode maps an error onto a process exit status
func ExitCode(err error) int {
	var verrs validation.Errors
	switch {
	case err == nil:
		return 0
	case stderrors.As(err, &verrs):
		return 2
	case stderrors.Is(err, service.ErrNotFound):
		return 3
	case stderrors.Is(err, service.ErrDuplicateDailyLog), stderrors.Is(err, service.ErrDuplicateSleepLog),
		stderrors.Is(err, service.ErrDuplicateUser):
		return 4
	case stderrors.Is(err, service.ErrUnauthorized):
		return 5
	default:
		return 1
	}
}

// Fatal logs err, prints it and exits with ExitCode(err). A nil error is a no-op.
func Fatal(err error) {
	if err == nil {
		return
	}
	logger.Error("Command execution failed", "error", err)
	fmt.Fprintln(os.Stderr, Format(err))
	os.Exit(ExitCode(err))
}

// Fatalf logs and prints a formatted message, then exits with status 1
func Fatalf(format string, args ...any) {
	logger.Error("Command execution failed", "error", fmt.Sprintf(format, args...))
	fmt.Fprintln(os.Stderr, Formatf(format, args...))
	os.Exit(1)
}
