package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/nutrilog/internal/analyzer"
	"github.com/julianstephens/nutrilog/internal/foodlog"
	"github.com/julianstephens/nutrilog/internal/imageinput"
	"github.com/julianstephens/nutrilog/internal/logger"
	"github.com/julianstephens/nutrilog/internal/session"
	"github.com/julianstephens/nutrilog/internal/storage"
)

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	if hint := Hint(err); hint != "" {
		return fmt.Sprintf("Error: %v\n  %s", err, hint)
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Hint returns a next step for the known failure kinds, or "" when there is none.
func Hint(err error) string {
	switch {
	case err == nil:
		return ""
	case stderrors.Is(err, storage.ErrNotInitialized):
		return "Run 'nutrilog init' to create the food log."
	case stderrors.Is(err, foodlog.ErrCorruptRecord):
		return "Restore a snapshot with 'nutrilog backup restore'."
	case stderrors.Is(err, foodlog.ErrStorageUnavailable):
		return "Check that the food log file is writable and try again."
	case stderrors.Is(err, session.ErrMisuseBlocked):
		return "Only food and nutrition descriptions can be logged."
	case stderrors.Is(err, analyzer.ErrMalformedResponse):
		return "The analysis reply could not be read. Try a more detailed description."
	case stderrors.Is(err, analyzer.ErrAdapterFailure):
		return "Check your API key with 'nutrilog key status' and your network connection."
	case stderrors.Is(err, imageinput.ErrNotImage), stderrors.Is(err, imageinput.ErrTooLarge):
		return "Use a JPEG, PNG, GIF or WebP photo under 5 MB."
	}
	return ""
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}
