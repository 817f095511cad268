package output

import (
	"fmt"
	"io"
)

// Status-line prefixes shared by the CLI and the notification sink so
// every surface marks outcomes the same way.
const (
	infoPrefix    = "ℹ️  "
	warnPrefix    = "⚠️  "
	successPrefix = "✅ "
)

// Info writes an informational status line.
func Info(w io.Writer, msg string) {
	_, _ = fmt.Fprintln(w, infoPrefix+msg)
}

// Infof writes a formatted informational status line.
func Infof(w io.Writer, format string, args ...any) {
	Info(w, fmt.Sprintf(format, args...))
}

// Warn writes a warning status line.
func Warn(w io.Writer, msg string) {
	_, _ = fmt.Fprintln(w, warnPrefix+msg)
}

// Warnf writes a formatted warning status line.
func Warnf(w io.Writer, format string, args ...any) {
	Warn(w, fmt.Sprintf(format, args...))
}

// Success writes a success status line.
func Success(w io.Writer, msg string) {
	_, _ = fmt.Fprintln(w, successPrefix+msg)
}

// Successf writes a formatted success status line.
func Successf(w io.Writer, format string, args ...any) {
	Success(w, fmt.Sprintf(format, args...))
}
