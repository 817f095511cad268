// Package output renders CLI results as text or JSON and carries the
// small presentation helpers (tables, addresses, status prefixes) the
// commands share.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Format selects how results are rendered.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatAuto Format = "auto"
)

// ParseFormat maps a user-supplied format flag to a Format. Unknown
// values fall back to auto so detection decides.
func ParseFormat(s string) Format {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON
	case "text":
		return FormatText
	default:
		return FormatAuto
	}
}

// DetectFormat resolves auto to text on a terminal and JSON everywhere
// else, so piped output stays machine-readable. An explicit format is
// returned unchanged.
func DetectFormat(w io.Writer, explicit Format) Format {
	if explicit != FormatAuto {
		return explicit
	}
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) { //nolint:gosec // G115: Fd fits in int on supported platforms
		return FormatText
	}
	return FormatJSON
}

// Formatter renders values to a writer in a fixed format.
type Formatter struct {
	format Format
	writer io.Writer
}

// NewFormatter creates a formatter. The format should already be
// resolved; pass FormatAuto through DetectFormat first.
func NewFormatter(format Format, w io.Writer) *Formatter {
	return &Formatter{format: format, writer: w}
}

// Format returns the resolved output format.
func (f *Formatter) Format() Format { return f.format }

// Writer returns the destination writer.
func (f *Formatter) Writer() io.Writer { return f.writer }

// IsJSON reports whether the formatter emits JSON.
func (f *Formatter) IsJSON() bool { return f.format == FormatJSON }

// Print renders v: indented JSON in JSON mode, a plain line otherwise.
func (f *Formatter) Print(v any) error {
	if f.IsJSON() {
		return encodeJSON(f.writer, v)
	}
	switch val := v.(type) {
	case string:
		_, err := fmt.Fprintln(f.writer, val)
		return err
	case fmt.Stringer:
		_, err := fmt.Fprintln(f.writer, val.String())
		return err
	default:
		_, err := fmt.Fprintf(f.writer, "%v\n", val)
		return err
	}
}

// encodeJSON writes v as two-space-indented JSON with a trailing newline.
func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
