package output

import (
	"errors"
	"fmt"
	"io"

	stakeerr "github.com/turkyfun/stakectl/pkg/errors"
)

// ErrorOutput is the JSON envelope for a failed command.
type ErrorOutput struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries the structured error fields.
type ErrorDetail struct {
	Code       string            `json:"code"`
	Message    string            `json:"message"`
	Details    map[string]string `json:"details,omitempty"`
	Suggestion string            `json:"suggestion,omitempty"`
	ExitCode   int               `json:"exit_code"`
}

// errorDetail extracts the structured fields from err. Plain errors get
// the generic code so the JSON envelope stays uniform.
func errorDetail(err error) ErrorDetail {
	var se *stakeerr.StakeError
	if errors.As(err, &se) {
		return ErrorDetail{
			Code:       se.Code,
			Message:    se.Message,
			Details:    se.Details,
			Suggestion: se.Suggestion,
			ExitCode:   se.ExitCode,
		}
	}
	return ErrorDetail{
		Code:     "GENERAL_ERROR",
		Message:  err.Error(),
		ExitCode: stakeerr.ExitGeneral,
	}
}

// FormatError renders err to w in the given format. A nil err writes
// nothing.
func FormatError(w io.Writer, err error, format Format) error {
	if err == nil {
		return nil
	}

	detail := errorDetail(err)
	if format == FormatJSON {
		return encodeJSON(w, ErrorOutput{Error: detail})
	}

	if _, werr := fmt.Fprintf(w, "Error: %s\n", detail.Message); werr != nil {
		return werr
	}
	if len(detail.Details) > 0 {
		if _, werr := fmt.Fprintln(w, "\nDetails:"); werr != nil {
			return werr
		}
		for k, v := range detail.Details {
			if _, werr := fmt.Fprintf(w, "  %s: %s\n", k, v); werr != nil {
				return werr
			}
		}
	}
	if detail.Suggestion != "" {
		if _, werr := fmt.Fprintf(w, "\nSuggestion: %s\n", detail.Suggestion); werr != nil {
			return werr
		}
	}
	return nil
}
