package errors

import (
	stderrors "errors"
	"fmt"
	"sort"
	"strings"
)

// FormatForCLI formats an error for terminal display: the message, an
// optional hint and the code. Errors without a code print their message only.
func FormatForCLI(err error) string {
	if err == nil {
		return ""
	}

	var e *Error
	if !stderrors.As(err, &e) {
		return fmt.Sprintf("Error: %s\n", err.Error())
	}

	var sb strings.Builder

	msg := e.Message
	if e.Cause != nil && e.Cause.Error() != msg {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	sb.WriteString(fmt.Sprintf("Error: %s\n", msg))

	if len(e.Details) > 0 {
		keys := make([]string, 0, len(e.Details))
		for k := range e.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			sb.WriteString(fmt.Sprintf("  %s: %s\n", k, e.Details[k]))
		}
	}

	if e.Suggestion != "" {
		sb.WriteString(fmt.Sprintf("  Hint: %s\n", e.Suggestion))
	}

	sb.WriteString(fmt.Sprintf("  Code: %s\n", e.Code))

	return sb.String()
}
