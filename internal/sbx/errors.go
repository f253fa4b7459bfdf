package sbx

import (
	"fmt"
	"strings"
)

// ProcessError reports a sandbox binary invocation that exited non-zero.
// The message prefers stderr and falls back to stdout, which is where the
// binary writes its own failure explanations.
type ProcessError struct {
	Command  string
	ExitCode int
	Output   string
}

func (e *ProcessError) Error() string {
	if strings.TrimSpace(e.Output) != "" {
		return strings.TrimSpace(e.Output)
	}
	return fmt.Sprintf("sbx %s exited with code %d", e.Command, e.ExitCode)
}

// ParseError reports that a status or config call produced output that is
// not valid JSON.
type ParseError struct {
	Command string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("sbx %s returned invalid JSON: %v", e.Command, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

const (
	setuidHint = "The sandbox helper usually needs to be installed with elevated permissions; re-run the sandbox binary's install step (e.g. `sudo sbx install`) and try again."
	binaryHint = "The sandbox binary could not be found. Check the binary_path setting in the sbxpanel config file, or make sure the binary is on PATH."
)

// Hint turns a gateway error into the message shown to the user,
// appending a remediation hint for the two failure shapes people actually
// hit: missing setuid installation and a missing binary.
func Hint(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "setuid") ||
		strings.Contains(lower, "permission denied") ||
		strings.Contains(lower, "operation not permitted") ||
		strings.Contains(lower, "insufficient permissions"):
		return msg + "\n" + setuidHint
	case strings.Contains(lower, "executable file not found") ||
		strings.Contains(lower, "no such file or directory") ||
		strings.Contains(lower, "not found"):
		return msg + "\n" + binaryHint
	}
	return msg
}
