package render

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput indicates an empty LaTeX body; rejected before any
	// collaborator call.
	ErrEmptyInput = errors.New("latex body is empty")

	// ErrServiceUnavailable indicates the compilation service could not be
	// reached at all.
	ErrServiceUnavailable = errors.New("compilation service unavailable")

	// ErrArtifactFetch indicates compilation succeeded but the resulting
	// binary could not be retrieved.
	ErrArtifactFetch = errors.New("compiled artifact could not be fetched")
)

// CompileError indicates the compilation service ran and rejected the
// document. Diagnostics are surfaced verbatim; the body is the caller's own
// content and the message is what they need to fix it.
type CompileError struct {
	Diagnostics string
}

func (e *CompileError) Error() string {
	if e.Diagnostics == "" {
		return "compilation failed"
	}
	return fmt.Sprintf("compilation failed: %s", e.Diagnostics)
}
