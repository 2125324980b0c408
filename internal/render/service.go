// Package render turns a LaTeX body into a compiled PDF through an external
// compilation service. The service is consumed as a single blocking call; no
// retries happen here since compilation has external cost and content errors
// dominate transient ones.
package render

import (
	"context"
	"strings"
)

// Compiler is the narrow contract to the compilation collaborator. It
// returns the compiled binary, or one of the package error kinds:
// ErrServiceUnavailable, *CompileError, ErrArtifactFetch.
type Compiler interface {
	Compile(ctx context.Context, source string) ([]byte, error)
}

// Service wraps bodies into full documents and hands them to the Compiler.
type Service struct {
	Compiler Compiler
}

// Render compiles the given LaTeX body into a PDF. An empty trimmed body
// fails before any collaborator contact.
func (s *Service) Render(ctx context.Context, body string) ([]byte, error) {
	if strings.TrimSpace(body) == "" {
		return nil, ErrEmptyInput
	}

	source, err := WrapDocument(body)
	if err != nil {
		return nil, err
	}

	return s.Compiler.Compile(ctx, source)
}
