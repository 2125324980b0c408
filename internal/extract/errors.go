package extract

import (
	"errors"
	"fmt"
)

// ErrEmptyDocument indicates a supported document that yielded no text,
// including corrupt or password-protected files.
var ErrEmptyDocument = errors.New("document contains no extractable text")

// UnsupportedFormatError indicates a media type outside the supported set.
type UnsupportedFormatError struct {
	MediaType string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported media type: %s", e.MediaType)
}
