package extract

import (
	"errors"
	"fmt"

	"backoffice/internal/domain"
)

var errBlankText = errors.New("no text found")

// NoTextError reports that no strategy produced usable text. It matches
// domain.ErrTextExtraction with errors.Is.
type NoTextError struct {
	Err error
}

func (e *NoTextError) Error() string {
	return fmt.Sprintf("%v: %v", domain.ErrTextExtraction, e.Err)
}

func (e *NoTextError) Unwrap() error {
	return e.Err
}

func (e *NoTextError) Is(target error) bool {
	return target == domain.ErrTextExtraction
}

// recoverPanic converts a panic raised inside the PDF library into an error.
// The reader panics on some malformed cross-reference tables.
func recoverPanic(name string, err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("%s: pdf reader panic: %v", name, r)
	}
}
