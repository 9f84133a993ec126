package elam

import "fmt"

// LineError reports a fatal input problem at a 1-based source line.
// Err wraps one of the errors package sentinels
// (ErrUnexpectedContext, ErrMalformedNumber, ErrFieldCount).
type LineError struct {
	Line int
	Text string
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}
