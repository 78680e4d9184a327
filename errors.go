package bloglet

import "fmt"

// ValidationError reports a post or snapshot that fails shape validation:
// missing required fields, or an import document without the expected
// posts sequence and categories map.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation: " + e.Reason
	}
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Reason)
}

// ParseError reports input that is not valid JSON. The underlying decoder
// error is retained for errors.Unwrap.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return "parse: " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// NotFoundError reports an operation that targets a post id not present
// in the store.
type NotFoundError struct {
	ID int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("post %d not found", e.ID)
}

// TooLargeError reports an image attachment over the intake size limit.
// Oversized files are rejected outright, never truncated.
type TooLargeError struct {
	Name string
	Size int64
	Max  int64
}

func (e *TooLargeError) Error() string {
	return fmt.Sprintf("image %q is %d bytes, limit is %d", e.Name, e.Size, e.Max)
}
