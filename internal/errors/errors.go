// Package errors provides structured error handling for the flipbook engine.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind identifies the category of an error.
type Kind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown Kind = iota
	// KindInvalidArgument indicates a rejected configuration or argument value.
	KindInvalidArgument
	// KindUnsupportedImage indicates an image type the raster paths cannot sample.
	KindUnsupportedImage
	// KindDimension indicates mismatched raster dimensions.
	KindDimension
	// KindIO indicates a failure reading or writing external data.
	KindIO
)

func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "invalid argument"
	case KindUnsupportedImage:
		return "unsupported image"
	case KindDimension:
		return "dimension"
	case KindIO:
		return "io"
	default:
		return "unknown"
	}
}

// Error is a categorized error raised by an engine operation.
type Error struct {
	// Op is the operation that failed (e.g. "state.SetBrushSize").
	Op string
	// Kind categorizes the error.
	Kind Kind
	// Err is the underlying error.
	Err error
}

// Sentinels for errors.Is. They match any *Error of the same Kind.
var (
	ErrInvalidArgument  = &Error{Kind: KindInvalidArgument}
	ErrUnsupportedImage = &Error{Kind: KindUnsupportedImage}
	ErrDimension        = &Error{Kind: KindDimension}
)

func (e *Error) Error() string {
	switch {
	case e.Op == "" && e.Err == nil:
		return e.Kind.String()
	case e.Err == nil:
		return fmt.Sprintf("%s [%s]", e.Op, e.Kind)
	case e.Op == "":
		return fmt.Sprintf("[%s]: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is a sentinel of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Op == "" && t.Err == nil && t.Kind == e.Kind
}

// New wraps err as an *Error.
func New(op string, kind Kind, err error) *Error {
	return &Error{Op: op, Kind: kind, Err: err}
}

// Newf builds an *Error with a formatted message.
func Newf(op string, kind Kind, format string, args ...any) *Error {
	return &Error{Op: op, Kind: kind, Err: fmt.Errorf(format, args...)}
}

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
