// Package ploterrors defines the error taxonomy shared by every stage of
// the render pipeline: each error carries a Kind so the task-state
// collaborator (internal/task) can report a stable, machine-readable
// failure reason without string-matching messages.
package ploterrors

import "fmt"

// Kind discriminates the five error families the pipeline can raise.
// The zero value is never produced by this package.
type Kind string

const (
	// Stream errors originate from the stream generator boundary.
	KindTruncated Kind = "stream.truncated"
	KindTimeout   Kind = "stream.timeout"
	KindTransport Kind = "stream.transport"
	KindMalformed Kind = "stream.malformed"

	// Axis errors originate from axis-range resolution.
	KindAxisOutOfRange Kind = "axis.out_of_range"
	KindAxisMissing    Kind = "axis.missing"

	// Render errors originate from geom rendering.
	KindRenderBackend    Kind = "render.backend"
	KindMissingFill      Kind = "render.missing_fill"
	KindInvalidColor     Kind = "render.invalid_color"

	// Encode errors originate from PNG/wire serialization.
	KindEncodePNG   Kind = "encode.png"
	KindSerialize   Kind = "encode.serialize"

	// Upload errors originate from the upload collaborator.
	KindUploadTransport Kind = "upload.transport"
	KindUploadRejected  Kind = "upload.rejected"
)

// Error is the single error type every pipeline stage returns. Kind
// selects the family; Err, when non-nil, wraps the underlying cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// Unwrap exposes the wrapped cause to errors.Is/errors.As.
func (e *Error) Unwrap() error { return e.Err }

// New builds a Kind-tagged error with no wrapped cause.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Wrap builds a Kind-tagged error around an underlying cause.
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// As reports whether err is (or wraps) a *Error and returns it.
func As(err error) (*Error, bool) {
	var e *Error
	if ok := errorsAs(err, &e); ok {
		return e, true
	}
	return nil, false
}

// errorsAs is a small hand-written stand-in for errors.As (it follows
// single Unwrap chains only) kept local so callers of this package only
// ever import ploterrors, never errors, to check kind.
func errorsAs(err error, target **Error) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			*target = e
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
