package convert

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"

	imagepkg "github.com/youruser/imgconvert/internal/image"
)

// Kind classifies a failure for the caller.
type Kind int

const (
	KindInternal Kind = iota
	KindInput
	KindFetch
	KindDecode
	KindTooLarge
)

func (k Kind) String() string {
	switch k {
	case KindInput:
		return "input"
	case KindFetch:
		return "fetch"
	case KindDecode:
		return "decode"
	case KindTooLarge:
		return "too_large"
	default:
		return "internal"
	}
}

// Error is a classified failure. Message is safe to show to callers; Err is
// for logs only.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func inputError(msg string) *Error {
	return &Error{Kind: KindInput, Message: msg}
}

// classify maps download and decode failures onto kinds.
func classify(err error, maxBytes, maxPixels int64) *Error {
	var ce *Error
	if errors.As(err, &ce) {
		return ce
	}
	var cte *imagepkg.ContentTypeError
	switch {
	case errors.As(err, &cte):
		msg := "url did not return an image"
		if cte.ContentType != "" {
			msg = fmt.Sprintf("url returned content type %q, expected image/*", cte.ContentType)
		}
		return &Error{Kind: KindInput, Message: msg, Err: err}
	case errors.Is(err, imagepkg.ErrTooLarge):
		return &Error{
			Kind:    KindTooLarge,
			Message: fmt.Sprintf("image exceeds maximum size of %d bytes", maxBytes),
			Err:     err,
		}
	case errors.Is(err, imagepkg.ErrTooManyPixels):
		return &Error{
			Kind:    KindTooLarge,
			Message: fmt.Sprintf("image exceeds maximum of %d pixels", maxPixels),
			Err:     err,
		}
	case errors.Is(err, imagepkg.ErrDecode):
		return &Error{Kind: KindDecode, Message: "invalid image", Err: err}
	default:
		return &Error{Kind: KindFetch, Message: "failed to fetch image", Err: err}
	}
}

// Status returns the HTTP status and user-safe message for err.
func Status(err error) (int, string) {
	var ce *Error
	if !errors.As(err, &ce) {
		return http.StatusInternalServerError, "internal server error"
	}
	switch ce.Kind {
	case KindInput, KindFetch, KindDecode:
		return http.StatusBadRequest, ce.Message
	case KindTooLarge:
		return http.StatusRequestEntityTooLarge, ce.Message
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}
