package errs

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/errors/withstack"
)

// PublicError is an error that, when caught by the error handler, returns a
// user-friendly error response instead of a generic failure. The optional code
// identifies the failed condition to machine consumers.
type PublicError struct {
	err     error
	message string
	code    string
}

func (p PublicError) Error() string {
	return p.err.Error()
}

func (p PublicError) Message() string {
	return p.message
}

func (p PublicError) Code() string {
	return p.code
}

func (p PublicError) Unwrap() error {
	return p.err
}

func NewPublicError(message string) error {
	return withstack.WithStackDepth(&PublicError{err: errors.New(message), message: message}, 1)
}

// WithPublicMessage wraps err with a user-facing message. If err wraps an
// ErrorKind, the kind's string becomes the response code.
func WithPublicMessage(err error, prefix string) error {
	if err == nil {
		return nil
	}
	message := err.Error()
	if prefix != "" {
		message = fmt.Sprintf("%s: %s", prefix, message)
	}
	var code string
	var kind ErrorKind
	if errors.As(err, &kind) {
		code = string(kind)
	}
	return withstack.WithStackDepth(&PublicError{err: err, message: message, code: code}, 1)
}
