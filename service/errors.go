package serviceerrors

import "errors"

var (
	ErrMalformedContents = errors.New("malformed cart contents")
	ErrContextCanceled   = errors.New("context canceled")
	ErrDeadlineExceeded  = errors.New("deadline exceeded")
)
