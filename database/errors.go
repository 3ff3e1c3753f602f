package databaseerrors

import "errors"

var (
	ErrMalformedContents = errors.New("malformed cart contents")
)
