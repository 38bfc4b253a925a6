package posts

import "errors"

var (
	// ErrInvalidInput marks a nil or malformed argument
	ErrInvalidInput = errors.New("invalid input")
	// ErrPostNotFound marks a missing post that the operation depends on
	ErrPostNotFound = errors.New("post not found")
)
