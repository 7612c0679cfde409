package submissions

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrWriteFailed  = errors.New("write failed")
	ErrLinkCreation = errors.New("link creation failed")
)
