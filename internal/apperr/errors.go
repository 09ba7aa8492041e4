package apperr

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalid      = errors.New("invalid")
	ErrBadSnapshot  = errors.New("bad snapshot")
	ErrUnauthorized = errors.New("unauthorized")
)
