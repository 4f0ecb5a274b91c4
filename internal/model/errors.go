package model

import "errors"

var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation error")
	ErrConflict   = errors.New("conflict")

	// ErrPrivate is returned when a share link points at a record whose
	// owner has not made it public.
	ErrPrivate = errors.New("record is not public")
)
