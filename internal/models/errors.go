package models

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("validation error")
	ErrInvalidStatus   = errors.New("invalid status")
	ErrVersionConflict = errors.New("rating snapshot version conflict")
)
