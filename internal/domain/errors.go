package domain

import "errors"

var (
	ErrNotFound          = errors.New("object not found")
	ErrForbidden         = errors.New("access denied")
	ErrUnauthorized      = errors.New("invalid credentials")
	ErrDataIntegrity     = errors.New("data integrity violation")
	ErrValidation        = errors.New("validation error")
	ErrUnsupportedFormat = errors.New("format not allowed, use PNG or JPG")
	ErrDecode            = errors.New("could not read image file")
)
