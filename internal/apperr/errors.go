package apperr

import "errors"

var (
	ErrEmptyPath        = errors.New("empty path")
	ErrUnsafePath       = errors.New("unsafe path")
	ErrOutsideVault     = errors.New("path outside vault")
	ErrWrongFileType    = errors.New("wrong file type")
	ErrNotFound         = errors.New("not found")
	ErrDecode           = errors.New("invalid utf-8 content")
	ErrOpen             = errors.New("cannot open document")
	ErrVaultUnavailable = errors.New("vault unavailable")
)

// IsPathViolation reports whether err was raised by path confinement.
func IsPathViolation(err error) bool {
	return errors.Is(err, ErrEmptyPath) ||
		errors.Is(err, ErrUnsafePath) ||
		errors.Is(err, ErrOutsideVault)
}
