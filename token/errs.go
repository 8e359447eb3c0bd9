package token

import "errors"

var (
	ErrBadEscape    = errors.New("invalid escape sequence")
	ErrUnterminated = errors.New("unterminated string")
	ErrBadKey       = errors.New("invalid key")
	ErrDelimiter    = errors.New("invalid delimiter")
)
