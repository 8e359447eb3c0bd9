package encode

import "errors"

var (
	ErrEncoding        = errors.New("encode error")
	ErrUnrepresentable = errors.New("unrepresentable number")
	ErrDuplicateKey    = errors.New("duplicate key")
)
