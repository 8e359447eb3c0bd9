package convert

import "errors"

var ErrConvert = errors.New("convert error")
