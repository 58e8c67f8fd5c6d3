package valueparser

import (
	"errors"
)

var (
	ErrInvalidValue    = errors.New("invalid value")
	ErrUnsupportedType = errors.New("unsupported type")
	ErrUnparsableValue = errors.New("unparsable value")
	ErrInvalidEntry    = errors.New("invalid entry")
)
