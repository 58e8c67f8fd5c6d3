package yaerrors

import "errors"

// ErrTeapot is reported when a method is called on a nil *yaError.
// It keeps a nil error from turning into a nil pointer dereference.
var ErrTeapot = errors.New("backend developer is a teapot")
