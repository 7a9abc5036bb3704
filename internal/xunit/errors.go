package xunit

import "errors"

// ErrInvalidState is returned by Runner operations called in the wrong lifecycle state
var ErrInvalidState = errors.New("invalid state")
