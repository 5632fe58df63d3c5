package config

import "errors"

// ErrInvalidConfig is wrapped by every validation failure so callers can
// tell configuration mistakes apart from runtime errors.
var ErrInvalidConfig = errors.New("invalid configuration")

// errUnexpectedArgs is returned when more than one positional argument is given.
var errUnexpectedArgs = errors.New("expected at most one positional argument (folder)")
