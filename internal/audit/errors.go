package audit

import "errors"

// ErrInvalidAction indicates an action outside the recorded set.
var ErrInvalidAction = errors.New("audit action must be UPDATE or DELETE")
