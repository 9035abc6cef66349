package repository

import "errors"

// ErrDuplicate is returned by Create methods when a uniqueness constraint
// rejects the row (duplicate email, duplicate pending request). Services map
// it to their own conflict errors.
var ErrDuplicate = errors.New("duplicate row")
