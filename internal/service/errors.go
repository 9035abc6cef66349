package service

import "errors"

// Sentinel errors shared by the services. Handlers translate these into the
// standardized HTTP error payload; nothing below is retried internally and
// none are fatal to the process.
var (
	ErrIDRequired         = errors.New("id is required")
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrExpired            = errors.New("access expired")
	ErrAlreadyOwned       = errors.New("requester already owns this document")
	ErrDuplicatePending   = errors.New("access already requested")
	ErrAlreadyDecided     = errors.New("request already decided")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrInvalidKind        = errors.New("invalid permission type")
	ErrReaderNil          = errors.New("reader is nil")
)
