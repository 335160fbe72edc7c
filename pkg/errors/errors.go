package errors

import "errors"

var (
	ErrNotFound        = errors.New("resource not found")
	ErrAccessDenied    = errors.New("access denied")
	ErrInvalidID       = errors.New("invalid id")
	ErrUserNotFound    = errors.New("user not found")
	ErrAccountInactive = errors.New("account inactive")
	ErrUsernameTaken   = errors.New("username already in use")
	ErrInternal        = errors.New("internal server error")
)
