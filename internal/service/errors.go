package service

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrDuplicateEmail       = errors.New("email already registered")
	ErrAuthenticationFailed = errors.New("incorrect email or password")
	ErrUnauthenticated      = errors.New("could not validate credentials")
	ErrForbidden            = errors.New("not enough permissions")
	ErrInvalidEmail         = errors.New("invalid email")
	ErrWeakPassword         = errors.New("password does not meet policy requirements")
	ErrLoginThrottled       = errors.New("too many failed login attempts")

	ErrBusinessNotFound     = errors.New("business not found")
	ErrReviewNotFound       = errors.New("review not found")
	ErrInvalidBusinessInput = errors.New("invalid business input")
	ErrInvalidReviewInput   = errors.New("invalid review input")
)

// LoginThrottledError carries the remaining cooldown. It matches
// ErrLoginThrottled with errors.Is.
type LoginThrottledError struct {
	RetryAfter time.Duration
}

func (e *LoginThrottledError) Error() string {
	return fmt.Sprintf("%s: retry after %s", ErrLoginThrottled, e.RetryAfter.Round(time.Second))
}

func (e *LoginThrottledError) Unwrap() error { return ErrLoginThrottled }
