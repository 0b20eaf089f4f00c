package domain

import "errors"

var (
	ErrInvalidOdds    = errors.New("invalid american odds")
	ErrAlreadyRunning = errors.New("scan already running")
	ErrNotRunning     = errors.New("scan not running")
	ErrNotFound       = errors.New("not found")
	ErrRateLimited    = errors.New("rate limited")
	ErrInvalidConfig  = errors.New("invalid configuration")
)
