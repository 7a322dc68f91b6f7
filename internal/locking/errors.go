package locking

import "errors"

var (
	ErrLockHeld    = errors.New("lock is held by another owner")
	ErrLockTimeout = errors.New("timed out waiting for lock")
)
