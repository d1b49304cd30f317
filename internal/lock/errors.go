package lock

import "errors"

// ErrLockNotAcquired is returned when every acquisition attempt found the lock held
var ErrLockNotAcquired = errors.New("failed to acquire lock")
