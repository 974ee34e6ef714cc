package storage

import "errors"

// ErrStorageClosed is returned when attempting to perform operations on a
// closed Storage instance.
var ErrStorageClosed = errors.New("operation failed: cannot access closed storage")
