package storage

import "errors"

// ErrNotFound is returned when a referenced document does not exist. Callers
// translate it into their own error taxonomy.
var ErrNotFound = errors.New("not found")
