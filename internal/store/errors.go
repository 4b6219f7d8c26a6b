package store

import "errors"

// Sentinels shared by all backends so handlers can translate failures
// without knowing which driver produced them.
var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("already exists")
)
