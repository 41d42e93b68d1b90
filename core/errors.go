package core

import "errors"

var (
	// ErrNotFound is returned by stores when no award row exists for a
	// (user, code) pair.
	ErrNotFound = errors.New("award not found")

	// ErrConflict is returned by stores when an insert collides with the
	// (user, code) uniqueness constraint. The grant engine recovers from
	// exactly one such conflict per code by retrying as an update.
	ErrConflict = errors.New("award already exists")
)
