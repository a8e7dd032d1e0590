package model

import "errors"

var (
	// ErrNotFound is returned by stores when no row matches.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateEmail is returned by user stores on an email uniqueness conflict.
	ErrDuplicateEmail = errors.New("email already exists")
	// ErrInvalidTask is returned by task stores for a status or priority outside the known set.
	ErrInvalidTask = errors.New("invalid task")
)
