package repository

import "errors"

// Sentinel kinds for repository errors.
var (
	ErrNotFound          = errors.New("venture not found")
	ErrDuplicateID       = errors.New("venture id already exists")
	ErrInvalidTransition = errors.New("invalid outcome transition")
	ErrInvalidLimit      = errors.New("invalid ranking limit")
)
