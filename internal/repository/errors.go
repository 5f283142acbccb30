package repository

import "errors"

var (
	// ErrNotFound indicates the query matched no rows.
	ErrNotFound = errors.New("not found")
)
