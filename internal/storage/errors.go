package storage

import "errors"

var (
	ErrNotFound = errors.New("document not found")
	ErrConflict = errors.New("document already exists")
)
