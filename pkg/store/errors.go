package store

import "errors"

var (
	ErrNotFound      = errors.New("page styles not found")
	ErrEmptyBlob     = errors.New("page styles blob is empty")
	ErrInvalidPageID = errors.New("page id must be positive")
	ErrBackend       = errors.New("page styles backend failure")
)
