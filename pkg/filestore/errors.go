package filestore

import "errors"

var (
	// ErrNotFound indicates no record exists for the key
	ErrNotFound = errors.New("filestore.not_found")

	// ErrEmptyKey indicates an empty logical key was provided
	ErrEmptyKey = errors.New("filestore.empty_key")

	// ErrDirCreation indicates the root directory could not be created
	ErrDirCreation = errors.New("filestore.dir_creation_failed")
)
