package repository

import "github.com/m-mizutani/goerr/v2"

var (
	ErrNotFound      = goerr.New("not found")
	ErrAlreadyExists = goerr.New("already exists")
	ErrInvalidInput  = goerr.New("invalid input")

	// ErrCorruption marks state that cannot be read back for one repository.
	// The coordinator reports it and skips that repository; other
	// repositories keep processing.
	ErrCorruption = goerr.New("state store corruption")
)
