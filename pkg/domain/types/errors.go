package types

import "github.com/m-mizutani/goerr/v2"

var (
	ErrInvalidOption = goerr.New("invalid option")

	// ErrCycleActive is returned when a check cycle is requested while another
	// is still running. The request is dropped, not queued.
	ErrCycleActive = goerr.New("check cycle already active")

	// Configuration errors. These are surfaced when a settings file is loaded
	// or edited and must never reach the engine at evaluation time.
	ErrInvalidRegex  = goerr.New("invalid regular expression")
	ErrDuplicateName = goerr.New("duplicate name")

	// Mirror errors.
	ErrMirrorNetwork = goerr.New("mirror fetch failed")
	ErrMirrorAuth    = goerr.New("mirror authentication required")
	ErrMirrorCorrupt = goerr.New("local clone is corrupt")

	ErrInvalidGitHubData = goerr.New("invalid GitHub data")
)
