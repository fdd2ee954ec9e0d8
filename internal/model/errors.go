package model

import "errors"

// Error kinds surfaced by the procedural resolver. Compare with errors.Is.
var (
	// ErrConfiguration means a required collaborator is not configured (e.g. missing API key)
	ErrConfiguration = errors.New("augmentation collaborator not configured")

	// ErrCollaborator means the collaborator was unreachable, timed out, was cancelled,
	// or returned a response violating its contract
	ErrCollaborator = errors.New("augmentation collaborator failed")

	// ErrMalformedQuery means both case stage and law code were empty
	ErrMalformedQuery = errors.New("malformed procedural query: case stage and law code are both empty")
)
