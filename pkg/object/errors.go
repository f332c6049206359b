package object

import "errors"

// Error kinds. Every error returned by this module wraps exactly one of them.
var (
	// ErrNotFound: unresolved ref, missing or ambiguous hash prefix, store miss.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput: empty containers, unsupported values, nil objects,
	// objects of the wrong type.
	ErrInvalidInput = errors.New("invalid input")
	// ErrConsistency: the repository state does not allow the operation, e.g.
	// an implicit commit on a detached HEAD or a malformed symbolic ref.
	ErrConsistency = errors.New("consistency")
)
