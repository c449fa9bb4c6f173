package common

import "errors"

// Sentinel errors shared across services. Handlers translate these into
// HTTP statuses; services wrap them with context via fmt.Errorf("%w: ...").
var (
	// ErrValidation marks malformed or missing request fields. Raised
	// before any store access.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks an absent consultation, message or user.
	ErrNotFound = errors.New("not found")

	// ErrConflict marks a lost race, e.g. a second handoff attempt on a
	// consultation that already has a doctor.
	ErrConflict = errors.New("conflict")

	// ErrDependency marks an unavailable external collaborator (language
	// model, identity lookup, email transport).
	ErrDependency = errors.New("dependency unavailable")
)
