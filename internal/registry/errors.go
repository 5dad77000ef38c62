package registry

import "errors"

var (
	// ErrUnknownCategory is returned when a category key is not registered.
	ErrUnknownCategory = errors.New("unknown category")

	// ErrInvalidDefinition is returned when a category definition is
	// missing required fields or carries an unsupported encoding.
	ErrInvalidDefinition = errors.New("invalid category definition")

	// ErrFileNotFound is returned when the registry file does not exist
	// at the given path.
	ErrFileNotFound = errors.New("registry file not found")
)
