// SPDX-License-Identifier: MPL-2.0

package scaffold

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSchema is the sentinel error wrapped by InvalidSchemaError.
	ErrInvalidSchema = errors.New("invalid resource schema")

	// ErrNoPrompter is returned by Init when no strategy was given and nobody can be asked.
	ErrNoPrompter = errors.New("no prompter configured to ask for the build strategy")
)

// InvalidSchemaError is returned by Generate when the resource schema cannot be read
// as a JSON Schema document or its models cannot be resolved.
type InvalidSchemaError struct {
	Path  string
	Cause error
}

// Error implements the error interface.
func (e *InvalidSchemaError) Error() string {
	return fmt.Sprintf("invalid resource schema %s: %v", e.Path, e.Cause)
}

// Unwrap returns the sentinel and the underlying cause.
func (e *InvalidSchemaError) Unwrap() []error {
	return []error{ErrInvalidSchema, e.Cause}
}
