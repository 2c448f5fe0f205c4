// SPDX-License-Identifier: MPL-2.0

package request

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedRequest is the sentinel error wrapped by MalformedRequestError.
	ErrMalformedRequest = errors.New("malformed request")

	// ErrUnknownAction is returned by ParseAction for labels outside the Action set.
	ErrUnknownAction = errors.New("unknown action")
)

// MalformedRequestError is returned when a required event key is absent or holds a
// value of the wrong kind. Key is the dotted path of the offending key.
type MalformedRequestError struct {
	Key    string
	Reason string
}

// Error implements the error interface.
func (e *MalformedRequestError) Error() string {
	reason := e.Reason
	if reason == "" {
		reason = "missing required key"
	}
	return fmt.Sprintf("malformed request: %s: %s", e.Key, reason)
}

// Unwrap returns ErrMalformedRequest for errors.Is() compatibility.
func (e *MalformedRequestError) Unwrap() error { return ErrMalformedRequest }

func missing(key string) error {
	return &MalformedRequestError{Key: key}
}

func wrongKind(key, want string) error {
	return &MalformedRequestError{Key: key, Reason: "expected " + want}
}
