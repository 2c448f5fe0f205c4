// SPDX-License-Identifier: MPL-2.0

package project

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultRuntimeName is the runtime used when none is requested.
const DefaultRuntimeName = "python37"

// ErrUnknownRuntime is the sentinel error wrapped by UnknownRuntimeError.
var ErrUnknownRuntime = errors.New("unknown runtime")

type (
	// Runtime is a supported language runtime. Name is the plugin language name stored
	// in the settings file; Identifier is the runtime string used by the deployment
	// descriptor and build images.
	Runtime struct {
		Name       string
		Identifier string
	}

	// UnknownRuntimeError is returned when a runtime name is not supported.
	UnknownRuntimeError struct {
		Name string
	}
)

var runtimes = []Runtime{
	{Name: "python36", Identifier: "python3.6"},
	{Name: "python37", Identifier: "python3.7"},
	{Name: "python38", Identifier: "python3.8"},
	{Name: "python39", Identifier: "python3.9"},
}

// Error implements the error interface.
func (e *UnknownRuntimeError) Error() string {
	names := make([]string, 0, len(runtimes))
	for _, r := range runtimes {
		names = append(names, r.Name)
	}
	return fmt.Sprintf("unknown runtime %q (supported: %s)", e.Name, strings.Join(names, ", "))
}

// Unwrap returns ErrUnknownRuntime for errors.Is() compatibility.
func (e *UnknownRuntimeError) Unwrap() error { return ErrUnknownRuntime }

// LookupRuntime returns the runtime record for name.
func LookupRuntime(name string) (Runtime, error) {
	for _, r := range runtimes {
		if r.Name == name {
			return r, nil
		}
	}
	return Runtime{}, &UnknownRuntimeError{Name: name}
}

// Runtimes returns every supported runtime, oldest first.
func Runtimes() []Runtime {
	return append([]Runtime(nil), runtimes...)
}

// Version returns the dotted version number, e.g. "3.7".
func (r Runtime) Version() string {
	return strings.TrimPrefix(r.Identifier, "python")
}

// String returns the runtime identifier.
func (r Runtime) String() string { return r.Identifier }
