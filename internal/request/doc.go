// SPDX-License-Identifier: MPL-2.0

// Package request maps handler invocation events to typed request data and
// dispatches them to per-action handlers.
//
// Everything here is a pure function of its input: no I/O and no shared state.
// A Resource is safe for concurrent use once handler registration is complete.
package request
