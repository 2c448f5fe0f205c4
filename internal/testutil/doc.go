// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helper functions for tests that handle errors
// appropriately, reducing boilerplate and ensuring consistent error handling.
//
// Common helpers include environment variable management (MustSetenv,
// SetConfigHome), file operations (MustMkdirAll, MustWriteFile), a
// recording slog handler for asserting on log output, and a fixture that lays out a
// resource provider project on disk.
package testutil
