// SPDX-License-Identifier: MPL-2.0

// Package cueutil validates documents against embedded CUE schemas.
//
// Both the tool configuration (CUE) and the project settings file (JSON, which CUE
// accepts as-is) go through the same compile, unify, validate and decode flow. Errors
// carry JSON-path prefixes (for example "settings.use_docker: conflicting values")
// so the offending field is easy to find.
package cueutil
