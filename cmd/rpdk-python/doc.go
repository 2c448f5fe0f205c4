// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the CLI commands for rpdk-python.
//
// This package implements the Cobra command hierarchy: project scaffolding (init),
// model generation (generate), dependency build and packaging (package), project
// settings display (settings), invocation event checks (event) and tool
// configuration (config).
package cmd
