// SPDX-License-Identifier: MPL-2.0

// Package build installs a project's declared dependencies into its build output
// directory.
//
// Two interchangeable strategies exist. The containerized strategy runs pip inside a
// runtime build image with the project root bind-mounted at /project; the local
// strategy runs the same pip command on the host. Both require the packaged support
// library archive in the project root and fail with MissingSupportArtifactError before
// anything is launched when it is absent. Any failure of the external system is
// reported as DownstreamBuildError.
//
// Builds block until pip exits. Callers that want a deadline pass a context with one.
package build
