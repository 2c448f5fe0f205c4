// SPDX-License-Identifier: MPL-2.0

// Package container provides the container engine abstraction used by containerized
// dependency builds.
//
// The Engine interface covers the four operations a build needs: Name, Available,
// ImageExists and Run. Two implementations are provided. APIEngine talks to the Docker
// daemon through the Engine SDK. CLIEngine drives a docker or podman binary through a
// command.Runner.
//
// Engine selection uses NewEngine(EngineType) with automatic fallback when the preferred
// engine is unavailable.
//
// Only Linux build images are supported.
package container
