// SPDX-License-Identifier: MPL-2.0

// Package packager produces the deployable artifact archive for a project.
//
// Packaging removes the previous build output, installs dependencies with the
// project's build strategy and writes one zip holding the handler package (minus
// compiled bytecode) and the installed dependencies. The archive is deterministic:
// packaging the same inputs twice yields byte-identical output.
//
// A Packager assumes a single caller per project root. Concurrent packaging of the
// same root races on the build output directory.
package packager
