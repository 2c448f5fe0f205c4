// SPDX-License-Identifier: MPL-2.0

// Package project models a resource provider project on disk.
//
// A Project is identified by its resource type name (Org::Service::Resource) and rooted
// at the directory holding the .rpdk-config settings file. Names derived from the type
// (package name, hyphenated artifact name) and the runtime record are computed once at
// load time. The package also provides the two file-writing primitives used by the
// scaffold generator: SafeWrite (create-or-fail) and Overwrite.
package project
