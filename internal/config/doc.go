// SPDX-License-Identifier: MPL-2.0

// Package config handles tool configuration using Viper with CUE as the file format.
//
// Configuration is loaded from ~/.config/rpdk-python/config.cue (or the XDG
// equivalent on Linux, ~/Library/Application Support/rpdk-python/config.cue on macOS,
// %APPDATA%\rpdk-python\config.cue on Windows), falling back to config.cue in the
// current directory. Files are validated against an embedded CUE schema
// (config_schema.cue). Every key can be overridden from the environment with the
// RPDK_PYTHON_ prefix, e.g. RPDK_PYTHON_BUILD_IMAGE_REPOSITORY.
package config
