// SPDX-License-Identifier: MPL-2.0

// Package command runs external processes to completion and reports failures as
// typed errors.
//
// Runner is the seam the build strategies and the CLI container engine use to reach
// the operating system. ExecRunner is the production implementation; tests inject a
// fake Runner or a custom ExecCommandFunc.
package command
