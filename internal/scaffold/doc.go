// SPDX-License-Identifier: MPL-2.0

// Package scaffold creates the files of a new resource provider project and
// regenerates the handler data models from the resource schema.
//
// Init never replaces user files: every file is written create-or-fail, with
// identical existing content accepted. Generate always overwrites models.py.
package scaffold
