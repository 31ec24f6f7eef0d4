// SPDX-License-Identifier: MPL-2.0

// Package issue turns resolution failures into actionable CLI output: an
// error type carrying the failed operation, the resource involved and fix
// suggestions, plus a catalog of Markdown guides rendered in verbose mode.
package issue
