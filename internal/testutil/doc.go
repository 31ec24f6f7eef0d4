// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helpers for tests that build file trees or touch
// process state, failing the test on setup errors.
//
// Helpers that change process state (MustChdir, MustSetenv, SetHomeDir)
// return a cleanup function and must not be used from parallel tests.
package testutil
