// SPDX-License-Identifier: MPL-2.0

// Package platform provides cross-platform compatibility utilities.
//
// It centralizes the GOOS names and the file suffix the host uses for
// dynamically loaded native libraries, so resolution code never scatters
// platform string literals.
package platform
