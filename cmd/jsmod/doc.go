// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the jsmod CLI: inspection commands over the module
// loader (locate, normalize, load, find, graph, builtins, history) and
// configuration management.
package cmd
