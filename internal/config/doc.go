// SPDX-License-Identifier: MPL-2.0

// Package config loads jsmod settings using Viper with CUE as the file format.
//
// The file lives at $XDG_CONFIG_HOME/jsmod/config.cue on Linux,
// ~/Library/Application Support/jsmod/config.cue on macOS and
// %APPDATA%\jsmod\config.cue on Windows, falling back to ./config.cue. It is
// validated against the embedded #Config schema before being merged over
// the built-in defaults.
package config
