// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"os"
	"runtime"
)

// OS name constants for runtime.GOOS comparisons.
// Centralizes the string literals to avoid scattered magic strings.
const (
	Windows = "windows"
	Darwin  = "darwin"
	Linux   = "linux"
)

// SharedLibrarySuffix returns the file suffix of dynamically loaded native
// libraries on goos.
func SharedLibrarySuffix(goos string) string {
	switch goos {
	case Windows:
		return ".dll"
	case Darwin:
		return ".dylib"
	default:
		return ".so"
	}
}

// HostSharedLibrarySuffix is SharedLibrarySuffix for the running binary.
func HostSharedLibrarySuffix() string {
	return SharedLibrarySuffix(runtime.GOOS)
}

// HomeDir returns the current user's home directory using getenv, falling
// back to os.UserHomeDir when the platform variable is unset.
func HomeDir(getenv func(string) string) (string, error) {
	key := "HOME"
	if runtime.GOOS == Windows {
		key = "USERPROFILE"
	}
	if home := getenv(key); home != "" {
		return home, nil
	}
	return os.UserHomeDir()
}
