// SPDX-License-Identifier: MPL-2.0

package jsmod

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/jsmod/jsmod/pkg/platform"
	"golang.org/x/exp/slices"
)

// HistoryFileName is the per-user list of previously loaded specifiers.
const HistoryFileName = ".jsmod_modules"

// History is a newline-delimited list of module specifiers persisted between
// runs. It is a convenience cache only: read and write failures are
// reported but never affect resolution.
type History struct {
	path    string
	entries []string
}

// DefaultHistoryPath returns ~/.jsmod_modules using getenv for the home lookup.
func DefaultHistoryPath(getenv func(string) string) (string, error) {
	home, err := platform.HomeDir(getenv)
	if err != nil {
		return "", err
	}
	return filepath.Join(home, HistoryFileName), nil
}

// NewHistory creates an empty history bound to path.
func NewHistory(path string) *History {
	return &History{path: path}
}

// Path returns the backing file.
func (h *History) Path() string { return h.path }

// Restore merges the backing file into the in-memory list, skipping blank
// lines and duplicates. A missing file is not an error.
func (h *History) Restore() error {
	data, err := os.ReadFile(h.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if line == "" {
			continue
		}
		h.Add(line)
	}
	return sc.Err()
}

// Add appends spec unless present and returns its index.
func (h *History) Add(spec string) int {
	if i := slices.Index(h.entries, spec); i >= 0 {
		return i
	}
	h.entries = append(h.entries, spec)
	return len(h.entries) - 1
}

// Entries returns a copy of the list.
func (h *History) Entries() []string {
	return slices.Clone(h.entries)
}

// Clear empties the in-memory list. Call Save to persist.
func (h *History) Clear() {
	h.entries = nil
}

// Save overwrites the backing file with the current list.
func (h *History) Save() error {
	var b strings.Builder
	for _, e := range h.entries {
		b.WriteString(e)
		b.WriteByte('\n')
	}
	return os.WriteFile(h.path, []byte(b.String()), 0o644)
}
