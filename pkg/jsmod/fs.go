// SPDX-License-Identifier: MPL-2.0

package jsmod

import (
	"io/fs"
	"os"
)

// FileSystem is the I/O surface the loader needs: a metadata probe and a
// whole-file read.
type FileSystem interface {
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
}

// OSFileSystem reads from the host filesystem.
type OSFileSystem struct{}

// Stat implements FileSystem.
func (OSFileSystem) Stat(name string) (fs.FileInfo, error) { return os.Stat(name) }

// ReadFile implements FileSystem.
func (OSFileSystem) ReadFile(name string) ([]byte, error) { return os.ReadFile(name) }

// isFile reports whether name exists and is not a directory.
func isFile(fsys FileSystem, name string) bool {
	info, err := fsys.Stat(name)
	return err == nil && !info.IsDir()
}
