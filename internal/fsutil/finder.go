// Package fsutil provides file system helpers for item file discovery.
package fsutil

import (
	"io/fs"
	"path/filepath"
)

// FindFilesByExtension walks rootPath and returns the full paths of every
// regular file whose extension matches. The extension carries its leading
// dot, as in ".hcl".
func FindFilesByExtension(rootPath, extension string) ([]string, error) {
	if extension == "" || extension[0] != '.' {
		panic("extension must start with a dot")
	}

	var files []string
	err := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && filepath.Ext(path) == extension {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
