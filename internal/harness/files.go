package harness

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// ListTestFiles returns all test files under dir with the given extension,
// sorted for deterministic run order.
func ListTestFiles(dir, ext string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ext) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}
