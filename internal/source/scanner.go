package source

import (
	"os"
	"path/filepath"
	"strings"
)

// Scan finds trip export files under path. A regular file is returned as-is;
// a directory is walked for .json and .jsonl files, skipping hidden entries.
func Scan(path string) ([]DiscoveredFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []DiscoveredFile{discovered(path)}, nil
	}

	var files []DiscoveredFile
	err = filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // intentionally skip unreadable entries
		}
		name := d.Name()
		if p != path && strings.HasPrefix(name, ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		switch filepath.Ext(name) {
		case ".json", ".jsonl":
			files = append(files, discovered(p))
		}
		return nil
	})
	return files, err
}

func discovered(path string) DiscoveredFile {
	return DiscoveredFile{
		Path:  path,
		Lines: filepath.Ext(path) == ".jsonl",
	}
}
