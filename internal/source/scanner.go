package source

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// ScanDir walks dir and returns every debts file it can parse, sorted by
// path. A regular file is returned as-is, whatever its extension.
func ScanDir(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{dir}, nil
	}

	var files []string
	err = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // skip unreadable entries
		}
		if d.IsDir() {
			if path != dir && len(d.Name()) > 1 && d.Name()[0] == '.' {
				return filepath.SkipDir
			}
			return nil
		}
		if _, err := DetectFormat(path); err == nil {
			files = append(files, path)
		}
		return nil
	})
	sort.Strings(files)
	return files, err
}

// LoadAll parses every file ScanDir finds under path and concatenates the
// debts. The first policy block found wins.
func LoadAll(path string) (ParseResult, error) {
	files, err := ScanDir(path)
	if err != nil {
		return ParseResult{}, err
	}
	all := ParseResult{Path: path}
	for _, f := range files {
		pr := ParseFile(f)
		if pr.Err != nil {
			return all, fmt.Errorf("%s: %w", f, pr.Err)
		}
		all.Debts = append(all.Debts, pr.Debts...)
		all.ParseErrors += pr.ParseErrors
		if all.Policy == nil {
			all.Policy = pr.Policy
		}
	}
	return all, nil
}
