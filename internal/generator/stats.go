package generator

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// DirCount is the number of MP3 files directly inside one directory
type DirCount struct {
	Dir   string
	Files int
}

// DirectoryStats counts the MP3 files of every directory below root.
// Directories without MP3 files are left out; the result is sorted by
// directory, relative to root.
func DirectoryStats(root string) ([]DirCount, error) {
	counts := make(map[string]int)

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".mp3") {
			return nil
		}

		rel, err := filepath.Rel(root, filepath.Dir(path))
		if err != nil {
			return err
		}
		counts[filepath.ToSlash(rel)]++
		return nil
	})
	if err != nil {
		return nil, err
	}

	stats := make([]DirCount, 0, len(counts))
	for dir, n := range counts {
		stats = append(stats, DirCount{Dir: dir, Files: n})
	}
	sort.Slice(stats, func(i, j int) bool {
		return stats[i].Dir < stats[j].Dir
	})

	return stats, nil
}
