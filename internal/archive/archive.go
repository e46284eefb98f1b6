package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const timestampLayout = "20060102-150405"

// Dir returns the archive directory used for dir, a sibling named "archive"
func Dir(dir string) string {
	return filepath.Join(filepath.Dir(filepath.Clean(dir)), "archive")
}

// Move moves dir into its archive directory under a timestamped name and
// returns the new location. The archive keeps the base name of dir, for
// example zhuyin_audios-20250102-150405.
func Move(dir string, now time.Time) (string, error) {
	dir = filepath.Clean(dir)

	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return "", fmt.Errorf("directory does not exist: %s", dir)
	}
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return "", fmt.Errorf("not a directory: %s", dir)
	}

	archiveDir := Dir(dir)
	if err := os.MkdirAll(archiveDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	base := filepath.Base(dir)
	archivePath := filepath.Join(archiveDir, fmt.Sprintf("%s-%s", base, now.Format(timestampLayout)))

	// Two archives within the same second get a finer timestamp
	if _, err := os.Stat(archivePath); err == nil {
		archivePath = filepath.Join(archiveDir, fmt.Sprintf("%s-%s", base, now.Format(timestampLayout+".000000")))
	}

	if err := os.Rename(dir, archivePath); err != nil {
		return "", fmt.Errorf("failed to archive %s: %w", dir, err)
	}

	return archivePath, nil
}

// List returns the archives of dir, oldest first
func List(dir string) ([]string, error) {
	dir = filepath.Clean(dir)
	archiveDir := Dir(dir)

	entries, err := os.ReadDir(archiveDir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read archive directory: %w", err)
	}

	prefix := filepath.Base(dir) + "-"
	var archives []string
	for _, entry := range entries {
		if entry.IsDir() && strings.HasPrefix(entry.Name(), prefix) {
			archives = append(archives, filepath.Join(archiveDir, entry.Name()))
		}
	}
	sort.Strings(archives)

	return archives, nil
}
