package audio

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Cache keeps synthesized audio keyed by the text and the voice settings,
// so regenerating an archived audio directory makes no API calls. A nil
// *Cache is a disabled cache.
type Cache struct {
	Dir string
}

// DefaultCacheDir is used when caching is enabled without a directory
func DefaultCacheDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "zhuyin", "tts")
	}
	return filepath.Join(os.TempDir(), "zhuyin-tts-cache")
}

// NewCache returns the cache configured by config, or nil when caching is
// disabled
func NewCache(config *Config) (*Cache, error) {
	if !config.EnableCache {
		return nil, nil
	}

	dir := config.CacheDir
	if dir == "" {
		dir = DefaultCacheDir()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &Cache{Dir: dir}, nil
}

// Path returns the cache file for the key parts. The first two hex digits
// of the hash form a subdirectory.
func (c *Cache) Path(ext string, parts ...string) string {
	h := md5.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	hash := hex.EncodeToString(h.Sum(nil))
	return filepath.Join(c.Dir, hash[:2], hash[2:]+strings.ToLower(ext))
}

// Restore copies the cached file for parts to dst and reports whether there
// was one
func (c *Cache) Restore(dst string, parts ...string) bool {
	if c == nil {
		return false
	}
	src := c.Path(filepath.Ext(dst), parts...)
	if _, err := os.Stat(src); err != nil {
		return false
	}
	return copyFile(src, dst) == nil
}

// Store copies src into the cache under parts
func (c *Cache) Store(src string, parts ...string) error {
	if c == nil {
		return nil
	}
	return copyFile(src, c.Path(filepath.Ext(src), parts...))
}

// Stats returns the number and total size of the cached files
func (c *Cache) Stats() (files int, size int64, err error) {
	if c == nil {
		return 0, 0, nil
	}

	err = filepath.Walk(c.Dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			files++
			size += info.Size()
		}
		return nil
	})
	if os.IsNotExist(err) {
		return 0, 0, nil
	}
	return files, size, err
}

// copyFile copies a file from src to dst
func copyFile(src, dst string) error {
	if err := ensureDir(dst); err != nil {
		return err
	}

	source, err := os.Open(src)
	if err != nil {
		return err
	}
	defer source.Close()

	destination, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destination.Close()

	_, err = io.Copy(destination, source)
	return err
}

// ensureDir creates the parent directory of file
func ensureDir(file string) error {
	dir := filepath.Dir(file)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}
