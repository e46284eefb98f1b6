package settings

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// fileDocument is the on-disk layout of a FileStore
type fileDocument struct {
	Preferences map[string]string `toml:"preferences"`
}

// FileStore keeps all keys in one TOML file, values stored as strings
type FileStore struct {
	path string
}

// NewFileStore returns a store backed by the file at path. The file is
// created on the first Put.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file
func (s *FileStore) Path() string {
	return s.path
}

// Get returns the value of key
func (s *FileStore) Get(key string) ([]byte, error) {
	doc, err := s.read()
	if err != nil {
		return nil, err
	}

	value, ok := doc.Preferences[key]
	if !ok {
		return nil, ErrNotFound
	}
	return []byte(value), nil
}

// Put stores value under key, keeping the other keys of the file
func (s *FileStore) Put(key string, value []byte) error {
	doc, err := s.read()
	if err != nil && !errors.Is(err, ErrNotFound) {
		// replace a corrupted file
		doc = fileDocument{}
	}
	if doc.Preferences == nil {
		doc.Preferences = make(map[string]string)
	}
	doc.Preferences[key] = string(value)
	return s.write(doc)
}

// Delete removes key from the file
func (s *FileStore) Delete(key string) error {
	doc, err := s.read()
	if err != nil {
		return err
	}
	if _, ok := doc.Preferences[key]; !ok {
		return ErrNotFound
	}
	delete(doc.Preferences, key)
	return s.write(doc)
}

// Close is a no-op
func (s *FileStore) Close() error {
	return nil
}

func (s *FileStore) read() (fileDocument, error) {
	var doc fileDocument

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return doc, ErrNotFound
	}

	if _, err := toml.DecodeFile(s.path, &doc); err != nil {
		return doc, fmt.Errorf("error decoding %s: %w", s.path, err)
	}
	return doc, nil
}

func (s *FileStore) write(doc fileDocument) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("error creating settings directory: %w", err)
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(doc); err != nil {
		return fmt.Errorf("error encoding settings: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("error writing settings: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("error replacing settings file: %w", err)
	}
	return nil
}
