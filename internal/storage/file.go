package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// FileStore keeps a collection in a single pretty-printed JSON file,
// rewritten wholesale on every Save. A missing file reads as an empty
// collection; a corrupt file is a load error.
type FileStore struct {
	Path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

func (s *FileStore) Load(v any) error {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return json.Unmarshal([]byte("[]"), v)
		}
		return err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return json.Unmarshal([]byte("[]"), v)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(v)
}

func (s *FileStore) Save(v any) error {
	data, err := marshalSnapshot(v)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(s.Path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(s.Path, data, 0644)
}

// marshalSnapshot renders the collection as indented JSON so the on-disk
// snapshot stays human-readable.
func marshalSnapshot(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}
