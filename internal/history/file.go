package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// FileStore implements Store using a JSON file.
type FileStore struct {
	path string
}

func NewFileStore(path string) (*FileStore, error) {
	if err := ensureParent(path); err != nil {
		return nil, err
	}
	return &FileStore{path: path}, nil
}

// ensureParent creates the directory holding path.
func ensureParent(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

func (s *FileStore) Save(rec RunRecord) error {
	records, err := s.LoadAll()
	if err != nil && !os.IsNotExist(err) {
		return err
	}

	records = append(records, rec)

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal run records: %w", err)
	}

	return os.WriteFile(s.path, data, 0644)
}

func (s *FileStore) LoadAll() ([]RunRecord, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunRecord{}, nil
		}
		return nil, err
	}

	var records []RunRecord
	if len(data) == 0 {
		return []RunRecord{}, nil
	}

	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run records: %w", err)
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].StartedAt.Before(records[j].StartedAt)
	})

	return records, nil
}

func (s *FileStore) LoadLatest() (*RunRecord, error) {
	records, err := s.LoadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return &records[len(records)-1], nil
}

func (s *FileStore) Close() error {
	return nil
}
