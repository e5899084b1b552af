package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nordvik/shopsync/models"
)

// fileSnapshotStore persists the session as a JSON file, the SDK's
// user-defaults equivalent on platforms without one.
type fileSnapshotStore struct {
	path string
}

// NewFileSnapshotStore returns a [SnapshotStore] writing to path.
func NewFileSnapshotStore(path string) SnapshotStore {
	return &fileSnapshotStore{path: path}
}

func (f *fileSnapshotStore) Load() (*models.Session, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read session snapshot: %w", err)
	}

	var s models.Session
	if err = json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode session snapshot: %w", err)
	}
	if s.Token == "" {
		return nil, nil
	}

	return &s, nil
}

func (f *fileSnapshotStore) Save(s *models.Session) error {
	dir := filepath.Dir(f.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create session snapshot dir: %w", err)
		}
	}

	payload, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session snapshot: %w", err)
	}

	if err = os.WriteFile(f.path, payload, 0o600); err != nil {
		return fmt.Errorf("write session snapshot: %w", err)
	}

	return nil
}

func (f *fileSnapshotStore) Clear() error {
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove session snapshot: %w", err)
	}
	return nil
}
