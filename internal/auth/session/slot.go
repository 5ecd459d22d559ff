// Package session holds the single authenticated identity for a running
// client and the operations that transition it.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/tasktrail/tasktrail-backend/internal/auth/domain"
)

// Slot persists the current identity across process restarts. Load
// returns (nil, nil) when the slot is empty; a malformed value is
// reported as an error and treated by the manager as an empty slot.
type Slot interface {
	Load(ctx context.Context) (*domain.Identity, error)
	Save(ctx context.Context, id *domain.Identity) error
	Clear(ctx context.Context) error
}

// JSONFileSlot stores the identity as one JSON object in a file, the
// same way the browser build keeps it under a localStorage key.
type JSONFileSlot struct {
	path string
	mu   sync.Mutex
}

func NewJSONFileSlot(path string) *JSONFileSlot {
	return &JSONFileSlot{path: path}
}

func (s *JSONFileSlot) Load(_ context.Context) (*domain.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session file: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	var id domain.Identity
	if err := json.Unmarshal(data, &id); err != nil {
		return nil, fmt.Errorf("parse session file: %w", err)
	}
	if id.ID == "" || id.Email == "" {
		return nil, fmt.Errorf("session file missing identity fields")
	}
	return &id, nil
}

func (s *JSONFileSlot) Save(_ context.Context, id *domain.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(id)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create session dir: %w", err)
		}
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}

func (s *JSONFileSlot) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
