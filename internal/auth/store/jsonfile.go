package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/tasktrail/tasktrail-backend/internal/auth/domain"
)

// fileAccount is the on-disk shape. The credential hash is persisted here
// even though Account hides it from JSON marshalling elsewhere.
type fileAccount struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// JSONFileStore keeps the whole collection in one JSON array on disk and
// rewrites it on every mutation. Last writer wins; there is no partial
// persistence and no cross-process locking.
type JSONFileStore struct {
	path string

	mu       sync.Mutex
	accounts []fileAccount
}

// NewJSONFileStore loads the collection from path, treating a missing
// file as an empty store.
func NewJSONFileStore(path string) (*JSONFileStore, error) {
	s := &JSONFileStore{path: path}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read accounts file: %w", err)
	}

	if len(data) > 0 {
		if err := json.Unmarshal(data, &s.accounts); err != nil {
			return nil, fmt.Errorf("parse accounts file: %w", err)
		}
	}

	return s, nil
}

func (s *JSONFileStore) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.accounts {
		if s.accounts[i].Email == email {
			acc := toDomain(s.accounts[i])
			return &acc, nil
		}
	}
	return nil, nil
}

func (s *JSONFileStore) FindByID(_ context.Context, id string) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.accounts {
		if s.accounts[i].ID == id {
			acc := toDomain(s.accounts[i])
			return &acc, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *JSONFileStore) Insert(_ context.Context, acc *domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.accounts {
		if s.accounts[i].Email == acc.Email {
			return domain.ErrDuplicateEmail
		}
	}

	s.accounts = append(s.accounts, fromDomain(*acc))
	if err := s.persist(); err != nil {
		s.accounts = s.accounts[:len(s.accounts)-1]
		return err
	}
	return nil
}

func (s *JSONFileStore) UpdatePassword(_ context.Context, email, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.accounts {
		if s.accounts[i].Email == email {
			prev := s.accounts[i]
			s.accounts[i].PasswordHash = passwordHash
			s.accounts[i].UpdatedAt = time.Now().UTC()
			if err := s.persist(); err != nil {
				s.accounts[i] = prev
				return err
			}
			return nil
		}
	}
	return domain.ErrNotFound
}

func (s *JSONFileStore) UpdateProfile(_ context.Context, id, name, email string) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i := range s.accounts {
		if s.accounts[i].ID == id {
			idx = i
			continue
		}
		if s.accounts[i].Email == email {
			return nil, domain.ErrDuplicateEmail
		}
	}
	if idx < 0 {
		return nil, domain.ErrNotFound
	}

	prev := s.accounts[idx]
	s.accounts[idx].Name = name
	s.accounts[idx].Email = email
	s.accounts[idx].UpdatedAt = time.Now().UTC()

	if err := s.persist(); err != nil {
		s.accounts[idx] = prev
		return nil, err
	}
	acc := toDomain(s.accounts[idx])
	return &acc, nil
}

func (s *JSONFileStore) List(_ context.Context) ([]domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Account, 0, len(s.accounts))
	for i := range s.accounts {
		out = append(out, toDomain(s.accounts[i]))
	}
	return out, nil
}

// persist rewrites the entire collection. Callers hold s.mu.
func (s *JSONFileStore) persist() error {
	data, err := json.MarshalIndent(s.accounts, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal accounts: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create accounts dir: %w", err)
		}
	}

	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write accounts file: %w", err)
	}
	return nil
}

func toDomain(f fileAccount) domain.Account {
	return domain.Account{
		ID:           f.ID,
		Name:         f.Name,
		Email:        f.Email,
		PasswordHash: f.PasswordHash,
		Role:         f.Role,
		CreatedAt:    f.CreatedAt,
		UpdatedAt:    f.UpdatedAt,
	}
}

func fromDomain(a domain.Account) fileAccount {
	return fileAccount{
		ID:           a.ID,
		Name:         a.Name,
		Email:        a.Email,
		PasswordHash: a.PasswordHash,
		Role:         a.Role,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}
