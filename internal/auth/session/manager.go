package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"

	"github.com/tasktrail/tasktrail-backend/internal/auth/domain"
	"github.com/tasktrail/tasktrail-backend/internal/auth/store"
)

const minPasswordLen = 6

// Manager owns the session slot and the credential store. It is a
// two-state machine: anonymous, or authenticated as exactly one
// identity. Every operation returns a recoverable error; none of them
// panic or terminate the process.
//
// Login with an unknown email is rejected: accounts exist only through
// Signup.
type Manager struct {
	store store.CredentialStore
	slot  Slot

	limMu    sync.Mutex
	limiters map[string]*rate.Limiter

	mu      sync.RWMutex
	current *domain.Identity
}

// NewManager restores the persisted identity before returning, so
// callers never observe a half-initialized session. An empty or
// malformed slot yields the anonymous state.
func NewManager(ctx context.Context, cs store.CredentialStore, slot Slot) *Manager {
	m := &Manager{
		store:    cs,
		slot:     slot,
		limiters: make(map[string]*rate.Limiter),
	}

	id, err := slot.Load(ctx)
	if err != nil {
		log.Printf("session: discarding unreadable slot: %v", err)
		return m
	}
	m.current = id
	return m
}

// Authenticated reports whether a session identity is present.
func (m *Manager) Authenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current != nil
}

// Current returns a copy of the session identity, or nil when anonymous.
func (m *Manager) Current() *domain.Identity {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return nil
	}
	id := *m.current
	return &id
}

// limiterFor returns the attempt budget for one email. Budgets are
// per-email so one caller's failures never throttle everyone else.
func (m *Manager) limiterFor(email string) *rate.Limiter {
	m.limMu.Lock()
	defer m.limMu.Unlock()

	lim, ok := m.limiters[email]
	if !ok {
		// 5 attempts burst, refilling one per 2s.
		lim = rate.NewLimiter(rate.Every(2*time.Second), 5)
		m.limiters[email] = lim
	}
	return lim
}

// Login authenticates against the credential store and transitions to
// the authenticated state on success. Wrong credentials leave the
// session exactly as it was. Only failed attempts consume the email's
// attempt budget; an exhausted budget is a recoverable error, not a
// lockout.
func (m *Manager) Login(ctx context.Context, email, password string) (*domain.Identity, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("email and password are required")
	}

	lim := m.limiterFor(email)
	if lim.Tokens() < 1 {
		return nil, domain.ErrTooManyAttempts
	}

	acc, err := m.store.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("look up account: %w", err)
	}
	if acc == nil {
		lim.Allow()
		return nil, domain.ErrAccountNotFound
	}

	if bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(password)) != nil {
		lim.Allow()
		return nil, domain.ErrInvalidPassword
	}

	id := acc.Identity()
	if err := m.slot.Save(ctx, &id); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}

	m.mu.Lock()
	m.current = &id
	m.mu.Unlock()

	return &id, nil
}

// Signup registers a new account with the default role and signs it in.
func (m *Manager) Signup(ctx context.Context, name, email, password string) (*domain.Identity, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	switch {
	case name == "":
		return nil, fmt.Errorf("name is required")
	case email == "" || !strings.Contains(email, "@"):
		return nil, fmt.Errorf("a valid email is required")
	case len(password) < minPasswordLen:
		return nil, fmt.Errorf("password must be at least %d characters", minPasswordLen)
	}

	existing, err := m.store.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("look up account: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	acc := &domain.Account{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := m.store.Insert(ctx, acc); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("insert account: %w", err)
	}

	id := acc.Identity()
	if err := m.slot.Save(ctx, &id); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}

	m.mu.Lock()
	m.current = &id
	m.mu.Unlock()

	return &id, nil
}

// Logout transitions to the anonymous state and clears the persisted
// slot. Calling it while already anonymous is a no-op.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	m.current = nil
	m.mu.Unlock()

	if err := m.slot.Clear(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// UpdateProfile replaces the mutable fields of the session identity and
// persists the result to both the slot and the credential store entry.
// The optional password change inside the patch is validated only when
// present.
func (m *Manager) UpdateProfile(ctx context.Context, patch domain.ProfilePatch) (*domain.Identity, error) {
	m.mu.RLock()
	cur := m.current
	m.mu.RUnlock()
	if cur == nil {
		return nil, domain.ErrNotAuthenticated
	}

	name := cur.Name
	if patch.Name != nil {
		name = strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, fmt.Errorf("name must not be empty")
		}
	}
	email := cur.Email
	if patch.Email != nil {
		email = strings.TrimSpace(*patch.Email)
		if email == "" || !strings.Contains(email, "@") {
			return nil, fmt.Errorf("a valid email is required")
		}
	}

	// Validate the optional password change up front; the rotation is
	// committed only after the rest of the patch has been accepted, so
	// a rejected update leaves the credential untouched.
	var newHash string
	if pc := patch.PasswordChange; pc != nil {
		if len(pc.New) < minPasswordLen {
			return nil, fmt.Errorf("password must be at least %d characters", minPasswordLen)
		}
		acc, err := m.store.FindByID(ctx, cur.ID)
		if err != nil {
			return nil, fmt.Errorf("look up account: %w", err)
		}
		if bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(pc.Current)) != nil {
			return nil, domain.ErrInvalidPassword
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(pc.New), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		newHash = string(hash)
	}

	acc, err := m.store.UpdateProfile(ctx, cur.ID, name, email)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}

	if newHash != "" {
		if err := m.store.UpdatePassword(ctx, acc.Email, newHash); err != nil {
			return nil, fmt.Errorf("update password: %w", err)
		}
	}

	id := acc.Identity()
	if err := m.slot.Save(ctx, &id); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}

	m.mu.Lock()
	m.current = &id
	m.mu.Unlock()

	return &id, nil
}

// ResetPassword rotates the credential for any registered email. It
// never transitions the session, even when the email belongs to the
// signed-in identity.
func (m *Manager) ResetPassword(ctx context.Context, email, newPassword string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return fmt.Errorf("email is required")
	}
	if len(newPassword) < minPasswordLen {
		return fmt.Errorf("password must be at least %d characters", minPasswordLen)
	}

	acc, err := m.store.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("look up account: %w", err)
	}
	if acc == nil {
		return domain.ErrEmailNotFound
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := m.store.UpdatePassword(ctx, email, string(hash)); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrEmailNotFound
		}
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}
