package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasktrail/tasktrail-backend/internal/auth/domain"
	"github.com/tasktrail/tasktrail-backend/internal/auth/store"
)

type env struct {
	store *store.JSONFileStore
	slot  *JSONFileSlot

	accountsPath string
	sessionPath  string
}

func newEnv(t *testing.T) *env {
	t.Helper()
	dir := t.TempDir()

	accountsPath := filepath.Join(dir, "accounts.json")
	sessionPath := filepath.Join(dir, "session.json")

	s, err := store.NewJSONFileStore(accountsPath)
	require.NoError(t, err)

	return &env{
		store:        s,
		slot:         NewJSONFileSlot(sessionPath),
		accountsPath: accountsPath,
		sessionPath:  sessionPath,
	}
}

// restart rebuilds the store and manager from the persisted files, as a
// process restart would.
func (e *env) restart(t *testing.T) *Manager {
	t.Helper()
	s, err := store.NewJSONFileStore(e.accountsPath)
	require.NoError(t, err)
	e.store = s
	return NewManager(context.Background(), s, e.slot)
}

func TestSignupAuthenticates(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	m := NewManager(ctx, e.store, e.slot)

	assert.False(t, m.Authenticated())

	id, err := m.Signup(ctx, "Ann", "ann@x.com", "secret1")
	require.NoError(t, err)

	assert.True(t, m.Authenticated())
	assert.Equal(t, "Ann", id.Name)
	assert.Equal(t, "ann@x.com", id.Email)
	assert.Equal(t, domain.RoleUser, id.Role)
	assert.NotEmpty(t, id.ID)
}

func TestLoginWrongPasswordLeavesAnonymous(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	m := NewManager(ctx, e.store, e.slot)

	_, err := m.Signup(ctx, "Ann", "ann@x.com", "secret1")
	require.NoError(t, err)
	require.NoError(t, m.Logout(ctx))

	_, err = m.Login(ctx, "ann@x.com", "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidPassword)
	assert.False(t, m.Authenticated())
}

func TestLoginWrongPasswordDoesNotMutateStore(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	m := NewManager(ctx, e.store, e.slot)

	_, err := m.Signup(ctx, "Ann", "ann@x.com", "secret1")
	require.NoError(t, err)

	before, err := e.store.List(ctx)
	require.NoError(t, err)

	_, err = m.Login(ctx, "ann@x.com", "wrong")
	require.ErrorIs(t, err, domain.ErrInvalidPassword)

	after, err := e.store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	// still signed in as Ann: a failed login never transitions
	assert.True(t, m.Authenticated())
	assert.Equal(t, "ann@x.com", m.Current().Email)
}

func TestLoginUnknownEmailIsRejected(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	m := NewManager(ctx, e.store, e.slot)

	_, err := m.Login(ctx, "ghost@x.com", "whatever")
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
	assert.False(t, m.Authenticated())

	// no throwaway account was registered along the way
	all, err := e.store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestSignupDuplicateEmailRejected(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	m := NewManager(ctx, e.store, e.slot)

	_, err := m.Signup(ctx, "Ann", "ann@x.com", "secret1")
	require.NoError(t, err)

	_, err = m.Signup(ctx, "Bob", "ann@x.com", "other1")
	assert.ErrorIs(t, err, domain.ErrEmailTaken)

	all, err := e.store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
	assert.Equal(t, "Ann", all[0].Name)
}

func TestLogoutIsIdempotent(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	m := NewManager(ctx, e.store, e.slot)

	_, err := m.Signup(ctx, "Ann", "ann@x.com", "secret1")
	require.NoError(t, err)

	require.NoError(t, m.Logout(ctx))
	assert.False(t, m.Authenticated())

	require.NoError(t, m.Logout(ctx))
	assert.False(t, m.Authenticated())
	assert.Nil(t, m.Current())
}

func TestSignupThenLoginAfterRestart(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	m := NewManager(ctx, e.store, e.slot)

	_, err := m.Signup(ctx, "Ann", "ann@x.com", "secret1")
	require.NoError(t, err)
	require.NoError(t, m.Logout(ctx))

	m2 := e.restart(t)
	assert.False(t, m2.Authenticated())

	id, err := m2.Login(ctx, "ann@x.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "Ann", id.Name)
	assert.Equal(t, "ann@x.com", id.Email)
}

func TestResetPasswordRotatesCredential(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	m := NewManager(ctx, e.store, e.slot)

	_, err := m.Signup(ctx, "Ann", "ann@x.com", "secret1")
	require.NoError(t, err)
	require.NoError(t, m.Logout(ctx))

	require.NoError(t, m.ResetPassword(ctx, "ann@x.com", "newpass1"))

	// reset does not sign anyone in
	assert.False(t, m.Authenticated())

	_, err = m.Login(ctx, "ann@x.com", "secret1")
	assert.ErrorIs(t, err, domain.ErrInvalidPassword)

	id, err := m.Login(ctx, "ann@x.com", "newpass1")
	require.NoError(t, err)
	assert.Equal(t, "ann@x.com", id.Email)
}

func TestResetPasswordUnknownEmail(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	m := NewManager(ctx, e.store, e.slot)

	err := m.ResetPassword(ctx, "ghost@x.com", "newpass1")
	assert.ErrorIs(t, err, domain.ErrEmailNotFound)
}

func TestRestoreFromPersistedSlot(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	m := NewManager(ctx, e.store, e.slot)

	_, err := m.Signup(ctx, "Ann", "ann@x.com", "secret1")
	require.NoError(t, err)

	// restart with the slot still populated: authenticated without a
	// fresh login call
	m2 := e.restart(t)
	require.True(t, m2.Authenticated())
	assert.Equal(t, "Ann", m2.Current().Name)
	assert.Equal(t, "ann@x.com", m2.Current().Email)
}

func TestRestoreDiscardsMalformedSlot(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	require.NoError(t, os.WriteFile(e.sessionPath, []byte("{not json"), 0o600))

	m := NewManager(ctx, e.store, e.slot)
	assert.False(t, m.Authenticated())
}

func TestUpdateProfileRequiresAuthentication(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	m := NewManager(ctx, e.store, e.slot)

	name := "Ann"
	_, err := m.UpdateProfile(ctx, domain.ProfilePatch{Name: &name})
	assert.ErrorIs(t, err, domain.ErrNotAuthenticated)
}

func TestUpdateProfilePersistsToStoreAndSlot(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	m := NewManager(ctx, e.store, e.slot)

	_, err := m.Signup(ctx, "Ann", "ann@x.com", "secret1")
	require.NoError(t, err)

	name := "Anna"
	email := "anna@x.com"
	id, err := m.UpdateProfile(ctx, domain.ProfilePatch{Name: &name, Email: &email})
	require.NoError(t, err)
	assert.Equal(t, "Anna", id.Name)
	assert.Equal(t, "anna@x.com", id.Email)

	// the store entry followed
	acc, err := e.store.FindByEmail(ctx, "anna@x.com")
	require.NoError(t, err)
	require.NotNil(t, acc)
	assert.Equal(t, "Anna", acc.Name)

	// the slot followed too: a restart restores the new identity
	m2 := e.restart(t)
	require.True(t, m2.Authenticated())
	assert.Equal(t, "anna@x.com", m2.Current().Email)
}

func TestUpdateProfilePasswordChangeValidatedOnlyWhenPresent(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	m := NewManager(ctx, e.store, e.slot)

	_, err := m.Signup(ctx, "Ann", "ann@x.com", "secret1")
	require.NoError(t, err)

	// no password change sub-structure: nothing credential-related is
	// checked
	name := "Anna"
	_, err = m.UpdateProfile(ctx, domain.ProfilePatch{Name: &name})
	require.NoError(t, err)

	// wrong current password rejects the change
	_, err = m.UpdateProfile(ctx, domain.ProfilePatch{
		PasswordChange: &domain.PasswordChange{Current: "wrong", New: "newpass1"},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidPassword)

	// correct current password rotates it
	_, err = m.UpdateProfile(ctx, domain.ProfilePatch{
		PasswordChange: &domain.PasswordChange{Current: "secret1", New: "newpass1"},
	})
	require.NoError(t, err)

	require.NoError(t, m.Logout(ctx))
	_, err = m.Login(ctx, "ann@x.com", "newpass1")
	assert.NoError(t, err)
}

func TestUpdateProfileRejectedEmailDoesNotRotatePassword(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	m := NewManager(ctx, e.store, e.slot)

	_, err := m.Signup(ctx, "Ann", "ann@x.com", "secret1")
	require.NoError(t, err)
	require.NoError(t, m.Logout(ctx))

	_, err = m.Signup(ctx, "Bob", "bob@x.com", "secret2")
	require.NoError(t, err)

	// a valid password change combined with a conflicting email: the
	// whole patch is rejected and nothing is written
	email := "ann@x.com"
	_, err = m.UpdateProfile(ctx, domain.ProfilePatch{
		Email:          &email,
		PasswordChange: &domain.PasswordChange{Current: "secret2", New: "newpass1"},
	})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)

	acc, err := e.store.FindByEmail(ctx, "bob@x.com")
	require.NoError(t, err)
	require.NotNil(t, acc)

	// the old password still works: the rejected update did not rotate
	// the credential
	require.NoError(t, m.Logout(ctx))
	_, err = m.Login(ctx, "bob@x.com", "newpass1")
	assert.ErrorIs(t, err, domain.ErrInvalidPassword)
	_, err = m.Login(ctx, "bob@x.com", "secret2")
	assert.NoError(t, err)
}

func TestLoginAttemptBudget(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	m := NewManager(ctx, e.store, e.slot)

	_, err := m.Signup(ctx, "Ann", "ann@x.com", "secret1")
	require.NoError(t, err)
	require.NoError(t, m.Logout(ctx))

	for i := 0; i < 5; i++ {
		_, err = m.Login(ctx, "ann@x.com", "wrong")
		require.ErrorIs(t, err, domain.ErrInvalidPassword)
	}

	_, err = m.Login(ctx, "ann@x.com", "wrong")
	assert.ErrorIs(t, err, domain.ErrTooManyAttempts)

	// even the right password waits for the budget to refill, and the
	// rejection is recoverable: the session did not transition
	_, err = m.Login(ctx, "ann@x.com", "secret1")
	assert.ErrorIs(t, err, domain.ErrTooManyAttempts)
	assert.False(t, m.Authenticated())

	// the budget is per email: other accounts are unaffected
	_, err = m.Signup(ctx, "Bob", "bob@x.com", "secret2")
	require.NoError(t, err)
	require.NoError(t, m.Logout(ctx))

	id, err := m.Login(ctx, "bob@x.com", "secret2")
	require.NoError(t, err)
	assert.Equal(t, "bob@x.com", id.Email)
}

func TestLoginSuccessDoesNotConsumeAttemptBudget(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	m := NewManager(ctx, e.store, e.slot)

	_, err := m.Signup(ctx, "Ann", "ann@x.com", "secret1")
	require.NoError(t, err)

	// more successful logins than the failure burst allows
	for i := 0; i < 8; i++ {
		require.NoError(t, m.Logout(ctx))
		_, err = m.Login(ctx, "ann@x.com", "secret1")
		require.NoError(t, err)
	}
}

func TestSignupValidation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	m := NewManager(ctx, e.store, e.slot)

	cases := []struct {
		name     string
		userName string
		email    string
		password string
	}{
		{"empty name", "", "a@x.com", "secret1"},
		{"bad email", "Ann", "not-an-email", "secret1"},
		{"short password", "Ann", "a@x.com", "abc"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := m.Signup(ctx, tc.userName, tc.email, tc.password)
			assert.Error(t, err)
			assert.False(t, m.Authenticated())
		})
	}

	// nothing was persisted by any rejected attempt
	all, err := e.store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}
