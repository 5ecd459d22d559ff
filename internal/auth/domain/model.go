package domain

import "time"

// Roles an account can carry. Self-registration always gets RoleUser;
// the other tags are assigned by seeding or by an admin process.
const (
	RoleProjectManager = "project_manager"
	RoleTeamLead       = "team_lead"
	RoleDeveloper      = "developer"
	RoleDesigner       = "designer"
	RoleUser           = "user"
)

// ValidRole reports whether role is one of the known role tags.
func ValidRole(role string) bool {
	switch role {
	case RoleProjectManager, RoleTeamLead, RoleDeveloper, RoleDesigner, RoleUser:
		return true
	}
	return false
}

// Account is a persisted registration record. PasswordHash never leaves
// the credential store boundary in API responses.
type Account struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Identity is an Account with the credential stripped. It is the only
// shape the session layer hands out.
type Identity struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Identity strips the credential from the account.
func (a *Account) Identity() Identity {
	return Identity{
		ID:    a.ID,
		Name:  a.Name,
		Email: a.Email,
		Role:  a.Role,
	}
}

// ProfilePatch replaces the mutable fields of an account. Nil fields are
// left untouched. The optional password change is validated only when
// present.
type ProfilePatch struct {
	Name           *string         `json:"name,omitempty"`
	Email          *string         `json:"email,omitempty"`
	PasswordChange *PasswordChange `json:"password_change,omitempty"`
}

// PasswordChange carries an opt-in credential rotation inside a profile
// update. Current must match the stored credential before New is applied.
type PasswordChange struct {
	Current string `json:"current_password"`
	New     string `json:"new_password"`
}
