package http

import (
	"time"

	"github.com/tasktrail/tasktrail-backend/internal/auth/session"
)

// Handler bundles the dependencies for the auth HTTP endpoints.
type Handler struct {
	sessions  *session.Manager
	jwtSecret []byte
	tokenTTL  time.Duration
}

func New(sessions *session.Manager, jwtSecret []byte, tokenTTL time.Duration) *Handler {
	return &Handler{
		sessions:  sessions,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
	}
}

type signupReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type resetPasswordReq struct {
	Email       string `json:"email"`
	NewPassword string `json:"new_password"`
}
