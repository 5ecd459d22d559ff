package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tasktrail/tasktrail-backend/internal/auth/domain"
	"github.com/tasktrail/tasktrail-backend/internal/auth/token"
)

func (h *Handler) signup(c *gin.Context) {
	var req signupReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	id, err := h.sessions.Signup(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}

	t, err := token.Generate(id.ID, h.jwtSecret, h.tokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "failed to issue token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"ok": true, "user": id, "access_token": t})
}

func (h *Handler) login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	id, err := h.sessions.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}

	t, err := token.Generate(id.ID, h.jwtSecret, h.tokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "failed to issue token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "user": id, "access_token": t})
}

func (h *Handler) logout(c *gin.Context) {
	if err := h.sessions.Logout(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) resetPassword(c *gin.Context) {
	var req resetPasswordReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	if err := h.sessions.ResetPassword(c.Request.Context(), req.Email, req.NewPassword); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// currentSession is the startup rehydrate check: the UI calls it once
// before rendering its first protected view.
func (h *Handler) currentSession(c *gin.Context) {
	id := h.sessions.Current()
	if id == nil {
		c.JSON(http.StatusOK, gin.H{"ok": true, "authenticated": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "authenticated": true, "user": id})
}

func (h *Handler) me(c *gin.Context) {
	id := h.sessions.Current()
	if id == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": domain.ErrNotAuthenticated.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "user": id})
}

func (h *Handler) updateProfile(c *gin.Context) {
	var patch domain.ProfilePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	id, err := h.sessions.UpdateProfile(c.Request.Context(), patch)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "user": id})
}

// fail maps domain errors to statuses, surfacing the message verbatim so
// the UI can render it inline.
func (h *Handler) fail(c *gin.Context, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, domain.ErrAccountNotFound), errors.Is(err, domain.ErrInvalidPassword):
		status = http.StatusUnauthorized
	case errors.Is(err, domain.ErrNotAuthenticated):
		status = http.StatusUnauthorized
	case errors.Is(err, domain.ErrEmailTaken):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrEmailNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrTooManyAttempts):
		status = http.StatusTooManyRequests
	}
	c.JSON(status, gin.H{"ok": false, "error": err.Error()})
}
