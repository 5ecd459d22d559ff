package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tasktrail/tasktrail-backend/internal/auth/guard"
	"github.com/tasktrail/tasktrail-backend/internal/auth/session"
	"github.com/tasktrail/tasktrail-backend/internal/auth/token"
)

const (
	CtxAccountID = "account_id"
)

// RequireSession gates protected routes. It verifies the bearer token
// and applies the guard decision: an anonymous caller gets a 401 with
// the sign-in location the UI should navigate to.
func RequireSession(mgr *session.Manager, secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		accountID := ""
		if raw := extractToken(c); raw != "" {
			if id, err := token.AccountID(raw, secret); err == nil {
				if cur := mgr.Current(); cur != nil && cur.ID == id {
					accountID = id
				}
			}
		}

		d := guard.Decide(accountID != "", guard.ViewProtected)
		if d.Action == guard.ActionRedirect {
			c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "authentication required", "redirect": d.Location})
			c.Abort()
			return
		}

		c.Set(CtxAccountID, accountID)
		c.Next()
	}
}

// AccountID extracts the authenticated account id from the Gin context.
// This is set by RequireSession.
func AccountID(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(CtxAccountID))
}

// extractToken extracts the Bearer token from the Authorization header
func extractToken(c *gin.Context) string {
	bearerToken := c.GetHeader("Authorization")
	if len(bearerToken) > 7 && strings.HasPrefix(bearerToken, "Bearer ") {
		return bearerToken[7:]
	}
	return ""
}
