package http

import "github.com/gin-gonic/gin"

// Register attaches auth routes to the given router group. The guarded
// routes are attached separately so the session middleware only wraps
// them.
func (h *Handler) Register(rg *gin.RouterGroup, guarded gin.HandlerFunc) {
	rg.POST("/signup", h.signup)
	rg.POST("/login", h.login)
	rg.POST("/logout", h.logout)
	rg.POST("/reset-password", h.resetPassword)
	rg.GET("/session", h.currentSession)

	priv := rg.Group("")
	priv.Use(guarded)
	priv.GET("/me", h.me)
	priv.PUT("/profile", h.updateProfile)
}
