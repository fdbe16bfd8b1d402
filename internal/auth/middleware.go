package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Context keys for session-derived user data.
const (
	ContextKeyUserID   = "auth_user_id"
	ContextKeyUsername = "auth_username"
	ContextKeyRole     = "auth_role"
)

// Gate failures respond with the uniform envelope carrying a domain code;
// the transport status stays 200 OK like every other endpoint outcome.
func abortWithCode(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(http.StatusOK, gin.H{
		"code":    code,
		"message": message,
		"data":    []any{},
	})
}

// RequireLogin passes requests that carry an authenticated session, storing
// the session identity in the Gin context for controllers. Anything else is
// terminated with an envelope code 401.
func (sm *SessionManager) RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := sm.GetUserID(c.Request)
		if userID == 0 {
			abortWithCode(c, http.StatusUnauthorized, "please login first")
			return
		}

		c.Set(ContextKeyUserID, userID)
		c.Set(ContextKeyUsername, sm.GetUsername(c.Request))
		c.Set(ContextKeyRole, sm.GetUserRole(c.Request))
		c.Next()
	}
}

// RequireAdmin passes only sessions carrying the administrator role,
// terminating everything else with an envelope code 403. Compose it after
// RequireLogin.
func (sm *SessionManager) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !sm.IsAdmin(c.Request) {
			abortWithCode(c, http.StatusForbidden, "administrator privileges required")
			return
		}
		c.Next()
	}
}

// GetUserID retrieves the authenticated user's ID from the Gin context.
// Returns 0 when the request passed no login gate.
func GetUserID(c *gin.Context) uint {
	if id, exists := c.Get(ContextKeyUserID); exists {
		if userID, ok := id.(uint); ok {
			return userID
		}
	}
	return 0
}

// GetUsername retrieves the authenticated user's username from the context.
func GetUsername(c *gin.Context) string {
	if name, exists := c.Get(ContextKeyUsername); exists {
		if username, ok := name.(string); ok {
			return username
		}
	}
	return ""
}

// GetUserRole retrieves the authenticated user's role from the context.
func GetUserRole(c *gin.Context) int {
	if r, exists := c.Get(ContextKeyRole); exists {
		if role, ok := r.(int); ok {
			return role
		}
	}
	return 0
}
