package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"warteg-web/models"
	"warteg-web/session"
)

const sessionKey = "session"

// SessionRequired resolves the session cookie and injects the session into
// the gin context. A missing or dead session answers 401 with the login
// route, which the client treats as a hard navigation.
func SessionRequired(store *session.Store, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(cookieName)
		if err != nil || id == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Login required", "redirect": "/login"})
			c.Abort()
			return
		}
		sess, ok := store.Get(id)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Session expired", "redirect": "/login"})
			c.Abort()
			return
		}
		c.Set(sessionKey, sess)
		c.Next()
	}
}

// RoleRequired enforces that caller has one of the allowed roles
func RoleRequired(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := GetSession(c)
		if sess == nil {
			c.JSON(http.StatusForbidden, gin.H{"error": "Session not found in context"})
			c.Abort()
			return
		}
		for _, r := range roles {
			if sess.User.Role == r {
				c.Next()
				return
			}
		}
		c.JSON(http.StatusForbidden, gin.H{
			"error": "Access denied. Required role(s): " + rolesString(roles),
		})
		c.Abort()
	}
}

func rolesString(roles []models.UserRole) string {
	s := ""
	for i, r := range roles {
		if i > 0 {
			s += ", "
		}
		s += string(r)
	}
	return s
}

// GetSession extracts the caller's session from context
func GetSession(c *gin.Context) *session.Session {
	val, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	return val.(*session.Session)
}
