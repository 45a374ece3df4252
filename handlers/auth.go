package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login authenticates against the backend and hands out the session cookie.
func (h *Handlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s, err := h.Store.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		toast(c, err)
		return
	}

	c.SetCookie(h.Cfg.SessionCookie, s.ID, int(h.Cfg.SessionTTL/time.Second), "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"user": gin.H{
			"id":    s.User.ID,
			"name":  s.User.Name,
			"email": s.User.Email,
			"role":  s.User.Role,
		},
	})
}

// Logout invalidates the session and clears the cookie.
func (h *Handlers) Logout(c *gin.Context) {
	s := sess(c)
	h.Store.Logout(c.Request.Context(), s.ID)
	c.SetCookie(h.Cfg.SessionCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// Me returns the authenticated user's identity for the navbar.
func (h *Handlers) Me(c *gin.Context) {
	s := sess(c)
	resp := gin.H{"user": s.User}
	if exp, err := s.TokenExpiry(); err == nil {
		resp["token_expires_at"] = exp
	}
	c.JSON(http.StatusOK, resp)
}
