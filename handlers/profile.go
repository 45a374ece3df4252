package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"warteg-web/models"
)

func (h *Handlers) GetProfile(c *gin.Context) {
	s := sess(c)
	profile, err := s.Profiles.Get(c.Request.Context(), s.User.ID)
	if err != nil {
		toast(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

// UpdateProfile takes name/phone fields plus an optional avatar image.
func (h *Handlers) UpdateProfile(c *gin.Context) {
	s := sess(c)
	avatar, err := formUpload(c, "avatar")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read avatar file"})
		return
	}
	profile, err := s.Profiles.Update(c.Request.Context(), s.User.ID, c.PostForm("name"), c.PostForm("phone"), avatar)
	if err != nil {
		toast(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile updated", "profile": profile})
}

func (h *Handlers) ListAddresses(c *gin.Context) {
	s := sess(c)
	if err := s.Addresses.Fetch(c.Request.Context()); err != nil {
		toast(c, err)
		return
	}
	items := s.Addresses.Items()
	c.JSON(http.StatusOK, gin.H{"count": len(items), "addresses": items})
}

type AddressRequest struct {
	Mode        models.DeliveryMode `json:"mode" binding:"required"`
	Description string              `json:"description" binding:"required"`
	Notes       string              `json:"notes"`
}

func (h *Handlers) CreateAddress(c *gin.Context) {
	var req AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s := sess(c)
	address, err := s.Addresses.Create(c.Request.Context(), req.Mode, req.Description, req.Notes)
	if err != nil {
		toast(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Address saved", "address": address})
}

func (h *Handlers) UpdateAddress(c *gin.Context) {
	var req AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s := sess(c)
	if err := s.Addresses.Update(c.Request.Context(), c.Param("id"), req.Mode, req.Description, req.Notes); err != nil {
		toast(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Address updated"})
}

func (h *Handlers) DeleteAddress(c *gin.Context) {
	s := sess(c)
	if err := s.Addresses.Remove(c.Request.Context(), c.Param("id")); err != nil {
		toast(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Address deleted"})
}
