package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"warteg-web/listview"
	"warteg-web/models"
)

// Menu lists the menu for the storefront. Filtering and paging happen here
// on the fully loaded collection; the backend has no search parameters.
func (h *Handlers) Menu(c *gin.Context) {
	if err := h.Public.Menu.Fetch(c.Request.Context()); err != nil {
		toast(c, err)
		return
	}
	items := h.Public.Menu.Items()

	if categoryID := c.Query("category"); categoryID != "" {
		kept := items[:0]
		for _, item := range items {
			if item.CategoryID == categoryID {
				kept = append(kept, item)
			}
		}
		items = kept
	}

	query, page, size := listParams(c)
	filtered := listview.Filter(items, query, func(m models.MenuItem) []string {
		return []string{m.Name, m.Description}
	})
	c.JSON(http.StatusOK, listview.Paginate(filtered, page, size))
}

// Categories feeds the storefront category tabs.
func (h *Handlers) Categories(c *gin.Context) {
	if err := h.Public.Categories.Fetch(c.Request.Context()); err != nil {
		toast(c, err)
		return
	}
	items := h.Public.Categories.Items()
	c.JSON(http.StatusOK, gin.H{"count": len(items), "categories": items})
}

func (h *Handlers) Gallery(c *gin.Context) {
	if err := h.Public.Gallery.Fetch(c.Request.Context()); err != nil {
		toast(c, err)
		return
	}
	items := h.Public.Gallery.Items()
	c.JSON(http.StatusOK, gin.H{"count": len(items), "gallery": items})
}

func (h *Handlers) Testimonials(c *gin.Context) {
	if err := h.Public.Testimonials.Fetch(c.Request.Context()); err != nil {
		toast(c, err)
		return
	}
	items := h.Public.Testimonials.Items()
	c.JSON(http.StatusOK, gin.H{"count": len(items), "testimonials": items})
}

func (h *Handlers) FAQs(c *gin.Context) {
	if err := h.Public.FAQs.Fetch(c.Request.Context()); err != nil {
		toast(c, err)
		return
	}
	items := h.Public.FAQs.Items()
	c.JSON(http.StatusOK, gin.H{"count": len(items), "faqs": items})
}

// Navbar returns the auth-aware menu state: who is logged in and how many
// items sit in the cart (the badge).
func (h *Handlers) Navbar(c *gin.Context) {
	s := sess(c)
	if err := s.Cart.Fetch(c.Request.Context()); err != nil {
		toast(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user":       gin.H{"id": s.User.ID, "name": s.User.Name, "role": s.User.Role},
		"cart_badge": s.Cart.Count(),
		"is_admin":   s.User.Role == models.RoleAdmin,
	})
}
