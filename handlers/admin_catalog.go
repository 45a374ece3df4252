package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"warteg-web/backend"
	"warteg-web/listview"
	"warteg-web/models"
)

// AdminMenuItems is the menu management list: search over name and
// description, pages of nine cards.
func (h *Handlers) AdminMenuItems(c *gin.Context) {
	s := sess(c)
	if err := s.Menu.Fetch(c.Request.Context()); err != nil {
		toast(c, err)
		return
	}
	query, page, size := listParams(c)
	filtered := listview.Filter(s.Menu.Items(), query, func(m models.MenuItem) []string {
		return []string{m.Name, m.Description}
	})
	c.JSON(http.StatusOK, listview.Paginate(filtered, page, size))
}

func menuItemInput(c *gin.Context) (backend.MenuItemInput, error) {
	price, err := decimal.NewFromString(c.DefaultPostForm("price", "0"))
	if err != nil {
		return backend.MenuItemInput{}, err
	}
	available, _ := strconv.ParseBool(c.DefaultPostForm("is_available", "true"))
	return backend.MenuItemInput{
		Name:        c.PostForm("name"),
		Description: c.PostForm("description"),
		Price:       price,
		CategoryID:  c.PostForm("category_id"),
		IsAvailable: available,
	}, nil
}

func (h *Handlers) AdminCreateMenuItem(c *gin.Context) {
	in, err := menuItemInput(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid price"})
		return
	}
	if in.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name is required"})
		return
	}
	image, err := formUpload(c, "image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read image file"})
		return
	}
	if err := sess(c).Menu.Create(c.Request.Context(), in, image); err != nil {
		toast(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Menu item created"})
}

func (h *Handlers) AdminUpdateMenuItem(c *gin.Context) {
	in, err := menuItemInput(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid price"})
		return
	}
	image, err := formUpload(c, "image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read image file"})
		return
	}
	if err := sess(c).Menu.Update(c.Request.Context(), c.Param("id"), in, image); err != nil {
		toast(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Menu item updated"})
}

func (h *Handlers) AdminDeleteMenuItem(c *gin.Context) {
	if err := sess(c).Menu.Remove(c.Request.Context(), c.Param("id")); err != nil {
		toast(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Menu item deleted"})
}

func (h *Handlers) AdminCategories(c *gin.Context) {
	s := sess(c)
	if err := s.Categories.Fetch(c.Request.Context()); err != nil {
		toast(c, err)
		return
	}
	query, page, size := listParams(c)
	filtered := listview.Filter(s.Categories.Items(), query, func(cat models.Category) []string {
		return []string{cat.Name, cat.Description}
	})
	c.JSON(http.StatusOK, listview.Paginate(filtered, page, size))
}

func (h *Handlers) AdminCreateCategory(c *gin.Context) {
	name := c.PostForm("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name is required"})
		return
	}
	image, err := formUpload(c, "image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read image file"})
		return
	}
	if err := sess(c).Categories.Create(c.Request.Context(), name, c.PostForm("description"), image); err != nil {
		toast(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Category created"})
}

func (h *Handlers) AdminUpdateCategory(c *gin.Context) {
	image, err := formUpload(c, "image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read image file"})
		return
	}
	if err := sess(c).Categories.Update(c.Request.Context(), c.Param("id"), c.PostForm("name"), c.PostForm("description"), image); err != nil {
		toast(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Category updated"})
}

func (h *Handlers) AdminDeleteCategory(c *gin.Context) {
	if err := sess(c).Categories.Remove(c.Request.Context(), c.Param("id")); err != nil {
		toast(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Category deleted"})
}
