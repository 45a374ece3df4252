package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"warteg-web/listview"
	"warteg-web/models"
)

func (h *Handlers) AdminGallery(c *gin.Context) {
	s := sess(c)
	if err := s.Gallery.Fetch(c.Request.Context()); err != nil {
		toast(c, err)
		return
	}
	query, page, size := listParams(c)
	filtered := listview.Filter(s.Gallery.Items(), query, func(g models.GalleryItem) []string {
		return []string{g.Title}
	})
	c.JSON(http.StatusOK, listview.Paginate(filtered, page, size))
}

func (h *Handlers) AdminCreateGalleryItem(c *gin.Context) {
	title := c.PostForm("title")
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title is required"})
		return
	}
	image, err := formUpload(c, "image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read image file"})
		return
	}
	if err := sess(c).Gallery.Create(c.Request.Context(), title, image); err != nil {
		toast(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Gallery item created"})
}

func (h *Handlers) AdminUpdateGalleryItem(c *gin.Context) {
	image, err := formUpload(c, "image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read image file"})
		return
	}
	if err := sess(c).Gallery.Update(c.Request.Context(), c.Param("id"), c.PostForm("title"), image); err != nil {
		toast(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Gallery item updated"})
}

func (h *Handlers) AdminDeleteGalleryItem(c *gin.Context) {
	if err := sess(c).Gallery.Remove(c.Request.Context(), c.Param("id")); err != nil {
		toast(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Gallery item deleted"})
}

func (h *Handlers) AdminTestimonials(c *gin.Context) {
	s := sess(c)
	if err := s.Testimonials.Fetch(c.Request.Context()); err != nil {
		toast(c, err)
		return
	}
	query, page, size := listParams(c)
	filtered := listview.Filter(s.Testimonials.Items(), query, func(t models.Testimonial) []string {
		return []string{t.Name, t.Message}
	})
	c.JSON(http.StatusOK, listview.Paginate(filtered, page, size))
}

func (h *Handlers) AdminCreateTestimonial(c *gin.Context) {
	name := c.PostForm("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name is required"})
		return
	}
	rating, _ := strconv.Atoi(c.DefaultPostForm("rating", "5"))
	avatar, err := formUpload(c, "avatar")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read avatar file"})
		return
	}
	if err := sess(c).Testimonials.Create(c.Request.Context(), name, c.PostForm("message"), rating, avatar); err != nil {
		toast(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Testimonial created"})
}

func (h *Handlers) AdminUpdateTestimonial(c *gin.Context) {
	rating, _ := strconv.Atoi(c.DefaultPostForm("rating", "5"))
	avatar, err := formUpload(c, "avatar")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read avatar file"})
		return
	}
	if err := sess(c).Testimonials.Update(c.Request.Context(), c.Param("id"), c.PostForm("name"), c.PostForm("message"), rating, avatar); err != nil {
		toast(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Testimonial updated"})
}

func (h *Handlers) AdminDeleteTestimonial(c *gin.Context) {
	if err := sess(c).Testimonials.Remove(c.Request.Context(), c.Param("id")); err != nil {
		toast(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Testimonial deleted"})
}

func (h *Handlers) AdminFAQs(c *gin.Context) {
	s := sess(c)
	if err := s.FAQs.Fetch(c.Request.Context()); err != nil {
		toast(c, err)
		return
	}
	query, page, size := listParams(c)
	filtered := listview.Filter(s.FAQs.Items(), query, func(f models.FAQ) []string {
		return []string{f.Question, f.Answer}
	})
	c.JSON(http.StatusOK, listview.Paginate(filtered, page, size))
}

type FAQRequest struct {
	Question string `json:"question" binding:"required"`
	Answer   string `json:"answer" binding:"required"`
}

func (h *Handlers) AdminCreateFAQ(c *gin.Context) {
	var req FAQRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := sess(c).FAQs.Create(c.Request.Context(), req.Question, req.Answer); err != nil {
		toast(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "FAQ created"})
}

func (h *Handlers) AdminUpdateFAQ(c *gin.Context) {
	var req FAQRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := sess(c).FAQs.Update(c.Request.Context(), c.Param("id"), req.Question, req.Answer); err != nil {
		toast(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "FAQ updated"})
}

func (h *Handlers) AdminDeleteFAQ(c *gin.Context) {
	if err := sess(c).FAQs.Remove(c.Request.Context(), c.Param("id")); err != nil {
		toast(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "FAQ deleted"})
}

func (h *Handlers) AdminPaymentMethods(c *gin.Context) {
	s := sess(c)
	if err := s.PaymentMethods.Fetch(c.Request.Context()); err != nil {
		toast(c, err)
		return
	}
	query, page, size := listParams(c)
	filtered := listview.Filter(s.PaymentMethods.Items(), query, func(p models.PaymentMethod) []string {
		return []string{p.Name, p.HolderName, p.AccountNumber}
	})
	c.JSON(http.StatusOK, listview.Paginate(filtered, page, size))
}

type PaymentMethodRequest struct {
	Name          string `json:"name" binding:"required"`
	AccountNumber string `json:"account_number"`
	HolderName    string `json:"holder_name"`
	IsActive      *bool  `json:"is_active"`
}

func (req *PaymentMethodRequest) active() bool {
	if req.IsActive == nil {
		return true
	}
	return *req.IsActive
}

func (h *Handlers) AdminCreatePaymentMethod(c *gin.Context) {
	var req PaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := sess(c).PaymentMethods.Create(c.Request.Context(), req.Name, req.AccountNumber, req.HolderName, req.active()); err != nil {
		toast(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Payment method created"})
}

func (h *Handlers) AdminUpdatePaymentMethod(c *gin.Context) {
	var req PaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := sess(c).PaymentMethods.Update(c.Request.Context(), c.Param("id"), req.Name, req.AccountNumber, req.HolderName, req.active()); err != nil {
		toast(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Payment method updated"})
}

func (h *Handlers) AdminDeletePaymentMethod(c *gin.Context) {
	if err := sess(c).PaymentMethods.Remove(c.Request.Context(), c.Param("id")); err != nil {
		toast(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Payment method deleted"})
}
