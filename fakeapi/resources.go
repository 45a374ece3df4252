package fakeapi

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"warteg-web/models"
	"warteg-web/statemachine"
)

// ── Orders ─────────────────────────────────────────────────────────

type createOrderRequest struct {
	CartItemIDs     []string `json:"cartItemIds" binding:"required,min=1"`
	AddressID       *string  `json:"addressId"`
	PaymentMethodID string   `json:"paymentMethodId" binding:"required"`
	UserID          string   `json:"userId" binding:"required"`
}

func (s *Server) createOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var cartItems []models.CartItem
	s.DB.Preload("MenuItem").Where("user_id = ? AND id IN ?", req.UserID, req.CartItemIDs).Find(&cartItems)
	if len(cartItems) != len(req.CartItemIDs) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "One or more cart items not found"})
		return
	}

	orderID := uuid.NewString()
	total := decimal.Zero
	var items []models.OrderItem
	for _, ci := range cartItems {
		price := decimal.Zero
		name := ""
		if ci.MenuItem != nil {
			price = ci.MenuItem.Price
			name = ci.MenuItem.Name
		}
		subtotal := price.Mul(decimal.NewFromInt(int64(ci.Quantity)))
		total = total.Add(subtotal)
		items = append(items, models.OrderItem{
			ID:         uuid.NewString(),
			OrderID:    orderID,
			MenuItemID: ci.MenuItemID,
			Name:       name,
			Price:      price,
			Quantity:   ci.Quantity,
			Subtotal:   subtotal,
		})
	}

	order := models.Order{
		ID:              orderID,
		OrderNumber:     fmt.Sprintf("WTG-%d-%s", time.Now().Unix(), orderID[:8]),
		UserID:          req.UserID,
		Status:          models.StatusPendingPayment,
		PaymentStatus:   models.PaymentUnpaid,
		AddressID:       req.AddressID,
		PaymentMethodID: req.PaymentMethodID,
		Total:           total,
		Items:           items,
	}
	if err := s.DB.Create(&order).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create order"})
		return
	}
	// The ordered cart lines are consumed.
	s.DB.Where("id IN ?", req.CartItemIDs).Delete(&models.CartItem{})

	c.JSON(http.StatusCreated, gin.H{"message": "Order created", "order": order})
}

func (s *Server) uploadProof(c *gin.Context) {
	s.mu.Lock()
	fail := s.failProofUpload
	s.mu.Unlock()
	if fail {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Image storage unavailable"})
		return
	}

	var order models.Order
	if err := s.DB.First(&order, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Order not found"})
		return
	}
	fh, err := c.FormFile("proof")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Proof file is required"})
		return
	}
	if err := statemachine.CanTransition(order.Status, models.StatusWaitingVerification, "system"); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
		return
	}
	s.DB.Model(&order).Updates(map[string]any{
		"proof_image_url": "/uploads/proofs/" + fh.Filename,
		"status":          models.StatusWaitingVerification,
		"payment_status":  models.PaymentSubmitted,
	})
	s.DB.First(&order, "id = ?", order.ID)
	c.JSON(http.StatusOK, gin.H{"message": "Proof uploaded", "order": order})
}

func (s *Server) listOrders(c *gin.Context) {
	var orders []models.Order
	s.DB.Preload("Items").Preload("Address").Preload("PaymentMethod").
		Order("created_at desc").Find(&orders)
	c.JSON(http.StatusOK, gin.H{"count": len(orders), "orders": orders})
}

func (s *Server) ordersForUser(c *gin.Context) {
	var orders []models.Order
	s.DB.Preload("Items").Preload("Address").Preload("PaymentMethod").
		Where("user_id = ?", c.Param("userId")).
		Order("created_at desc").Find(&orders)
	c.JSON(http.StatusOK, gin.H{"count": len(orders), "orders": orders})
}

func (s *Server) verifyOrder(c *gin.Context) {
	var order models.Order
	if err := s.DB.First(&order, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Order not found"})
		return
	}
	if err := statemachine.CanTransition(order.Status, models.StatusProcessing, "admin"); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
		return
	}
	s.DB.Model(&order).Updates(map[string]any{
		"status":         models.StatusProcessing,
		"payment_status": models.PaymentVerified,
	})
	s.DB.First(&order, "id = ?", order.ID)
	c.JSON(http.StatusOK, gin.H{"message": "Payment verified", "order": order})
}

func (s *Server) updateOrderStatus(c *gin.Context) {
	var req struct {
		Status models.OrderStatus `json:"status" binding:"required"`
		Note   string             `json:"note"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var order models.Order
	if err := s.DB.First(&order, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Order not found"})
		return
	}
	if err := statemachine.CanTransition(order.Status, req.Status, "admin"); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
		return
	}
	s.DB.Model(&order).Update("status", req.Status)
	s.DB.First(&order, "id = ?", order.ID)
	c.JSON(http.StatusOK, gin.H{"message": "Order status updated", "order": order})
}

func (s *Server) deleteOrder(c *gin.Context) {
	res := s.DB.Where("id = ? AND user_id = ?", c.Param("id"), c.Param("userId")).Delete(&models.Order{})
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "Order not found"})
		return
	}
	s.DB.Where("order_id = ?", c.Param("id")).Delete(&models.OrderItem{})
	c.JSON(http.StatusOK, gin.H{"message": "Order deleted"})
}

// ── Cart ───────────────────────────────────────────────────────────

func (s *Server) getCart(c *gin.Context) {
	var items []models.CartItem
	s.DB.Preload("MenuItem").Where("user_id = ?", c.Param("userId")).Find(&items)
	c.JSON(http.StatusOK, gin.H{"count": len(items), "items": items})
}

func (s *Server) addCartItem(c *gin.Context) {
	var req struct {
		UserID     string `json:"user_id" binding:"required"`
		MenuItemID string `json:"menu_item_id" binding:"required"`
		Quantity   int    `json:"quantity" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var menuItem models.MenuItem
	if err := s.DB.First(&menuItem, "id = ?", req.MenuItemID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Menu item not found"})
		return
	}
	item := models.CartItem{
		ID:         uuid.NewString(),
		UserID:     req.UserID,
		MenuItemID: req.MenuItemID,
		Quantity:   req.Quantity,
		Subtotal:   menuItem.Price.Mul(decimal.NewFromInt(int64(req.Quantity))),
	}
	if err := s.DB.Create(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to add item"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"item": item})
}

func (s *Server) updateCartItem(c *gin.Context) {
	var req struct {
		Quantity int `json:"quantity" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var item models.CartItem
	if err := s.DB.Preload("MenuItem").First(&item, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Cart item not found"})
		return
	}
	subtotal := decimal.Zero
	if item.MenuItem != nil {
		subtotal = item.MenuItem.Price.Mul(decimal.NewFromInt(int64(req.Quantity)))
	}
	s.DB.Model(&item).Updates(map[string]any{"quantity": req.Quantity, "subtotal": subtotal})
	s.DB.Preload("MenuItem").First(&item, "id = ?", item.ID)
	c.JSON(http.StatusOK, gin.H{"item": item})
}

func (s *Server) deleteCartItem(c *gin.Context) {
	s.DB.Where("id = ?", c.Param("id")).Delete(&models.CartItem{})
	c.JSON(http.StatusOK, gin.H{"message": "Item removed"})
}

func (s *Server) clearCart(c *gin.Context) {
	s.DB.Where("user_id = ?", c.Param("userId")).Delete(&models.CartItem{})
	c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
}

// ── Catalog ────────────────────────────────────────────────────────

func (s *Server) listMenuItems(c *gin.Context) {
	var items []models.MenuItem
	s.DB.Preload("Category").Find(&items)
	c.JSON(http.StatusOK, gin.H{"count": len(items), "menu_items": items})
}

func (s *Server) menuItemFromForm(c *gin.Context, item *models.MenuItem) error {
	price, err := decimal.NewFromString(c.DefaultPostForm("price", "0"))
	if err != nil {
		return err
	}
	available, _ := strconv.ParseBool(c.DefaultPostForm("is_available", "true"))
	item.Name = c.PostForm("name")
	item.Description = c.PostForm("description")
	item.Price = price
	item.CategoryID = c.PostForm("category_id")
	item.IsAvailable = available
	if fh, err := c.FormFile("image"); err == nil {
		item.ImageURL = "/uploads/menu/" + fh.Filename
	}
	return nil
}

func (s *Server) createMenuItem(c *gin.Context) {
	item := models.MenuItem{ID: uuid.NewString()}
	if err := s.menuItemFromForm(c, &item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid price"})
		return
	}
	if item.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Name is required"})
		return
	}
	s.DB.Create(&item)
	c.JSON(http.StatusCreated, gin.H{"menu_item": item})
}

func (s *Server) updateMenuItem(c *gin.Context) {
	var item models.MenuItem
	if err := s.DB.First(&item, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Menu item not found"})
		return
	}
	if err := s.menuItemFromForm(c, &item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid price"})
		return
	}
	s.DB.Save(&item)
	c.JSON(http.StatusOK, gin.H{"menu_item": item})
}

func (s *Server) deleteMenuItem(c *gin.Context) {
	s.DB.Where("id = ?", c.Param("id")).Delete(&models.MenuItem{})
	c.JSON(http.StatusOK, gin.H{"message": "Menu item deleted"})
}

func (s *Server) listCategories(c *gin.Context) {
	var categories []models.Category
	s.DB.Find(&categories)
	c.JSON(http.StatusOK, gin.H{"count": len(categories), "categories": categories})
}

func (s *Server) createCategory(c *gin.Context) {
	cat := models.Category{ID: uuid.NewString(), Name: c.PostForm("name"), Description: c.PostForm("description")}
	if cat.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Name is required"})
		return
	}
	if fh, err := c.FormFile("image"); err == nil {
		cat.ImageURL = "/uploads/categories/" + fh.Filename
	}
	s.DB.Create(&cat)
	c.JSON(http.StatusCreated, gin.H{"category": cat})
}

func (s *Server) updateCategory(c *gin.Context) {
	var cat models.Category
	if err := s.DB.First(&cat, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Category not found"})
		return
	}
	if name := c.PostForm("name"); name != "" {
		cat.Name = name
	}
	if desc := c.PostForm("description"); desc != "" {
		cat.Description = desc
	}
	if fh, err := c.FormFile("image"); err == nil {
		cat.ImageURL = "/uploads/categories/" + fh.Filename
	}
	s.DB.Save(&cat)
	c.JSON(http.StatusOK, gin.H{"category": cat})
}

func (s *Server) deleteCategory(c *gin.Context) {
	s.DB.Where("id = ?", c.Param("id")).Delete(&models.Category{})
	c.JSON(http.StatusOK, gin.H{"message": "Category deleted"})
}

// ── Content ────────────────────────────────────────────────────────

func (s *Server) listGallery(c *gin.Context) {
	var items []models.GalleryItem
	s.DB.Find(&items)
	c.JSON(http.StatusOK, gin.H{"count": len(items), "gallery": items})
}

func (s *Server) createGalleryItem(c *gin.Context) {
	item := models.GalleryItem{ID: uuid.NewString(), Title: c.PostForm("title")}
	if item.Title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Title is required"})
		return
	}
	if fh, err := c.FormFile("image"); err == nil {
		item.ImageURL = "/uploads/gallery/" + fh.Filename
	}
	s.DB.Create(&item)
	c.JSON(http.StatusCreated, gin.H{"gallery_item": item})
}

func (s *Server) updateGalleryItem(c *gin.Context) {
	var item models.GalleryItem
	if err := s.DB.First(&item, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Gallery item not found"})
		return
	}
	if title := c.PostForm("title"); title != "" {
		item.Title = title
	}
	if fh, err := c.FormFile("image"); err == nil {
		item.ImageURL = "/uploads/gallery/" + fh.Filename
	}
	s.DB.Save(&item)
	c.JSON(http.StatusOK, gin.H{"gallery_item": item})
}

func (s *Server) deleteGalleryItem(c *gin.Context) {
	s.DB.Where("id = ?", c.Param("id")).Delete(&models.GalleryItem{})
	c.JSON(http.StatusOK, gin.H{"message": "Gallery item deleted"})
}

func (s *Server) listTestimonials(c *gin.Context) {
	var items []models.Testimonial
	s.DB.Find(&items)
	c.JSON(http.StatusOK, gin.H{"count": len(items), "testimonials": items})
}

func (s *Server) createTestimonial(c *gin.Context) {
	rating, _ := strconv.Atoi(c.DefaultPostForm("rating", "5"))
	item := models.Testimonial{
		ID:      uuid.NewString(),
		Name:    c.PostForm("name"),
		Message: c.PostForm("message"),
		Rating:  rating,
	}
	if item.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Name is required"})
		return
	}
	if fh, err := c.FormFile("avatar"); err == nil {
		item.AvatarURL = "/uploads/avatars/" + fh.Filename
	}
	s.DB.Create(&item)
	c.JSON(http.StatusCreated, gin.H{"testimonial": item})
}

func (s *Server) updateTestimonial(c *gin.Context) {
	var item models.Testimonial
	if err := s.DB.First(&item, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Testimonial not found"})
		return
	}
	if name := c.PostForm("name"); name != "" {
		item.Name = name
	}
	if msg := c.PostForm("message"); msg != "" {
		item.Message = msg
	}
	if rating, err := strconv.Atoi(c.PostForm("rating")); err == nil {
		item.Rating = rating
	}
	if fh, err := c.FormFile("avatar"); err == nil {
		item.AvatarURL = "/uploads/avatars/" + fh.Filename
	}
	s.DB.Save(&item)
	c.JSON(http.StatusOK, gin.H{"testimonial": item})
}

func (s *Server) deleteTestimonial(c *gin.Context) {
	s.DB.Where("id = ?", c.Param("id")).Delete(&models.Testimonial{})
	c.JSON(http.StatusOK, gin.H{"message": "Testimonial deleted"})
}

func (s *Server) listFAQs(c *gin.Context) {
	var items []models.FAQ
	s.DB.Find(&items)
	c.JSON(http.StatusOK, gin.H{"count": len(items), "faqs": items})
}

func (s *Server) createFAQ(c *gin.Context) {
	var req struct {
		Question string `json:"question" binding:"required"`
		Answer   string `json:"answer" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	item := models.FAQ{ID: uuid.NewString(), Question: req.Question, Answer: req.Answer}
	s.DB.Create(&item)
	c.JSON(http.StatusCreated, gin.H{"faq": item})
}

func (s *Server) updateFAQ(c *gin.Context) {
	var req struct {
		Question string `json:"question"`
		Answer   string `json:"answer"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var item models.FAQ
	if err := s.DB.First(&item, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "FAQ not found"})
		return
	}
	if req.Question != "" {
		item.Question = req.Question
	}
	if req.Answer != "" {
		item.Answer = req.Answer
	}
	s.DB.Save(&item)
	c.JSON(http.StatusOK, gin.H{"faq": item})
}

func (s *Server) deleteFAQ(c *gin.Context) {
	s.DB.Where("id = ?", c.Param("id")).Delete(&models.FAQ{})
	c.JSON(http.StatusOK, gin.H{"message": "FAQ deleted"})
}

// ── Account ────────────────────────────────────────────────────────

func (s *Server) listAddresses(c *gin.Context) {
	var items []models.Address
	s.DB.Where("user_id = ?", c.GetString("userID")).Find(&items)
	c.JSON(http.StatusOK, gin.H{"count": len(items), "addresses": items})
}

func (s *Server) createAddress(c *gin.Context) {
	var req struct {
		Mode        models.DeliveryMode `json:"mode" binding:"required"`
		Description string              `json:"description" binding:"required"`
		Notes       string              `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	addr := models.Address{
		ID:          uuid.NewString(),
		UserID:      c.GetString("userID"),
		Mode:        req.Mode,
		Description: req.Description,
		Notes:       req.Notes,
	}
	s.DB.Create(&addr)
	c.JSON(http.StatusCreated, gin.H{"address": addr})
}

func (s *Server) updateAddress(c *gin.Context) {
	var req struct {
		Mode        models.DeliveryMode `json:"mode"`
		Description string              `json:"description"`
		Notes       string              `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var addr models.Address
	if err := s.DB.Where("id = ? AND user_id = ?", c.Param("id"), c.GetString("userID")).First(&addr).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Address not found"})
		return
	}
	if req.Mode != "" {
		addr.Mode = req.Mode
	}
	if req.Description != "" {
		addr.Description = req.Description
	}
	addr.Notes = req.Notes
	s.DB.Save(&addr)
	c.JSON(http.StatusOK, gin.H{"address": addr})
}

func (s *Server) deleteAddress(c *gin.Context) {
	s.DB.Where("id = ? AND user_id = ?", c.Param("id"), c.GetString("userID")).Delete(&models.Address{})
	c.JSON(http.StatusOK, gin.H{"message": "Address deleted"})
}

func (s *Server) listPaymentMethods(c *gin.Context) {
	var items []models.PaymentMethod
	s.DB.Find(&items)
	c.JSON(http.StatusOK, gin.H{"count": len(items), "payment_methods": items})
}

func (s *Server) createPaymentMethod(c *gin.Context) {
	var req struct {
		Name          string `json:"name" binding:"required"`
		AccountNumber string `json:"account_number"`
		HolderName    string `json:"holder_name"`
		IsActive      *bool  `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	pm := models.PaymentMethod{
		ID:            uuid.NewString(),
		Name:          req.Name,
		AccountNumber: req.AccountNumber,
		HolderName:    req.HolderName,
		IsActive:      active,
	}
	s.DB.Create(&pm)
	c.JSON(http.StatusCreated, gin.H{"payment_method": pm})
}

func (s *Server) updatePaymentMethod(c *gin.Context) {
	var req struct {
		Name          string `json:"name"`
		AccountNumber string `json:"account_number"`
		HolderName    string `json:"holder_name"`
		IsActive      *bool  `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var pm models.PaymentMethod
	if err := s.DB.First(&pm, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Payment method not found"})
		return
	}
	if req.Name != "" {
		pm.Name = req.Name
	}
	if req.AccountNumber != "" {
		pm.AccountNumber = req.AccountNumber
	}
	if req.HolderName != "" {
		pm.HolderName = req.HolderName
	}
	if req.IsActive != nil {
		pm.IsActive = *req.IsActive
	}
	s.DB.Save(&pm)
	c.JSON(http.StatusOK, gin.H{"payment_method": pm})
}

func (s *Server) deletePaymentMethod(c *gin.Context) {
	s.DB.Where("id = ?", c.Param("id")).Delete(&models.PaymentMethod{})
	c.JSON(http.StatusOK, gin.H{"message": "Payment method deleted"})
}

func (s *Server) getProfile(c *gin.Context) {
	var profile models.Profile
	if err := s.DB.Where("user_id = ?", c.Param("id")).First(&profile).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Profile not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

func (s *Server) updateProfile(c *gin.Context) {
	var profile models.Profile
	if err := s.DB.Where("user_id = ?", c.Param("id")).First(&profile).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Profile not found"})
		return
	}
	if name := c.PostForm("name"); name != "" {
		profile.Name = name
	}
	if phone := c.PostForm("phone"); phone != "" {
		profile.Phone = phone
	}
	if fh, err := c.FormFile("avatar"); err == nil {
		profile.AvatarURL = "/uploads/avatars/" + fh.Filename
	}
	s.DB.Save(&profile)
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

func (s *Server) listUsers(c *gin.Context) {
	var users []models.User
	s.DB.Where("role = ?", models.RoleCustomer).Find(&users)
	c.JSON(http.StatusOK, gin.H{"count": len(users), "users": users})
}
