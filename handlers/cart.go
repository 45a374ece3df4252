package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handlers) GetCart(c *gin.Context) {
	s := sess(c)
	if err := s.Cart.Fetch(c.Request.Context()); err != nil {
		toast(c, err)
		return
	}
	items := s.Cart.Items()
	c.JSON(http.StatusOK, gin.H{
		"count": len(items),
		"items": items,
		"total": s.Cart.Total(),
	})
}

type AddToCartRequest struct {
	MenuItemID string `json:"menu_item_id" binding:"required"`
	Quantity   int    `json:"quantity" binding:"required,min=1"`
}

func (h *Handlers) AddToCart(c *gin.Context) {
	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s := sess(c)
	if err := s.Cart.Add(c.Request.Context(), req.MenuItemID, req.Quantity); err != nil {
		toast(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Added to cart", "cart_badge": s.Cart.Count()})
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

func (h *Handlers) UpdateCartItem(c *gin.Context) {
	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s := sess(c)
	if err := s.Cart.UpdateQuantity(c.Request.Context(), c.Param("id"), req.Quantity); err != nil {
		toast(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cart updated", "cart_badge": s.Cart.Count()})
}

func (h *Handlers) RemoveCartItem(c *gin.Context) {
	s := sess(c)
	if err := s.Cart.Remove(c.Request.Context(), c.Param("id")); err != nil {
		toast(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item removed", "cart_badge": s.Cart.Count()})
}

func (h *Handlers) ClearCart(c *gin.Context) {
	s := sess(c)
	if err := s.Cart.Clear(c.Request.Context()); err != nil {
		toast(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
}
