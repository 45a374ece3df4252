package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// MyOrders returns the order history panel for the logged-in customer.
func (h *Handlers) MyOrders(c *gin.Context) {
	s := sess(c)
	if err := s.Orders.FetchForUser(c.Request.Context(), s.User.ID); err != nil {
		toast(c, err)
		return
	}
	orders := s.Orders.Orders()
	c.JSON(http.StatusOK, gin.H{"count": len(orders), "orders": orders})
}

// OrderDetail serves the tracking view for one of the customer's orders.
func (h *Handlers) OrderDetail(c *gin.Context) {
	s := sess(c)
	if err := s.Orders.FetchForUser(c.Request.Context(), s.User.ID); err != nil {
		toast(c, err)
		return
	}
	id := c.Param("id")
	for _, o := range s.Orders.Orders() {
		if o.ID == id {
			c.JSON(http.StatusOK, gin.H{"order": o})
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
}

// DeleteOrder removes one of the customer's own orders.
func (h *Handlers) DeleteOrder(c *gin.Context) {
	s := sess(c)
	if err := s.Orders.Delete(c.Request.Context(), c.Param("id"), s.User.ID); err != nil {
		toast(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order deleted", "order_id": c.Param("id")})
}

// RetryProofUpload lets the customer attach the proof after a failed
// checkout upload, from the order screen.
func (h *Handlers) RetryProofUpload(c *gin.Context) {
	s := sess(c)
	proof, err := formUpload(c, "proof")
	if err != nil || proof == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Proof file is required"})
		return
	}
	order, err := s.Orders.UploadProof(c.Request.Context(), c.Param("id"), proof)
	if err != nil {
		toast(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Proof uploaded", "order": order})
}
