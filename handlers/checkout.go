package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"warteg-web/checkout"
	"warteg-web/models"
)

// CheckoutState reports where the wizard stands so the client can render the
// right step and enable/disable the advance button.
func (h *Handlers) CheckoutState(c *gin.Context) {
	s := sess(c)
	resp := gin.H{
		"step":           s.Wizard.Step(),
		"selected_items": s.Wizard.SelectedItems(),
		"order_id":       s.Wizard.OrderID(),
		"can_advance":    true,
	}
	if err := s.Wizard.CanAdvance(); err != nil {
		resp["can_advance"] = false
		resp["blocked_reason"] = err.Error()
	}
	c.JSON(http.StatusOK, resp)
}

type SelectItemsRequest struct {
	CartItemIDs []string `json:"cart_item_ids" binding:"required"`
}

func (h *Handlers) CheckoutSelectItems(c *gin.Context) {
	var req SelectItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s := sess(c)
	s.Wizard.SelectItems(req.CartItemIDs)
	c.JSON(http.StatusOK, gin.H{"message": "Items selected", "count": len(req.CartItemIDs)})
}

type DeliveryRequest struct {
	Mode      models.DeliveryMode `json:"mode" binding:"required"`
	AddressID string              `json:"address_id"`
}

func (h *Handlers) CheckoutSetDelivery(c *gin.Context) {
	var req DeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Mode != models.ModeDelivery && req.Mode != models.ModeOnPlace {
		c.JSON(http.StatusBadRequest, gin.H{"error": "mode must be DELIVERY or ON_PLACE"})
		return
	}
	s := sess(c)
	s.Wizard.SetDelivery(req.Mode, req.AddressID)
	c.JSON(http.StatusOK, gin.H{"message": "Delivery choice saved"})
}

// CheckoutSetPayment takes the payment method and the proof image in one
// multipart request; the proof may arrive in a later call before submit.
func (h *Handlers) CheckoutSetPayment(c *gin.Context) {
	s := sess(c)
	if id := c.PostForm("payment_method_id"); id != "" {
		s.Wizard.SetPayment(id)
	}
	proof, err := formUpload(c, "proof")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read proof file"})
		return
	}
	if proof != nil {
		s.Wizard.AttachProof(proof)
	}
	c.JSON(http.StatusOK, gin.H{"message": "Payment choice saved"})
}

func (h *Handlers) CheckoutNext(c *gin.Context) {
	s := sess(c)
	if err := s.Wizard.Next(); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "step": s.Wizard.Step()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"step": s.Wizard.Step()})
}

func (h *Handlers) CheckoutBack(c *gin.Context) {
	s := sess(c)
	if err := s.Wizard.Back(); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "step": s.Wizard.Step()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"step": s.Wizard.Step()})
}

// CheckoutSubmit runs the two-call submission protocol. When the order was
// created but the proof upload failed, the order id still comes back so the
// customer can retry the upload from the order screen; the order itself is
// not rolled back.
func (h *Handlers) CheckoutSubmit(c *gin.Context) {
	s := sess(c)
	orderID, err := s.Wizard.Submit(c.Request.Context())
	if err != nil {
		if orderID != "" {
			c.JSON(http.StatusBadGateway, gin.H{
				"error":    "Order was created but the payment proof could not be uploaded",
				"order_id": orderID,
			})
			return
		}
		if err == checkout.ErrNoItemsSelected || err == checkout.ErrNoDeliveryMode ||
			err == checkout.ErrNoAddress || err == checkout.ErrNoTable ||
			err == checkout.ErrNoPaymentMethod || err == checkout.ErrNoProof ||
			err == checkout.ErrAlreadySubmitted {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		toast(c, err)
		return
	}

	// Order is in; the wizard state has served its purpose.
	s.Wizard.Reset()
	s.Cart.Fetch(c.Request.Context())
	c.JSON(http.StatusCreated, gin.H{
		"message":  "Order placed successfully",
		"order_id": orderID,
	})
}

// CheckoutCancel discards all wizard selections; nothing persists.
func (h *Handlers) CheckoutCancel(c *gin.Context) {
	sess(c).Wizard.Reset()
	c.JSON(http.StatusOK, gin.H{"message": "Checkout cancelled"})
}
