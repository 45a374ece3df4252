package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"warteg-web/listview"
	"warteg-web/models"
	"warteg-web/statemachine"
)

// Dashboard fetches the card data concurrently; each card is an independent
// resource so there is no ordering to respect.
func (h *Handlers) Dashboard(c *gin.Context) {
	s := sess(c)
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error { return s.Orders.FetchAll(ctx) })
	g.Go(func() error { return s.Customers.Fetch(ctx) })
	g.Go(func() error { return s.Menu.Fetch(ctx) })
	g.Go(func() error { return s.Categories.Fetch(ctx) })
	if err := g.Wait(); err != nil {
		toast(c, err)
		return
	}

	orders := s.Orders.Orders()
	summary := map[string]int{}
	revenue := decimal.Zero
	awaiting := 0
	for _, o := range orders {
		summary[string(o.Status)]++
		if o.Status == models.StatusCompleted {
			revenue = revenue.Add(o.Total)
		}
		if o.Status == models.StatusWaitingVerification {
			awaiting++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"order_summary":         summary,
		"total_orders":          len(orders),
		"awaiting_verification": awaiting,
		"total_revenue":         revenue,
		"total_customers":       len(s.Customers.Items()),
		"total_menu_items":      len(s.Menu.Items()),
		"total_categories":      len(s.Categories.Items()),
	})
}

// AdminOrders lists all orders with substring search over order number and
// customer id, an optional status filter, and client-side paging. Each row
// carries the legal next statuses so the screen renders only valid actions.
func (h *Handlers) AdminOrders(c *gin.Context) {
	s := sess(c)
	if err := s.Orders.FetchAll(c.Request.Context()); err != nil {
		toast(c, err)
		return
	}
	orders := s.Orders.Orders()

	if status := c.Query("status"); status != "" {
		kept := orders[:0]
		for _, o := range orders {
			if string(o.Status) == status {
				kept = append(kept, o)
			}
		}
		orders = kept
	}

	query, page, size := listParams(c)
	filtered := listview.Filter(orders, query, func(o models.Order) []string {
		return []string{o.OrderNumber, o.UserID}
	})
	pageOut := listview.Paginate(filtered, page, size)

	rows := make([]gin.H, 0, len(pageOut.Items))
	for _, o := range pageOut.Items {
		rows = append(rows, gin.H{
			"order":             o,
			"valid_next_states": statemachine.ValidTransitionsFrom(o.Status, "admin"),
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"rows":        rows,
		"page":        pageOut.Page,
		"page_size":   pageOut.PageSize,
		"total_items": pageOut.TotalItems,
		"total_pages": pageOut.TotalPages,
	})
}

type UpdateOrderStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
	Note   string             `json:"note"`
}

// AdminUpdateOrderStatus advances the fulfillment pipeline. The transition
// is checked locally first so an illegal click fails without a round trip;
// the backend enforces the same rules.
func (h *Handlers) AdminUpdateOrderStatus(c *gin.Context) {
	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s := sess(c)
	orderID := c.Param("id")

	var current *models.Order
	for _, o := range s.Orders.Orders() {
		if o.ID == orderID {
			current = &o
			break
		}
	}
	if current != nil {
		if err := statemachine.CanTransition(current.Status, req.Status, "admin"); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":             "Invalid state transition",
				"current_status":    current.Status,
				"requested":         req.Status,
				"reason":            err.Error(),
				"valid_next_states": statemachine.ValidTransitionsFrom(current.Status, "admin"),
			})
			return
		}
	}

	order, err := s.Orders.UpdateStatus(c.Request.Context(), orderID, req.Status, req.Note)
	if err != nil {
		toast(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":        "Order status updated",
		"order_id":       order.ID,
		"current_status": order.Status,
	})
}

// AdminVerifyPayment accepts a payment proof and moves the order to PROCESSING.
func (h *Handlers) AdminVerifyPayment(c *gin.Context) {
	s := sess(c)
	order, err := s.Orders.Verify(c.Request.Context(), c.Param("id"))
	if err != nil {
		toast(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":        "Payment verified",
		"order_id":       order.ID,
		"current_status": order.Status,
		"payment_status": order.PaymentStatus,
	})
}

// AdminCustomers lists registered customers with name/email search.
func (h *Handlers) AdminCustomers(c *gin.Context) {
	s := sess(c)
	if err := s.Customers.Fetch(c.Request.Context()); err != nil {
		toast(c, err)
		return
	}
	query, page, size := listParams(c)
	filtered := listview.Filter(s.Customers.Items(), query, func(u models.User) []string {
		return []string{u.Name, u.Email}
	})
	c.JSON(http.StatusOK, listview.Paginate(filtered, page, size))
}

// Notifications feeds the topbar badge: orders waiting for verification.
func (h *Handlers) Notifications(c *gin.Context) {
	s := sess(c)
	if err := s.Orders.FetchAll(c.Request.Context()); err != nil {
		toast(c, err)
		return
	}
	awaiting := 0
	for _, o := range s.Orders.Orders() {
		if o.Status == models.StatusWaitingVerification {
			awaiting++
		}
	}
	c.JSON(http.StatusOK, gin.H{"badge": awaiting})
}
