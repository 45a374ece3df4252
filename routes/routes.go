package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"warteg-web/handlers"
	"warteg-web/middleware"
	"warteg-web/models"
	"warteg-web/session"
)

// routeTitles backs the admin topbar: path prefix to page title.
var routeTitles = map[string]string{
	"/api/admin/dashboard":       "Dashboard",
	"/api/admin/orders":          "Order Management",
	"/api/admin/menu-items":      "Menu Management",
	"/api/admin/categories":      "Category Management",
	"/api/admin/gallery":         "Gallery",
	"/api/admin/testimonials":    "Testimonials",
	"/api/admin/faqs":            "FAQ",
	"/api/admin/payment-methods": "Payment Methods",
	"/api/admin/customers":       "Customers",
	"/api/admin/finance":         "Financial Report",
}

// TitleFor resolves the admin chrome title for a route, with a fallback.
func TitleFor(path string) string {
	if title, ok := routeTitles[path]; ok {
		return title
	}
	return "Warteg Admin"
}

func SetupRoutes(r *gin.Engine, h *handlers.Handlers, store *session.Store, cookieName string) {
	// ── Public storefront ──────────────────────────────────────────
	public := r.Group("/api")
	{
		public.POST("/auth/login", h.Login)
		public.GET("/menu", h.Menu)
		public.GET("/categories", h.Categories)
		public.GET("/gallery", h.Gallery)
		public.GET("/testimonials", h.Testimonials)
		public.GET("/faqs", h.FAQs)
	}

	// ── Authenticated customer routes ──────────────────────────────
	auth := r.Group("/api")
	auth.Use(middleware.SessionRequired(store, cookieName))
	{
		auth.POST("/auth/logout", h.Logout)
		auth.GET("/me", h.Me)
		auth.GET("/navbar", h.Navbar)

		auth.GET("/cart", h.GetCart)
		auth.POST("/cart", h.AddToCart)
		auth.PUT("/cart/item/:id", h.UpdateCartItem)
		auth.DELETE("/cart/item/:id", h.RemoveCartItem)
		auth.DELETE("/cart", h.ClearCart)

		auth.GET("/checkout", h.CheckoutState)
		auth.POST("/checkout/items", h.CheckoutSelectItems)
		auth.POST("/checkout/delivery", h.CheckoutSetDelivery)
		auth.POST("/checkout/payment", h.CheckoutSetPayment)
		auth.POST("/checkout/next", h.CheckoutNext)
		auth.POST("/checkout/back", h.CheckoutBack)
		auth.POST("/checkout/submit", h.CheckoutSubmit)
		auth.DELETE("/checkout", h.CheckoutCancel)

		auth.GET("/orders", h.MyOrders)
		auth.GET("/orders/:id", h.OrderDetail)
		auth.DELETE("/orders/:id", h.DeleteOrder)
		auth.POST("/orders/:id/payment-proof", h.RetryProofUpload)

		auth.GET("/profile", h.GetProfile)
		auth.PUT("/profile", h.UpdateProfile)
		auth.GET("/addresses", h.ListAddresses)
		auth.POST("/addresses", h.CreateAddress)
		auth.PUT("/addresses/:id", h.UpdateAddress)
		auth.DELETE("/addresses/:id", h.DeleteAddress)
	}

	// ── Admin dashboard ────────────────────────────────────────────
	admin := r.Group("/api/admin")
	admin.Use(middleware.SessionRequired(store, cookieName), middleware.RoleRequired(models.RoleAdmin))
	{
		admin.GET("/layout", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"title": TitleFor(c.Query("path"))})
		})
		admin.GET("/notifications", h.Notifications)
		admin.GET("/dashboard", h.Dashboard)

		admin.GET("/orders", h.AdminOrders)
		admin.PUT("/orders/:id/status", h.AdminUpdateOrderStatus)
		admin.PUT("/orders/:id/verify", h.AdminVerifyPayment)

		admin.GET("/menu-items", h.AdminMenuItems)
		admin.POST("/menu-items", h.AdminCreateMenuItem)
		admin.PUT("/menu-items/:id", h.AdminUpdateMenuItem)
		admin.DELETE("/menu-items/:id", h.AdminDeleteMenuItem)

		admin.GET("/categories", h.AdminCategories)
		admin.POST("/categories", h.AdminCreateCategory)
		admin.PATCH("/categories/:id", h.AdminUpdateCategory)
		admin.DELETE("/categories/:id", h.AdminDeleteCategory)

		admin.GET("/gallery", h.AdminGallery)
		admin.POST("/gallery", h.AdminCreateGalleryItem)
		admin.PUT("/gallery/:id", h.AdminUpdateGalleryItem)
		admin.DELETE("/gallery/:id", h.AdminDeleteGalleryItem)

		admin.GET("/testimonials", h.AdminTestimonials)
		admin.POST("/testimonials", h.AdminCreateTestimonial)
		admin.PUT("/testimonials/:id", h.AdminUpdateTestimonial)
		admin.DELETE("/testimonials/:id", h.AdminDeleteTestimonial)

		admin.GET("/faqs", h.AdminFAQs)
		admin.POST("/faqs", h.AdminCreateFAQ)
		admin.PUT("/faqs/:id", h.AdminUpdateFAQ)
		admin.DELETE("/faqs/:id", h.AdminDeleteFAQ)

		admin.GET("/payment-methods", h.AdminPaymentMethods)
		admin.POST("/payment-methods", h.AdminCreatePaymentMethod)
		admin.PUT("/payment-methods/:id", h.AdminUpdatePaymentMethod)
		admin.DELETE("/payment-methods/:id", h.AdminDeletePaymentMethod)

		admin.GET("/customers", h.AdminCustomers)
		admin.GET("/finance", h.FinancialReport)
	}
}
