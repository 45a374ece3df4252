// Package fakeapi is an in-process stand-in for the external warteg backend,
// used by tests. It implements the REST surface the app consumes, backed by
// an in-memory sqlite database, with real bcrypt passwords and a rotating
// JWT access/refresh token pair.
package fakeapi

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"warteg-web/models"
)

type refreshToken struct {
	Token     string `gorm:"primaryKey"`
	UserID    string
	Revoked   bool
	CreatedAt time.Time
}

type claims struct {
	UserID string          `json:"user_id"`
	Email  string          `json:"email"`
	Role   models.UserRole `json:"role"`
	jwt.RegisteredClaims
}

type Server struct {
	DB     *gorm.DB
	Engine *gin.Engine

	secret    []byte
	AccessTTL time.Duration

	mu              sync.Mutex
	requests        []string
	failProofUpload bool
}

func New() (*Server, error) {
	gin.SetMode(gin.TestMode)
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.Category{},
		&models.MenuItem{},
		&models.GalleryItem{},
		&models.Testimonial{},
		&models.FAQ{},
		&models.Address{},
		&models.PaymentMethod{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&refreshToken{},
	)
	if err != nil {
		return nil, err
	}

	s := &Server{
		DB:        db,
		secret:    []byte("warteg_test_secret"),
		AccessTTL: time.Hour,
	}
	s.Engine = s.router()
	return s, nil
}

func (s *Server) router() *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		s.mu.Lock()
		s.requests = append(s.requests, c.Request.Method+" "+c.Request.URL.Path)
		s.mu.Unlock()
		c.Next()
	})

	r.POST("/auth/login", s.login)
	r.POST("/auth/refresh", s.refresh)

	r.GET("/menu-items", s.listMenuItems)
	r.GET("/categories", s.listCategories)
	r.GET("/gallery", s.listGallery)
	r.GET("/testimonials", s.listTestimonials)
	r.GET("/faqs", s.listFAQs)
	r.GET("/payment-methods", s.listPaymentMethods)

	auth := r.Group("/", s.authRequired)
	{
		auth.POST("/auth/logout", s.logout)
		auth.GET("/auth/profile", s.authProfile)

		auth.GET("/cart/user/:userId", s.getCart)
		auth.POST("/cart", s.addCartItem)
		auth.PUT("/cart/item/:id", s.updateCartItem)
		auth.DELETE("/cart/item/:id", s.deleteCartItem)
		auth.DELETE("/cart/clear/:userId", s.clearCart)

		auth.POST("/orders", s.createOrder)
		auth.POST("/orders/:id/payment-proof", s.uploadProof)
		auth.GET("/orders/user/:userId", s.ordersForUser)
		auth.DELETE("/orders/:id/user/:userId", s.deleteOrder)

		auth.GET("/addresses", s.listAddresses)
		auth.POST("/addresses", s.createAddress)
		auth.PUT("/addresses/:id", s.updateAddress)
		auth.DELETE("/addresses/:id", s.deleteAddress)

		auth.GET("/profiles/:id", s.getProfile)
		auth.PUT("/profiles/:id", s.updateProfile)
	}

	admin := r.Group("/", s.authRequired, s.adminRequired)
	{
		admin.GET("/orders", s.listOrders)
		admin.PUT("/orders/:id/verify", s.verifyOrder)
		admin.PUT("/orders/:id/status", s.updateOrderStatus)
		admin.GET("/users", s.listUsers)

		admin.POST("/menu-items", s.createMenuItem)
		admin.PUT("/menu-items/:id", s.updateMenuItem)
		admin.DELETE("/menu-items/:id", s.deleteMenuItem)

		admin.POST("/categories", s.createCategory)
		admin.PATCH("/categories/:id", s.updateCategory)
		admin.DELETE("/categories/:id", s.deleteCategory)

		admin.POST("/gallery", s.createGalleryItem)
		admin.PUT("/gallery/:id", s.updateGalleryItem)
		admin.DELETE("/gallery/:id", s.deleteGalleryItem)

		admin.POST("/testimonials", s.createTestimonial)
		admin.PUT("/testimonials/:id", s.updateTestimonial)
		admin.DELETE("/testimonials/:id", s.deleteTestimonial)

		admin.POST("/faqs", s.createFAQ)
		admin.PUT("/faqs/:id", s.updateFAQ)
		admin.DELETE("/faqs/:id", s.deleteFAQ)

		admin.POST("/payment-methods", s.createPaymentMethod)
		admin.PUT("/payment-methods/:id", s.updatePaymentMethod)
		admin.DELETE("/payment-methods/:id", s.deletePaymentMethod)
	}

	return r
}

// FailProofUpload makes the next proof uploads answer 500, for exercising
// the non-atomic checkout submission.
func (s *Server) FailProofUpload(fail bool) {
	s.mu.Lock()
	s.failProofUpload = fail
	s.mu.Unlock()
}

// Requests returns the request log as "METHOD /path" strings.
func (s *Server) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

// CountRequests counts logged requests matching method and path prefix.
func (s *Server) CountRequests(method, prefix string) int {
	n := 0
	for _, r := range s.Requests() {
		if strings.HasPrefix(r, method+" "+prefix) {
			n++
		}
	}
	return n
}

// ── Auth ───────────────────────────────────────────────────────────

func (s *Server) issueTokens(user *models.User) (access, refresh string, err error) {
	cl := claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.AccessTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	access, err = jwt.NewWithClaims(jwt.SigningMethodHS256, cl).SignedString(s.secret)
	if err != nil {
		return "", "", err
	}
	refresh = uuid.NewString()
	if err := s.DB.Create(&refreshToken{Token: refresh, UserID: user.ID}).Error; err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

func (s *Server) login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var user models.User
	if err := s.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}
	access, refresh, err := s.issueTokens(&user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":       "Login successful",
		"user":          user,
		"access_token":  access,
		"refresh_token": refresh,
	})
}

func (s *Server) refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Refresh token required"})
		return
	}
	var rt refreshToken
	if err := s.DB.Where("token = ? AND revoked = ?", req.RefreshToken, false).First(&rt).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid refresh token"})
		return
	}
	var user models.User
	if err := s.DB.First(&user, "id = ?", rt.UserID).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unknown user"})
		return
	}
	// Rotate: the old refresh token dies with this exchange.
	s.DB.Model(&rt).Update("revoked", true)
	access, refresh, err := s.issueTokens(&user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"access_token": access, "refresh_token": refresh})
}

func (s *Server) logout(c *gin.Context) {
	userID := c.GetString("userID")
	s.DB.Model(&refreshToken{}).Where("user_id = ?", userID).Update("revoked", true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func (s *Server) authProfile(c *gin.Context) {
	var user models.User
	if err := s.DB.First(&user, "id = ?", c.GetString("userID")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (s *Server) authRequired(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required (Bearer <token>)"})
		c.Abort()
		return
	}
	cl := &claims{}
	token, err := jwt.ParseWithClaims(strings.TrimPrefix(header, "Bearer "), cl, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		c.Abort()
		return
	}
	c.Set("userID", cl.UserID)
	c.Set("role", string(cl.Role))
	c.Next()
}

func (s *Server) adminRequired(c *gin.Context) {
	if c.GetString("role") != string(models.RoleAdmin) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Admin only"})
		c.Abort()
		return
	}
	c.Next()
}

// ── Seed helpers ───────────────────────────────────────────────────

func (s *Server) SeedUser(name, email, password string, role models.UserRole) (models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return models.User{}, err
	}
	user := models.User{ID: uuid.NewString(), Name: name, Email: email, PasswordHash: string(hash), Role: role}
	if err := s.DB.Create(&user).Error; err != nil {
		return models.User{}, err
	}
	profile := models.Profile{ID: uuid.NewString(), UserID: user.ID, Name: name}
	return user, s.DB.Create(&profile).Error
}

func (s *Server) SeedCategory(name string) (models.Category, error) {
	cat := models.Category{ID: uuid.NewString(), Name: name}
	return cat, s.DB.Create(&cat).Error
}

func (s *Server) SeedMenuItem(name string, price decimal.Decimal, categoryID string) (models.MenuItem, error) {
	item := models.MenuItem{ID: uuid.NewString(), Name: name, Price: price, CategoryID: categoryID, IsAvailable: true}
	return item, s.DB.Create(&item).Error
}

func (s *Server) SeedAddress(userID string, mode models.DeliveryMode, description string) (models.Address, error) {
	addr := models.Address{ID: uuid.NewString(), UserID: userID, Mode: mode, Description: description}
	return addr, s.DB.Create(&addr).Error
}

func (s *Server) SeedPaymentMethod(name string) (models.PaymentMethod, error) {
	pm := models.PaymentMethod{ID: uuid.NewString(), Name: name, IsActive: true}
	return pm, s.DB.Create(&pm).Error
}

func (s *Server) SeedCartItem(userID string, item models.MenuItem, quantity int) (models.CartItem, error) {
	ci := models.CartItem{
		ID:         uuid.NewString(),
		UserID:     userID,
		MenuItemID: item.ID,
		Quantity:   quantity,
		Subtotal:   item.Price.Mul(decimal.NewFromInt(int64(quantity))),
	}
	return ci, s.DB.Create(&ci).Error
}
