// Package session is the single owner of per-user state: one API client,
// one set of resource services, and one checkout wizard per logged-in
// browser session. Handlers get it injected instead of reaching for globals.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"warteg-web/apiclient"
	"warteg-web/backend"
	"warteg-web/checkout"
	"warteg-web/config"
	"warteg-web/models"
)

var ErrNotFound = errors.New("session: not found or expired")

// Session bundles everything scoped to one logged-in user.
type Session struct {
	ID        string
	User      models.User
	API       *apiclient.Client
	CreatedAt time.Time

	Auth           *backend.AuthService
	Orders         *backend.OrderService
	Cart           *backend.CartService
	Menu           *backend.MenuService
	Categories     *backend.CategoryService
	Gallery        *backend.GalleryService
	Testimonials   *backend.TestimonialService
	FAQs           *backend.FAQService
	Addresses      *backend.AddressService
	PaymentMethods *backend.PaymentMethodService
	Profiles       *backend.ProfileService
	Customers      *backend.CustomerService
	Wizard         *checkout.Wizard
}

// TokenExpiry peeks at the access token's exp claim without verifying the
// signature; only the backend verifies tokens.
func (s *Session) TokenExpiry() (time.Time, error) {
	claims := jwt.RegisteredClaims{}
	_, _, err := jwt.NewParser().ParseUnverified(s.API.Tokens().Access, &claims)
	if err != nil {
		return time.Time{}, err
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, errors.New("session: token has no expiry")
	}
	return claims.ExpiresAt.Time, nil
}

// Store keeps all live sessions, keyed by the cookie value.
type Store struct {
	backendURL string
	timeout    time.Duration
	ttl        time.Duration

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewStore(cfg *config.Config) *Store {
	return &Store{
		backendURL: cfg.BackendURL,
		timeout:    cfg.HTTPTimeout,
		ttl:        cfg.SessionTTL,
		sessions:   make(map[string]*Session),
	}
}

// Login authenticates against the backend and registers a fresh session.
// A refresh failure later on tears the session down, which is the server-side
// equivalent of the hard navigation to the login screen.
func (s *Store) Login(ctx context.Context, email, password string) (*Session, error) {
	api := apiclient.New(s.backendURL, s.timeout)
	auth := backend.NewAuthService(api)
	user, err := auth.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	sess := newSession(uuid.NewString(), user, api, auth)
	api.OnSessionExpired(func() { s.Invalidate(sess.ID) })

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return sess, nil
}

// Anonymous builds an unauthenticated session for the public storefront.
// It is not registered in the store.
func (s *Store) Anonymous() *Session {
	api := apiclient.New(s.backendURL, s.timeout)
	return newSession("", models.User{}, api, backend.NewAuthService(api))
}

func (s *Store) Get(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	if s.ttl > 0 && time.Since(sess.CreatedAt) > s.ttl {
		delete(s.sessions, id)
		return nil, false
	}
	return sess, true
}

// CurrentUser resolves the cookie value to a user, if the session is live.
func (s *Store) CurrentUser(id string) (models.User, bool) {
	sess, ok := s.Get(id)
	if !ok {
		return models.User{}, false
	}
	return sess.User, true
}

// Logout tells the backend and drops the session regardless of the outcome.
func (s *Store) Logout(ctx context.Context, id string) error {
	sess, ok := s.Get(id)
	if !ok {
		return ErrNotFound
	}
	err := sess.Auth.Logout(ctx)
	s.Invalidate(id)
	return err
}

func (s *Store) Invalidate(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

func newSession(id string, user models.User, api *apiclient.Client, auth *backend.AuthService) *Session {
	orders := backend.NewOrderService(api)
	return &Session{
		ID:             id,
		User:           user,
		API:            api,
		CreatedAt:      time.Now(),
		Auth:           auth,
		Orders:         orders,
		Cart:           backend.NewCartService(api, user.ID),
		Menu:           backend.NewMenuService(api),
		Categories:     backend.NewCategoryService(api),
		Gallery:        backend.NewGalleryService(api),
		Testimonials:   backend.NewTestimonialService(api),
		FAQs:           backend.NewFAQService(api),
		Addresses:      backend.NewAddressService(api),
		PaymentMethods: backend.NewPaymentMethodService(api),
		Profiles:       backend.NewProfileService(api),
		Customers:      backend.NewCustomerService(api),
		Wizard:         checkout.New(orders, user.ID),
	}
}
