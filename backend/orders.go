package backend

import (
	"context"
	"net/http"
	"sync"

	"warteg-web/apiclient"
	"warteg-web/models"
)

type OrderService struct {
	api *apiclient.Client

	mu     sync.Mutex
	orders []models.Order
}

func NewOrderService(api *apiclient.Client) *OrderService {
	return &OrderService{api: api}
}

// CreateOrderRequest is the checkout submission payload.
type CreateOrderRequest struct {
	CartItemIDs     []string `json:"cartItemIds"`
	AddressID       *string  `json:"addressId"`
	PaymentMethodID string   `json:"paymentMethodId"`
	UserID          string   `json:"userId"`
}

// FetchAll loads every order (admin view).
func (s *OrderService) FetchAll(ctx context.Context) error {
	var resp struct {
		Orders []models.Order `json:"orders"`
	}
	if err := s.api.Do(ctx, http.MethodGet, "/orders", nil, &resp); err != nil {
		return err
	}
	s.mu.Lock()
	s.orders = resp.Orders
	s.mu.Unlock()
	return nil
}

// FetchForUser loads the customer's own orders.
func (s *OrderService) FetchForUser(ctx context.Context, userID string) error {
	var resp struct {
		Orders []models.Order `json:"orders"`
	}
	if err := s.api.Do(ctx, http.MethodGet, "/orders/user/"+userID, nil, &resp); err != nil {
		return err
	}
	s.mu.Lock()
	s.orders = resp.Orders
	s.mu.Unlock()
	return nil
}

func (s *OrderService) Orders() []models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Order(nil), s.orders...)
}

func (s *OrderService) Create(ctx context.Context, req CreateOrderRequest) (models.Order, error) {
	var resp struct {
		Order models.Order `json:"order"`
	}
	if err := s.api.Do(ctx, http.MethodPost, "/orders", req, &resp); err != nil {
		return models.Order{}, err
	}
	return resp.Order, nil
}

// UploadProof attaches the proof-of-payment image to an existing order.
func (s *OrderService) UploadProof(ctx context.Context, orderID string, proof *apiclient.Upload) (models.Order, error) {
	var resp struct {
		Order models.Order `json:"order"`
	}
	err := s.api.Upload(ctx, http.MethodPost, "/orders/"+orderID+"/payment-proof", "proof", proof, nil, &resp)
	if err != nil {
		return models.Order{}, err
	}
	return resp.Order, nil
}

// Verify accepts the payment proof and moves the order into PROCESSING.
func (s *OrderService) Verify(ctx context.Context, orderID string) (models.Order, error) {
	var resp struct {
		Order models.Order `json:"order"`
	}
	if err := s.api.Do(ctx, http.MethodPut, "/orders/"+orderID+"/verify", nil, &resp); err != nil {
		return models.Order{}, err
	}
	return resp.Order, s.FetchAll(ctx)
}

// UpdateStatus advances the fulfillment pipeline.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID string, status models.OrderStatus, note string) (models.Order, error) {
	var resp struct {
		Order models.Order `json:"order"`
	}
	body := map[string]any{"status": status, "note": note}
	if err := s.api.Do(ctx, http.MethodPut, "/orders/"+orderID+"/status", body, &resp); err != nil {
		return models.Order{}, err
	}
	return resp.Order, s.FetchAll(ctx)
}

// Delete removes one of the user's own orders and splices it out of the
// local list without a refetch.
func (s *OrderService) Delete(ctx context.Context, orderID, userID string) error {
	if err := s.api.Do(ctx, http.MethodDelete, "/orders/"+orderID+"/user/"+userID, nil, nil); err != nil {
		return err
	}
	s.mu.Lock()
	kept := s.orders[:0]
	for _, o := range s.orders {
		if o.ID != orderID {
			kept = append(kept, o)
		}
	}
	s.orders = kept
	s.mu.Unlock()
	return nil
}
