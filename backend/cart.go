package backend

import (
	"context"
	"net/http"
	"sync"

	"github.com/shopspring/decimal"

	"warteg-web/apiclient"
	"warteg-web/models"
)

// CartService is scoped to one user's cart. The backend owns the cart;
// every mutation is followed by a refetch.
type CartService struct {
	api    *apiclient.Client
	userID string

	mu    sync.Mutex
	items []models.CartItem
}

func NewCartService(api *apiclient.Client, userID string) *CartService {
	return &CartService{api: api, userID: userID}
}

func (s *CartService) Fetch(ctx context.Context) error {
	var resp struct {
		Items []models.CartItem `json:"items"`
	}
	if err := s.api.Do(ctx, http.MethodGet, "/cart/user/"+s.userID, nil, &resp); err != nil {
		return err
	}
	s.mu.Lock()
	s.items = resp.Items
	s.mu.Unlock()
	return nil
}

func (s *CartService) Items() []models.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.CartItem(nil), s.items...)
}

// Count feeds the navbar cart badge.
func (s *CartService) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *CartService) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := decimal.Zero
	for _, item := range s.items {
		total = total.Add(item.Subtotal)
	}
	return total
}

func (s *CartService) Add(ctx context.Context, menuItemID string, quantity int) error {
	body := map[string]any{"user_id": s.userID, "menu_item_id": menuItemID, "quantity": quantity}
	if err := s.api.Do(ctx, http.MethodPost, "/cart", body, nil); err != nil {
		return err
	}
	return s.Fetch(ctx)
}

func (s *CartService) UpdateQuantity(ctx context.Context, itemID string, quantity int) error {
	body := map[string]any{"quantity": quantity}
	if err := s.api.Do(ctx, http.MethodPut, "/cart/item/"+itemID, body, nil); err != nil {
		return err
	}
	return s.Fetch(ctx)
}

func (s *CartService) Remove(ctx context.Context, itemID string) error {
	if err := s.api.Do(ctx, http.MethodDelete, "/cart/item/"+itemID, nil, nil); err != nil {
		return err
	}
	return s.Fetch(ctx)
}

func (s *CartService) Clear(ctx context.Context) error {
	if err := s.api.Do(ctx, http.MethodDelete, "/cart/clear/"+s.userID, nil, nil); err != nil {
		return err
	}
	return s.Fetch(ctx)
}
