package backend

import (
	"context"
	"net/http"
	"strconv"
	"sync"

	"github.com/shopspring/decimal"

	"warteg-web/apiclient"
	"warteg-web/models"
)

// MenuItemInput is the create/update payload for a menu item. It is sent as
// multipart form fields because the image rides along in the same request.
type MenuItemInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	CategoryID  string
	IsAvailable bool
}

func (in MenuItemInput) fields() map[string]string {
	return map[string]string{
		"name":         in.Name,
		"description":  in.Description,
		"price":        in.Price.String(),
		"category_id":  in.CategoryID,
		"is_available": strconv.FormatBool(in.IsAvailable),
	}
}

type MenuService struct {
	api *apiclient.Client

	mu    sync.Mutex
	items []models.MenuItem
}

func NewMenuService(api *apiclient.Client) *MenuService {
	return &MenuService{api: api}
}

func (s *MenuService) Fetch(ctx context.Context) error {
	var resp struct {
		Items []models.MenuItem `json:"menu_items"`
	}
	if err := s.api.Do(ctx, http.MethodGet, "/menu-items", nil, &resp); err != nil {
		return err
	}
	s.mu.Lock()
	s.items = resp.Items
	s.mu.Unlock()
	return nil
}

func (s *MenuService) Items() []models.MenuItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.MenuItem(nil), s.items...)
}

func (s *MenuService) Create(ctx context.Context, in MenuItemInput, image *apiclient.Upload) error {
	if err := s.api.Upload(ctx, http.MethodPost, "/menu-items", "image", image, in.fields(), nil); err != nil {
		return err
	}
	return s.Fetch(ctx)
}

func (s *MenuService) Update(ctx context.Context, id string, in MenuItemInput, image *apiclient.Upload) error {
	if err := s.api.Upload(ctx, http.MethodPut, "/menu-items/"+id, "image", image, in.fields(), nil); err != nil {
		return err
	}
	return s.Fetch(ctx)
}

func (s *MenuService) Remove(ctx context.Context, id string) error {
	if err := s.api.Do(ctx, http.MethodDelete, "/menu-items/"+id, nil, nil); err != nil {
		return err
	}
	return s.Fetch(ctx)
}

type CategoryService struct {
	api *apiclient.Client

	mu         sync.Mutex
	categories []models.Category
}

func NewCategoryService(api *apiclient.Client) *CategoryService {
	return &CategoryService{api: api}
}

func (s *CategoryService) Fetch(ctx context.Context) error {
	var resp struct {
		Categories []models.Category `json:"categories"`
	}
	if err := s.api.Do(ctx, http.MethodGet, "/categories", nil, &resp); err != nil {
		return err
	}
	s.mu.Lock()
	s.categories = resp.Categories
	s.mu.Unlock()
	return nil
}

func (s *CategoryService) Items() []models.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Category(nil), s.categories...)
}

func (s *CategoryService) Create(ctx context.Context, name, description string, image *apiclient.Upload) error {
	fields := map[string]string{"name": name, "description": description}
	if err := s.api.Upload(ctx, http.MethodPost, "/categories", "image", image, fields, nil); err != nil {
		return err
	}
	return s.Fetch(ctx)
}

// Update uses PATCH; the category endpoint is the one resource the backend
// exposes with partial updates.
func (s *CategoryService) Update(ctx context.Context, id, name, description string, image *apiclient.Upload) error {
	fields := map[string]string{"name": name, "description": description}
	if err := s.api.Upload(ctx, http.MethodPatch, "/categories/"+id, "image", image, fields, nil); err != nil {
		return err
	}
	return s.Fetch(ctx)
}

func (s *CategoryService) Remove(ctx context.Context, id string) error {
	if err := s.api.Do(ctx, http.MethodDelete, "/categories/"+id, nil, nil); err != nil {
		return err
	}
	return s.Fetch(ctx)
}
