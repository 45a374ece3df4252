package backend

import (
	"context"
	"net/http"
	"sync"

	"warteg-web/apiclient"
	"warteg-web/models"
)

// AddressService manages the logged-in user's saved addresses and table
// records.
type AddressService struct {
	api *apiclient.Client

	mu    sync.Mutex
	items []models.Address
}

func NewAddressService(api *apiclient.Client) *AddressService {
	return &AddressService{api: api}
}

func (s *AddressService) Fetch(ctx context.Context) error {
	var resp struct {
		Addresses []models.Address `json:"addresses"`
	}
	if err := s.api.Do(ctx, http.MethodGet, "/addresses", nil, &resp); err != nil {
		return err
	}
	s.mu.Lock()
	s.items = resp.Addresses
	s.mu.Unlock()
	return nil
}

func (s *AddressService) Items() []models.Address {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Address(nil), s.items...)
}

// Get looks the address up in the last fetched list.
func (s *AddressService) Get(id string) (models.Address, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.items {
		if a.ID == id {
			return a, true
		}
	}
	return models.Address{}, false
}

func (s *AddressService) Create(ctx context.Context, mode models.DeliveryMode, description, notes string) (models.Address, error) {
	var resp struct {
		Address models.Address `json:"address"`
	}
	body := map[string]any{"mode": mode, "description": description, "notes": notes}
	if err := s.api.Do(ctx, http.MethodPost, "/addresses", body, &resp); err != nil {
		return models.Address{}, err
	}
	return resp.Address, s.Fetch(ctx)
}

func (s *AddressService) Update(ctx context.Context, id string, mode models.DeliveryMode, description, notes string) error {
	body := map[string]any{"mode": mode, "description": description, "notes": notes}
	if err := s.api.Do(ctx, http.MethodPut, "/addresses/"+id, body, nil); err != nil {
		return err
	}
	return s.Fetch(ctx)
}

func (s *AddressService) Remove(ctx context.Context, id string) error {
	if err := s.api.Do(ctx, http.MethodDelete, "/addresses/"+id, nil, nil); err != nil {
		return err
	}
	return s.Fetch(ctx)
}

type PaymentMethodService struct {
	api *apiclient.Client

	mu    sync.Mutex
	items []models.PaymentMethod
}

func NewPaymentMethodService(api *apiclient.Client) *PaymentMethodService {
	return &PaymentMethodService{api: api}
}

func (s *PaymentMethodService) Fetch(ctx context.Context) error {
	var resp struct {
		PaymentMethods []models.PaymentMethod `json:"payment_methods"`
	}
	if err := s.api.Do(ctx, http.MethodGet, "/payment-methods", nil, &resp); err != nil {
		return err
	}
	s.mu.Lock()
	s.items = resp.PaymentMethods
	s.mu.Unlock()
	return nil
}

func (s *PaymentMethodService) Items() []models.PaymentMethod {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.PaymentMethod(nil), s.items...)
}

func (s *PaymentMethodService) Create(ctx context.Context, name, accountNumber, holderName string, active bool) error {
	body := map[string]any{"name": name, "account_number": accountNumber, "holder_name": holderName, "is_active": active}
	if err := s.api.Do(ctx, http.MethodPost, "/payment-methods", body, nil); err != nil {
		return err
	}
	return s.Fetch(ctx)
}

func (s *PaymentMethodService) Update(ctx context.Context, id, name, accountNumber, holderName string, active bool) error {
	body := map[string]any{"name": name, "account_number": accountNumber, "holder_name": holderName, "is_active": active}
	if err := s.api.Do(ctx, http.MethodPut, "/payment-methods/"+id, body, nil); err != nil {
		return err
	}
	return s.Fetch(ctx)
}

func (s *PaymentMethodService) Remove(ctx context.Context, id string) error {
	if err := s.api.Do(ctx, http.MethodDelete, "/payment-methods/"+id, nil, nil); err != nil {
		return err
	}
	return s.Fetch(ctx)
}

type ProfileService struct {
	api *apiclient.Client
}

func NewProfileService(api *apiclient.Client) *ProfileService {
	return &ProfileService{api: api}
}

func (s *ProfileService) Get(ctx context.Context, userID string) (models.Profile, error) {
	var resp struct {
		Profile models.Profile `json:"profile"`
	}
	if err := s.api.Do(ctx, http.MethodGet, "/profiles/"+userID, nil, &resp); err != nil {
		return models.Profile{}, err
	}
	return resp.Profile, nil
}

// Update sends profile fields and an optional avatar in one multipart request.
func (s *ProfileService) Update(ctx context.Context, userID, name, phone string, avatar *apiclient.Upload) (models.Profile, error) {
	var resp struct {
		Profile models.Profile `json:"profile"`
	}
	fields := map[string]string{"name": name, "phone": phone}
	err := s.api.Upload(ctx, http.MethodPut, "/profiles/"+userID, "avatar", avatar, fields, &resp)
	if err != nil {
		return models.Profile{}, err
	}
	return resp.Profile, nil
}

// CustomerService lists registered customers for the admin screen.
type CustomerService struct {
	api *apiclient.Client

	mu    sync.Mutex
	items []models.User
}

func NewCustomerService(api *apiclient.Client) *CustomerService {
	return &CustomerService{api: api}
}

func (s *CustomerService) Fetch(ctx context.Context) error {
	var resp struct {
		Users []models.User `json:"users"`
	}
	if err := s.api.Do(ctx, http.MethodGet, "/users", nil, &resp); err != nil {
		return err
	}
	s.mu.Lock()
	s.items = resp.Users
	s.mu.Unlock()
	return nil
}

func (s *CustomerService) Items() []models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.User(nil), s.items...)
}
