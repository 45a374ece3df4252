// Package backend holds one service per backend resource. Every service
// wraps the session's API client, keeps the last fetched collection under a
// mutex, and treats the backend as the single source of truth: after any
// mutation it refetches the list (or splices the one known item out).
package backend

import (
	"context"
	"net/http"

	"warteg-web/apiclient"
	"warteg-web/models"
)

type AuthService struct {
	api *apiclient.Client
}

func NewAuthService(api *apiclient.Client) *AuthService {
	return &AuthService{api: api}
}

// Login authenticates against the backend and installs the returned token
// pair on the shared client.
func (s *AuthService) Login(ctx context.Context, email, password string) (models.User, error) {
	var resp struct {
		User    models.User `json:"user"`
		Access  string      `json:"access_token"`
		Refresh string      `json:"refresh_token"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := s.api.Do(ctx, http.MethodPost, "/auth/login", body, &resp); err != nil {
		return models.User{}, err
	}
	s.api.SetTokens(apiclient.Tokens{Access: resp.Access, Refresh: resp.Refresh})
	return resp.User, nil
}

func (s *AuthService) Profile(ctx context.Context) (models.User, error) {
	var resp struct {
		User models.User `json:"user"`
	}
	if err := s.api.Do(ctx, http.MethodGet, "/auth/profile", nil, &resp); err != nil {
		return models.User{}, err
	}
	return resp.User, nil
}

// Logout invalidates the session server-side and clears local tokens either way.
func (s *AuthService) Logout(ctx context.Context) error {
	err := s.api.Do(ctx, http.MethodPost, "/auth/logout", nil, nil)
	s.api.SetTokens(apiclient.Tokens{})
	return err
}
