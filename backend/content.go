package backend

import (
	"context"
	"net/http"
	"strconv"
	"sync"

	"warteg-web/apiclient"
	"warteg-web/models"
)

type GalleryService struct {
	api *apiclient.Client

	mu    sync.Mutex
	items []models.GalleryItem
}

func NewGalleryService(api *apiclient.Client) *GalleryService {
	return &GalleryService{api: api}
}

func (s *GalleryService) Fetch(ctx context.Context) error {
	var resp struct {
		Gallery []models.GalleryItem `json:"gallery"`
	}
	if err := s.api.Do(ctx, http.MethodGet, "/gallery", nil, &resp); err != nil {
		return err
	}
	s.mu.Lock()
	s.items = resp.Gallery
	s.mu.Unlock()
	return nil
}

func (s *GalleryService) Items() []models.GalleryItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.GalleryItem(nil), s.items...)
}

func (s *GalleryService) Create(ctx context.Context, title string, image *apiclient.Upload) error {
	fields := map[string]string{"title": title}
	if err := s.api.Upload(ctx, http.MethodPost, "/gallery", "image", image, fields, nil); err != nil {
		return err
	}
	return s.Fetch(ctx)
}

func (s *GalleryService) Update(ctx context.Context, id, title string, image *apiclient.Upload) error {
	fields := map[string]string{"title": title}
	if err := s.api.Upload(ctx, http.MethodPut, "/gallery/"+id, "image", image, fields, nil); err != nil {
		return err
	}
	return s.Fetch(ctx)
}

func (s *GalleryService) Remove(ctx context.Context, id string) error {
	if err := s.api.Do(ctx, http.MethodDelete, "/gallery/"+id, nil, nil); err != nil {
		return err
	}
	return s.Fetch(ctx)
}

type TestimonialService struct {
	api *apiclient.Client

	mu    sync.Mutex
	items []models.Testimonial
}

func NewTestimonialService(api *apiclient.Client) *TestimonialService {
	return &TestimonialService{api: api}
}

func (s *TestimonialService) Fetch(ctx context.Context) error {
	var resp struct {
		Testimonials []models.Testimonial `json:"testimonials"`
	}
	if err := s.api.Do(ctx, http.MethodGet, "/testimonials", nil, &resp); err != nil {
		return err
	}
	s.mu.Lock()
	s.items = resp.Testimonials
	s.mu.Unlock()
	return nil
}

func (s *TestimonialService) Items() []models.Testimonial {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Testimonial(nil), s.items...)
}

func (s *TestimonialService) Create(ctx context.Context, name, message string, rating int, avatar *apiclient.Upload) error {
	fields := map[string]string{"name": name, "message": message, "rating": strconv.Itoa(rating)}
	if err := s.api.Upload(ctx, http.MethodPost, "/testimonials", "avatar", avatar, fields, nil); err != nil {
		return err
	}
	return s.Fetch(ctx)
}

func (s *TestimonialService) Update(ctx context.Context, id, name, message string, rating int, avatar *apiclient.Upload) error {
	fields := map[string]string{"name": name, "message": message, "rating": strconv.Itoa(rating)}
	if err := s.api.Upload(ctx, http.MethodPut, "/testimonials/"+id, "avatar", avatar, fields, nil); err != nil {
		return err
	}
	return s.Fetch(ctx)
}

func (s *TestimonialService) Remove(ctx context.Context, id string) error {
	if err := s.api.Do(ctx, http.MethodDelete, "/testimonials/"+id, nil, nil); err != nil {
		return err
	}
	return s.Fetch(ctx)
}

type FAQService struct {
	api *apiclient.Client

	mu    sync.Mutex
	items []models.FAQ
}

func NewFAQService(api *apiclient.Client) *FAQService {
	return &FAQService{api: api}
}

func (s *FAQService) Fetch(ctx context.Context) error {
	var resp struct {
		FAQs []models.FAQ `json:"faqs"`
	}
	if err := s.api.Do(ctx, http.MethodGet, "/faqs", nil, &resp); err != nil {
		return err
	}
	s.mu.Lock()
	s.items = resp.FAQs
	s.mu.Unlock()
	return nil
}

func (s *FAQService) Items() []models.FAQ {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.FAQ(nil), s.items...)
}

func (s *FAQService) Create(ctx context.Context, question, answer string) error {
	body := map[string]string{"question": question, "answer": answer}
	if err := s.api.Do(ctx, http.MethodPost, "/faqs", body, nil); err != nil {
		return err
	}
	return s.Fetch(ctx)
}

func (s *FAQService) Update(ctx context.Context, id, question, answer string) error {
	body := map[string]string{"question": question, "answer": answer}
	if err := s.api.Do(ctx, http.MethodPut, "/faqs/"+id, body, nil); err != nil {
		return err
	}
	return s.Fetch(ctx)
}

func (s *FAQService) Remove(ctx context.Context, id string) error {
	if err := s.api.Do(ctx, http.MethodDelete, "/faqs/"+id, nil, nil); err != nil {
		return err
	}
	return s.Fetch(ctx)
}
