package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"warteg-web/apiclient"
	"warteg-web/config"
	"warteg-web/listview"
	"warteg-web/middleware"
	"warteg-web/session"
)

// Handlers carries the injected dependencies for every screen. The public
// session is a single anonymous API client shared by the storefront pages
// that need no login.
type Handlers struct {
	Cfg    *config.Config
	Store  *session.Store
	Public *session.Session
}

func New(cfg *config.Config, store *session.Store) *Handlers {
	return &Handlers{Cfg: cfg, Store: store, Public: store.Anonymous()}
}

func sess(c *gin.Context) *session.Session {
	return middleware.GetSession(c)
}

// toast maps the error taxonomy onto toast payloads: expired sessions
// trigger the login redirect, 4xx backend messages are surfaced verbatim,
// everything else gets a generic message.
func toast(c *gin.Context, err error) {
	if errors.Is(err, apiclient.ErrSessionExpired) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Session expired", "redirect": "/login"})
		return
	}
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) && apiErr.IsValidation() {
		c.JSON(apiErr.Status, gin.H{"error": apiErr.Message})
		return
	}
	c.JSON(http.StatusBadGateway, gin.H{"error": "Something went wrong. Please try again."})
}

// listParams reads the shared search/pagination query parameters.
func listParams(c *gin.Context) (query string, page, size int) {
	query = c.Query("search")
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ = strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(listview.DefaultPageSize)))
	return query, page, size
}

// formUpload reads an optional file part into memory so it can ride along in
// a replayable multipart request. A missing part is not an error.
func formUpload(c *gin.Context, field string) (*apiclient.Upload, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil, nil
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return &apiclient.Upload{
		FileName:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
