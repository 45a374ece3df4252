package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"sync"
	"time"
)

// ErrSessionExpired is returned for every request that cannot be completed
// because the session refresh failed. The page load is considered over at
// that point; the owner of the client redirects to login.
var ErrSessionExpired = errors.New("apiclient: session expired")

// APIError carries a backend error status and message so callers can surface
// validation messages verbatim and treat 5xx generically.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend: %d %s", e.Status, e.Message)
}

// IsValidation reports whether the error is a 4xx with a backend message.
func (e *APIError) IsValidation() bool {
	return e.Status >= 400 && e.Status < 500
}

// Tokens is the access/refresh pair issued by the backend.
type Tokens struct {
	Access  string `json:"access_token"`
	Refresh string `json:"refresh_token"`
}

// State of the refresh coordinator.
type State int

const (
	StateIdle State = iota
	StateRefreshing
	StateRedirecting // terminal for this client
)

// Upload is an in-memory file attached to a multipart request.
type Upload struct {
	FileName    string
	ContentType string
	Data        []byte
}

// call is a replayable request: the body is captured up front so the same
// request can be re-sent after a token refresh.
type call struct {
	method      string
	path        string
	body        []byte
	contentType string
	authed      bool // an access token was attached on first send
}

type callResult struct {
	resp *http.Response
	err  error
}

type queuedCall struct {
	ctx  context.Context
	cl   *call
	done chan callResult
}

// Client is the single HTTP gateway to the backend for one session. It owns
// the only lock-like primitive in the app: the refresh flag plus the FIFO
// queue of requests that hit a 401 while a refresh was in flight. At most
// one refresh runs at a time, and queued requests are replayed in the order
// they were queued.
type Client struct {
	base        string
	refreshPath string
	http        *http.Client

	mu        sync.Mutex
	state     State
	tokens    Tokens
	queue     []*queuedCall
	onExpired func()
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		base:        baseURL,
		refreshPath: "/auth/refresh",
		http:        &http.Client{Timeout: timeout},
	}
}

// OnSessionExpired registers the redirect hook, fired exactly once when a
// refresh fails.
func (c *Client) OnSessionExpired(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onExpired = fn
}

func (c *Client) SetTokens(t Tokens) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tokens = t
}

func (c *Client) Tokens() Tokens {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tokens
}

// State reports the refresh coordinator state.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// QueueLen reports how many requests are waiting on the in-flight refresh.
func (c *Client) QueueLen() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.queue)
}

// Do issues a JSON request and decodes the response into out (if non-nil).
// A 401 on an authenticated request goes through the refresh protocol; every
// other error status is returned as *APIError.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	var payload []byte
	contentType := ""
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return err
		}
		contentType = "application/json"
	}
	resp, err := c.roundTrip(ctx, &call{method: method, path: path, body: payload, contentType: contentType})
	if err != nil {
		return err
	}
	return finish(resp, out)
}

// Upload issues a multipart request with optional form fields and one file
// part. The body is buffered so the request survives a refresh replay.
func (c *Client) Upload(ctx context.Context, method, path, fieldName string, file *Upload, fields map[string]string, out any) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return err
		}
	}
	if file != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, fieldName, file.FileName))
		if file.ContentType != "" {
			h.Set("Content-Type", file.ContentType)
		}
		part, err := w.CreatePart(h)
		if err != nil {
			return err
		}
		if _, err := part.Write(file.Data); err != nil {
			return err
		}
	}
	if err := w.Close(); err != nil {
		return err
	}
	resp, err := c.roundTrip(ctx, &call{method: method, path: path, body: buf.Bytes(), contentType: w.FormDataContentType()})
	if err != nil {
		return err
	}
	return finish(resp, out)
}

func (c *Client) roundTrip(ctx context.Context, cl *call) (*http.Response, error) {
	c.mu.Lock()
	if c.state == StateRedirecting {
		c.mu.Unlock()
		return nil, ErrSessionExpired
	}
	c.mu.Unlock()

	resp, err := c.send(ctx, cl)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized || !cl.authed {
		// Unauthenticated 401s (bad login) are the caller's problem.
		return resp, nil
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return c.awaitRefresh(ctx, cl)
}

// awaitRefresh queues the call behind the session refresh. The first caller
// to arrive becomes the refresher: it performs the refresh call and then
// replays the whole queue in FIFO order, one request at a time.
func (c *Client) awaitRefresh(ctx context.Context, cl *call) (*http.Response, error) {
	q := &queuedCall{ctx: ctx, cl: cl, done: make(chan callResult, 1)}

	c.mu.Lock()
	switch c.state {
	case StateRedirecting:
		c.mu.Unlock()
		return nil, ErrSessionExpired
	case StateRefreshing:
		c.queue = append(c.queue, q)
		c.mu.Unlock()
	default: // StateIdle: this caller owns the refresh
		c.state = StateRefreshing
		c.queue = append(c.queue, q)
		c.mu.Unlock()
		c.refreshAndReplay()
	}

	select {
	case res := <-q.done:
		return res.resp, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *Client) refreshAndReplay() {
	tokens, err := c.doRefresh()

	c.mu.Lock()
	queue := c.queue
	c.queue = nil
	if err != nil {
		c.state = StateRedirecting
		hook := c.onExpired
		c.mu.Unlock()
		for _, q := range queue {
			q.done <- callResult{err: ErrSessionExpired}
		}
		if hook != nil {
			hook()
		}
		return
	}
	c.tokens = tokens
	c.state = StateIdle
	c.mu.Unlock()

	// FIFO replay. A replay that 401s again is not re-queued; the status
	// propagates to the caller.
	for _, q := range queue {
		resp, err := c.send(q.ctx, q.cl)
		q.done <- callResult{resp: resp, err: err}
	}
}

func (c *Client) doRefresh() (Tokens, error) {
	c.mu.Lock()
	refresh := c.tokens.Refresh
	c.mu.Unlock()

	body, err := json.Marshal(map[string]string{"refresh_token": refresh})
	if err != nil {
		return Tokens{}, err
	}
	req, err := http.NewRequest(http.MethodPost, c.base+c.refreshPath, bytes.NewReader(body))
	if err != nil {
		return Tokens{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return Tokens{}, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Tokens{}, err
	}
	if resp.StatusCode >= 400 {
		return Tokens{}, parseAPIError(resp.StatusCode, data)
	}
	var tokens Tokens
	if err := json.Unmarshal(data, &tokens); err != nil {
		return Tokens{}, err
	}
	if tokens.Access == "" {
		return Tokens{}, errors.New("apiclient: refresh response missing access token")
	}
	return tokens, nil
}

func (c *Client) send(ctx context.Context, cl *call) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, cl.method, c.base+cl.path, bytes.NewReader(cl.body))
	if err != nil {
		return nil, err
	}
	if cl.contentType != "" {
		req.Header.Set("Content-Type", cl.contentType)
	}
	if tok := c.Tokens().Access; tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
		cl.authed = true
	}
	return c.http.Do(req)
}

func finish(resp *http.Response, out any) error {
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return parseAPIError(resp.StatusCode, data)
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, out)
}

func parseAPIError(status int, data []byte) error {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	msg := http.StatusText(status)
	if json.Unmarshal(data, &body) == nil {
		if body.Message != "" {
			msg = body.Message
		} else if body.Error != "" {
			msg = body.Error
		}
	}
	return &APIError{Status: status, Message: msg}
}
