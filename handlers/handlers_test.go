package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"warteg-web/config"
	"warteg-web/fakeapi"
	"warteg-web/handlers"
	"warteg-web/models"
	"warteg-web/routes"
	"warteg-web/session"
)

// testApp runs the whole stack: the app server in front, the fake backend
// behind it, and an HTTP client with a cookie jar playing the browser.
type testApp struct {
	t       *testing.T
	fake    *fakeapi.Server
	baseURL string
	client  *http.Client

	admin    models.User
	customer models.User
	category models.Category
	items    []models.MenuItem
	address  models.Address
	payment  models.PaymentMethod
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	fake, err := fakeapi.New()
	if err != nil {
		t.Fatal(err)
	}
	backendSrv := httptest.NewServer(fake.Engine)
	t.Cleanup(backendSrv.Close)

	cfg := &config.Config{
		BackendURL:    backendSrv.URL,
		HTTPTimeout:   5 * time.Second,
		SessionCookie: "warteg_session",
		SessionTTL:    time.Hour,
	}
	store := session.NewStore(cfg)
	h := handlers.New(cfg, store)
	engine := gin.New()
	routes.SetupRoutes(engine, h, store, cfg.SessionCookie)

	appSrv := httptest.NewServer(engine)
	t.Cleanup(appSrv.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatal(err)
	}

	app := &testApp{t: t, fake: fake, baseURL: appSrv.URL, client: &http.Client{Jar: jar}}
	app.seed()
	return app
}

func (a *testApp) seed() {
	a.t.Helper()
	var err error
	if a.admin, err = a.fake.SeedUser("Bu Warteg", "admin@warteg.id", "adminpass", models.RoleAdmin); err != nil {
		a.t.Fatal(err)
	}
	if a.customer, err = a.fake.SeedUser("Budi", "budi@example.com", "rahasia1", models.RoleCustomer); err != nil {
		a.t.Fatal(err)
	}
	if a.category, err = a.fake.SeedCategory("Lauk"); err != nil {
		a.t.Fatal(err)
	}
	for _, m := range []struct {
		name  string
		price int64
	}{{"Ayam Goreng", 15000}, {"Tempe Orek", 5000}, {"Es Teh Manis", 4000}} {
		item, err := a.fake.SeedMenuItem(m.name, decimal.NewFromInt(m.price), a.category.ID)
		if err != nil {
			a.t.Fatal(err)
		}
		a.items = append(a.items, item)
	}
	if a.address, err = a.fake.SeedAddress(a.customer.ID, models.ModeDelivery, "Jl. Merdeka 1"); err != nil {
		a.t.Fatal(err)
	}
	if a.payment, err = a.fake.SeedPaymentMethod("Bank Transfer"); err != nil {
		a.t.Fatal(err)
	}
}

// do sends a JSON request through the cookie-jar client and decodes the
// JSON body into a generic map.
func (a *testApp) do(method, path string, body any) (int, map[string]any) {
	a.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			a.t.Fatal(err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, a.baseURL+path, reader)
	if err != nil {
		a.t.Fatal(err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := a.client.Do(req)
	if err != nil {
		a.t.Fatal(err)
	}
	defer resp.Body.Close()
	out := map[string]any{}
	json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

// doMultipart posts form fields plus an optional file part named "proof".
func (a *testApp) doMultipart(path string, fields map[string]string, withProof bool) (int, map[string]any) {
	a.t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		mw.WriteField(k, v)
	}
	if withProof {
		fw, err := mw.CreateFormFile("proof", "proof.jpg")
		if err != nil {
			a.t.Fatal(err)
		}
		fw.Write([]byte("fake-image-bytes"))
	}
	mw.Close()

	req, err := http.NewRequest(http.MethodPost, a.baseURL+path, &buf)
	if err != nil {
		a.t.Fatal(err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := a.client.Do(req)
	if err != nil {
		a.t.Fatal(err)
	}
	defer resp.Body.Close()
	out := map[string]any{}
	json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

func (a *testApp) login(email, password string) {
	a.t.Helper()
	code, body := a.do(http.MethodPost, "/api/auth/login", map[string]string{"email": email, "password": password})
	if code != http.StatusOK {
		a.t.Fatalf("login %s: %d %v", email, code, body)
	}
}

func (a *testApp) cartItemIDs() []string {
	a.t.Helper()
	code, body := a.do(http.MethodGet, "/api/cart", nil)
	if code != http.StatusOK {
		a.t.Fatalf("get cart: %d %v", code, body)
	}
	items, _ := body["items"].([]any)
	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.(map[string]any)["id"].(string))
	}
	return ids
}

// placeOrder walks the full checkout for the logged-in customer and returns
// the new order id.
func (a *testApp) placeOrder() string {
	a.t.Helper()
	if code, body := a.do(http.MethodPost, "/api/cart", map[string]any{"menu_item_id": a.items[0].ID, "quantity": 2}); code != http.StatusOK {
		a.t.Fatalf("add to cart: %d %v", code, body)
	}
	ids := a.cartItemIDs()
	if code, body := a.do(http.MethodPost, "/api/checkout/items", map[string]any{"cart_item_ids": ids}); code != http.StatusOK {
		a.t.Fatalf("select items: %d %v", code, body)
	}
	if code, body := a.do(http.MethodPost, "/api/checkout/delivery", map[string]any{"mode": "DELIVERY", "address_id": a.address.ID}); code != http.StatusOK {
		a.t.Fatalf("set delivery: %d %v", code, body)
	}
	if code, body := a.doMultipart("/api/checkout/payment", map[string]string{"payment_method_id": a.payment.ID}, true); code != http.StatusOK {
		a.t.Fatalf("set payment: %d %v", code, body)
	}
	code, body := a.do(http.MethodPost, "/api/checkout/submit", nil)
	if code != http.StatusCreated {
		a.t.Fatalf("submit: %d %v", code, body)
	}
	orderID, _ := body["order_id"].(string)
	if orderID == "" {
		a.t.Fatalf("submit returned no order id: %v", body)
	}
	return orderID
}

func TestLoginIssuesSessionCookie(t *testing.T) {
	app := newTestApp(t)
	app.login("budi@example.com", "rahasia1")

	code, body := app.do(http.MethodGet, "/api/me", nil)
	if code != http.StatusOK {
		t.Fatalf("me: %d %v", code, body)
	}
	user := body["user"].(map[string]any)
	if user["email"] != "budi@example.com" {
		t.Fatalf("me returned %v", user)
	}
	if _, ok := body["token_expires_at"]; !ok {
		t.Fatal("token expiry missing from /api/me")
	}
}

func TestLoginRejectsBadPassword(t *testing.T) {
	app := newTestApp(t)
	code, body := app.do(http.MethodPost, "/api/auth/login", map[string]string{"email": "budi@example.com", "password": "wrong"})
	if code != http.StatusUnauthorized {
		t.Fatalf("bad login: %d %v", code, body)
	}
	if body["error"] != "Invalid email or password" {
		t.Fatalf("backend message not surfaced verbatim: %v", body)
	}
}

func TestProtectedRoutesNeedACookie(t *testing.T) {
	app := newTestApp(t)
	code, body := app.do(http.MethodGet, "/api/cart", nil)
	if code != http.StatusUnauthorized {
		t.Fatalf("cart without login: %d", code)
	}
	if body["redirect"] != "/login" {
		t.Fatalf("401 must carry the login redirect: %v", body)
	}
}

func TestAdminRoutesRejectCustomers(t *testing.T) {
	app := newTestApp(t)
	app.login("budi@example.com", "rahasia1")
	if code, _ := app.do(http.MethodGet, "/api/admin/orders", nil); code != http.StatusForbidden {
		t.Fatalf("customer on admin route: %d, want 403", code)
	}
}

func TestMenuSearchAndPaging(t *testing.T) {
	app := newTestApp(t)

	code, body := app.do(http.MethodGet, "/api/menu?search=ayam", nil)
	if code != http.StatusOK {
		t.Fatalf("menu: %d %v", code, body)
	}
	if n := body["total_items"].(float64); n != 1 {
		t.Fatalf("search 'ayam' matched %v items, want 1", n)
	}

	code, body = app.do(http.MethodGet, "/api/menu?page_size=2&page=2", nil)
	if code != http.StatusOK {
		t.Fatalf("menu page 2: %d %v", code, body)
	}
	if pages := body["total_pages"].(float64); pages != 2 {
		t.Fatalf("3 items at size 2 = %v pages, want 2", pages)
	}
	if items := body["items"].([]any); len(items) != 1 {
		t.Fatalf("page 2 holds %d items, want 1", len(items))
	}
}

func TestCartRoundTrip(t *testing.T) {
	app := newTestApp(t)
	app.login("budi@example.com", "rahasia1")

	code, body := app.do(http.MethodPost, "/api/cart", map[string]any{"menu_item_id": app.items[0].ID, "quantity": 2})
	if code != http.StatusOK {
		t.Fatalf("add: %d %v", code, body)
	}
	if badge := body["cart_badge"].(float64); badge != 1 {
		t.Fatalf("badge after add = %v, want 1", badge)
	}

	ids := app.cartItemIDs()
	if len(ids) != 1 {
		t.Fatalf("cart has %d lines, want 1", len(ids))
	}

	if code, body = app.do(http.MethodPut, "/api/cart/item/"+ids[0], map[string]any{"quantity": 3}); code != http.StatusOK {
		t.Fatalf("update quantity: %d %v", code, body)
	}

	code, body = app.do(http.MethodGet, "/api/navbar", nil)
	if code != http.StatusOK {
		t.Fatalf("navbar: %d %v", code, body)
	}
	if badge := body["cart_badge"].(float64); badge != 1 {
		t.Fatalf("navbar badge = %v, want 1", badge)
	}

	if code, _ = app.do(http.MethodDelete, "/api/cart/item/"+ids[0], nil); code != http.StatusOK {
		t.Fatalf("remove: %d", code)
	}
	if got := app.cartItemIDs(); len(got) != 0 {
		t.Fatalf("cart still holds %d lines after remove", len(got))
	}
}

func TestCheckoutGuardsOverHTTP(t *testing.T) {
	app := newTestApp(t)
	app.login("budi@example.com", "rahasia1")

	// Advancing an empty wizard is refused and the step does not move.
	code, body := app.do(http.MethodPost, "/api/checkout/next", nil)
	if code != http.StatusUnprocessableEntity {
		t.Fatalf("next on empty wizard: %d %v", code, body)
	}
	if step := body["step"].(float64); step != 1 {
		t.Fatalf("step = %v, want 1", step)
	}

	code, body = app.do(http.MethodGet, "/api/checkout", nil)
	if code != http.StatusOK {
		t.Fatalf("state: %d %v", code, body)
	}
	if body["can_advance"] != false {
		t.Fatalf("empty wizard must not be advanceable: %v", body)
	}
}

func TestCheckoutFlowEndToEnd(t *testing.T) {
	app := newTestApp(t)
	app.login("budi@example.com", "rahasia1")
	orderID := app.placeOrder()

	// Successful submission resets the wizard and refreshes the cart.
	code, body := app.do(http.MethodGet, "/api/checkout", nil)
	if code != http.StatusOK {
		t.Fatalf("state: %d %v", code, body)
	}
	if step := body["step"].(float64); step != 1 {
		t.Fatalf("wizard step after submit = %v, want 1", step)
	}
	if body["order_id"] != "" {
		t.Fatalf("wizard kept order id after reset: %v", body["order_id"])
	}
	if got := app.cartItemIDs(); len(got) != 0 {
		t.Fatalf("cart still holds %d lines after order", len(got))
	}

	// The order shows up in the history with its proof already attached.
	code, body = app.do(http.MethodGet, "/api/orders/"+orderID, nil)
	if code != http.StatusOK {
		t.Fatalf("order detail: %d %v", code, body)
	}
	order := body["order"].(map[string]any)
	if order["status"] != string(models.StatusWaitingVerification) {
		t.Fatalf("status = %v, want WAITING_VERIFICATION", order["status"])
	}
	if order["payment_status"] != string(models.PaymentSubmitted) {
		t.Fatalf("payment_status = %v, want SUBMITTED", order["payment_status"])
	}
}

func TestCheckoutPartialFailureAndRetry(t *testing.T) {
	app := newTestApp(t)
	app.login("budi@example.com", "rahasia1")

	if code, body := app.do(http.MethodPost, "/api/cart", map[string]any{"menu_item_id": app.items[0].ID, "quantity": 1}); code != http.StatusOK {
		t.Fatalf("add to cart: %d %v", code, body)
	}
	ids := app.cartItemIDs()
	app.do(http.MethodPost, "/api/checkout/items", map[string]any{"cart_item_ids": ids})
	app.do(http.MethodPost, "/api/checkout/delivery", map[string]any{"mode": "DELIVERY", "address_id": app.address.ID})
	app.doMultipart("/api/checkout/payment", map[string]string{"payment_method_id": app.payment.ID}, true)

	app.fake.FailProofUpload(true)
	code, body := app.do(http.MethodPost, "/api/checkout/submit", nil)
	if code != http.StatusBadGateway {
		t.Fatalf("partial failure: %d %v", code, body)
	}
	orderID, _ := body["order_id"].(string)
	if orderID == "" {
		t.Fatalf("partial failure must expose the created order id: %v", body)
	}

	// The customer retries the upload from the order screen.
	app.fake.FailProofUpload(false)
	code, body = app.doMultipart("/api/orders/"+orderID+"/payment-proof", nil, true)
	if code != http.StatusOK {
		t.Fatalf("retry proof: %d %v", code, body)
	}
	order := body["order"].(map[string]any)
	if order["status"] != string(models.StatusWaitingVerification) {
		t.Fatalf("status after retry = %v, want WAITING_VERIFICATION", order["status"])
	}
}

func TestAdminOrderLifecycle(t *testing.T) {
	app := newTestApp(t)
	app.login("budi@example.com", "rahasia1")
	orderID := app.placeOrder()

	// The admin works in a separate browser.
	adminJar, _ := cookiejar.New(nil)
	app.client = &http.Client{Jar: adminJar}
	app.login("admin@warteg.id", "adminpass")

	code, body := app.do(http.MethodGet, "/api/admin/notifications", nil)
	if code != http.StatusOK {
		t.Fatalf("notifications: %d %v", code, body)
	}
	if badge := body["badge"].(float64); badge != 1 {
		t.Fatalf("badge = %v, want 1 order awaiting verification", badge)
	}

	code, body = app.do(http.MethodGet, "/api/admin/orders", nil)
	if code != http.StatusOK {
		t.Fatalf("admin orders: %d %v", code, body)
	}
	rows := body["rows"].([]any)
	if len(rows) != 1 {
		t.Fatalf("admin sees %d orders, want 1", len(rows))
	}
	nexts := rows[0].(map[string]any)["valid_next_states"].([]any)
	if len(nexts) != 2 {
		t.Fatalf("WAITING_VERIFICATION offers %d next states, want 2", len(nexts))
	}

	code, body = app.do(http.MethodPut, "/api/admin/orders/"+orderID+"/verify", nil)
	if code != http.StatusOK {
		t.Fatalf("verify: %d %v", code, body)
	}
	if body["current_status"] != string(models.StatusProcessing) {
		t.Fatalf("status after verify = %v, want PROCESSING", body["current_status"])
	}
	if body["payment_status"] != string(models.PaymentVerified) {
		t.Fatalf("payment status after verify = %v, want VERIFIED", body["payment_status"])
	}

	code, body = app.do(http.MethodPut, "/api/admin/orders/"+orderID+"/status", map[string]any{"status": "PACKING"})
	if code != http.StatusOK {
		t.Fatalf("advance to PACKING: %d %v", code, body)
	}

	// Skipping SHIPPED is refused locally, before any backend round trip.
	deletes := app.fake.CountRequests(http.MethodPut, "/orders/"+orderID+"/status")
	code, body = app.do(http.MethodPut, "/api/admin/orders/"+orderID+"/status", map[string]any{"status": "COMPLETED"})
	if code != http.StatusUnprocessableEntity {
		t.Fatalf("illegal transition: %d %v", code, body)
	}
	if after := app.fake.CountRequests(http.MethodPut, "/orders/"+orderID+"/status"); after != deletes {
		t.Fatal("illegal transition still reached the backend")
	}

	for _, status := range []string{"SHIPPED", "COMPLETED"} {
		code, body = app.do(http.MethodPut, "/api/admin/orders/"+orderID+"/status", map[string]any{"status": status})
		if code != http.StatusOK {
			t.Fatalf("advance to %s: %d %v", status, code, body)
		}
	}
	if body["current_status"] != string(models.StatusCompleted) {
		t.Fatalf("final status = %v, want COMPLETED", body["current_status"])
	}
}

func TestDashboardTotals(t *testing.T) {
	app := newTestApp(t)
	app.login("budi@example.com", "rahasia1")
	app.placeOrder()

	adminJar, _ := cookiejar.New(nil)
	app.client = &http.Client{Jar: adminJar}
	app.login("admin@warteg.id", "adminpass")

	code, body := app.do(http.MethodGet, "/api/admin/dashboard", nil)
	if code != http.StatusOK {
		t.Fatalf("dashboard: %d %v", code, body)
	}
	if n := body["total_orders"].(float64); n != 1 {
		t.Fatalf("total_orders = %v, want 1", n)
	}
	if n := body["awaiting_verification"].(float64); n != 1 {
		t.Fatalf("awaiting_verification = %v, want 1", n)
	}
	if n := body["total_menu_items"].(float64); n != 3 {
		t.Fatalf("total_menu_items = %v, want 3", n)
	}
	summary := body["order_summary"].(map[string]any)
	if summary[string(models.StatusWaitingVerification)].(float64) != 1 {
		t.Fatalf("order_summary = %v", summary)
	}
}

func TestAdminCatalogCrud(t *testing.T) {
	app := newTestApp(t)
	app.login("admin@warteg.id", "adminpass")

	code, body := app.doMultipart("/api/admin/menu-items", map[string]string{
		"name":        "Sayur Asem",
		"price":       "6000",
		"category_id": app.category.ID,
	}, false)
	if code != http.StatusCreated {
		t.Fatalf("create menu item: %d %v", code, body)
	}

	code, body = app.do(http.MethodGet, "/api/admin/menu-items?search=sayur", nil)
	if code != http.StatusOK {
		t.Fatalf("list: %d %v", code, body)
	}
	if n := body["total_items"].(float64); n != 1 {
		t.Fatalf("search found %v items, want 1", n)
	}
	item := body["items"].([]any)[0].(map[string]any)
	id := item["id"].(string)
	if id == "" || item["name"] != "Sayur Asem" {
		t.Fatalf("created item = %v", item)
	}

	if code, body = app.do(http.MethodDelete, "/api/admin/menu-items/"+id, nil); code != http.StatusOK {
		t.Fatalf("delete: %d %v", code, body)
	}
	if code, body = app.do(http.MethodGet, "/api/admin/menu-items?search=sayur", nil); body["total_items"].(float64) != 0 {
		t.Fatalf("item survived delete: %d %v", code, body)
	}
}

func TestLogoutKillsTheSession(t *testing.T) {
	app := newTestApp(t)
	app.login("budi@example.com", "rahasia1")

	if code, _ := app.do(http.MethodPost, "/api/auth/logout", nil); code != http.StatusOK {
		t.Fatalf("logout: %d", code)
	}
	if code, _ := app.do(http.MethodGet, "/api/me", nil); code != http.StatusUnauthorized {
		t.Fatalf("me after logout: %d, want 401", code)
	}
}

func TestFinancialReport(t *testing.T) {
	app := newTestApp(t)
	app.login("budi@example.com", "rahasia1")
	orderID := app.placeOrder()

	adminJar, _ := cookiejar.New(nil)
	app.client = &http.Client{Jar: adminJar}
	app.login("admin@warteg.id", "adminpass")

	// Walk the order to COMPLETED so it counts as revenue.
	app.do(http.MethodPut, "/api/admin/orders/"+orderID+"/verify", nil)
	for _, status := range []string{"PACKING", "SHIPPED", "COMPLETED"} {
		if code, body := app.do(http.MethodPut, fmt.Sprintf("/api/admin/orders/%s/status", orderID), map[string]any{"status": status}); code != http.StatusOK {
			t.Fatalf("advance to %s: %d %v", status, code, body)
		}
	}

	code, body := app.do(http.MethodGet, "/api/admin/finance", nil)
	if code != http.StatusOK {
		t.Fatalf("finance: %d %v", code, body)
	}
	if n := body["completed_orders"].(float64); n != 1 {
		t.Fatalf("completed_orders = %v, want 1", n)
	}
	// 2 portions of Ayam Goreng at 15000.
	if rev, _ := body["total_revenue"].(string); rev != "30000" {
		t.Fatalf("total_revenue = %v, want 30000", body["total_revenue"])
	}
}
