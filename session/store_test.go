package session_test

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"warteg-web/config"
	"warteg-web/fakeapi"
	"warteg-web/models"
	"warteg-web/session"
)

func newStoreEnv(t *testing.T, ttl time.Duration) (*fakeapi.Server, *session.Store) {
	t.Helper()
	fake, err := fakeapi.New()
	if err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(fake.Engine)
	t.Cleanup(srv.Close)

	if _, err := fake.SeedUser("Budi", "budi@example.com", "rahasia1", models.RoleCustomer); err != nil {
		t.Fatal(err)
	}
	store := session.NewStore(&config.Config{
		BackendURL:  srv.URL,
		HTTPTimeout: 5 * time.Second,
		SessionTTL:  ttl,
	})
	return fake, store
}

func TestLoginRegistersSession(t *testing.T) {
	_, store := newStoreEnv(t, time.Hour)
	sess, err := store.Login(context.Background(), "budi@example.com", "rahasia1")
	if err != nil {
		t.Fatal(err)
	}
	if sess.ID == "" {
		t.Fatal("session has no id")
	}

	got, ok := store.Get(sess.ID)
	if !ok || got != sess {
		t.Fatal("session not retrievable by id")
	}
	if user, ok := store.CurrentUser(sess.ID); !ok || user.Email != "budi@example.com" {
		t.Fatalf("current user = %v %v", user, ok)
	}

	exp, err := sess.TokenExpiry()
	if err != nil {
		t.Fatal(err)
	}
	if until := time.Until(exp); until < 50*time.Minute || until > 70*time.Minute {
		t.Fatalf("token expiry %v from now, want about an hour", until)
	}
}

func TestLoginBadCredentials(t *testing.T) {
	_, store := newStoreEnv(t, time.Hour)
	if _, err := store.Login(context.Background(), "budi@example.com", "wrong"); err == nil {
		t.Fatal("expected login failure")
	}
}

func TestLogoutDropsSession(t *testing.T) {
	fake, store := newStoreEnv(t, time.Hour)
	sess, err := store.Login(context.Background(), "budi@example.com", "rahasia1")
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Logout(context.Background(), sess.ID); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, ok := store.Get(sess.ID); ok {
		t.Fatal("session survived logout")
	}
	if n := fake.CountRequests("POST", "/auth/logout"); n != 1 {
		t.Fatalf("backend logout called %d times, want 1", n)
	}
}

func TestExpiredSessionIsGone(t *testing.T) {
	_, store := newStoreEnv(t, time.Nanosecond)
	sess, err := store.Login(context.Background(), "budi@example.com", "rahasia1")
	if err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, ok := store.Get(sess.ID); ok {
		t.Fatal("session outlived its ttl")
	}
}

// A failed token refresh tears the session down through the expiry hook, so
// the next request with the same cookie lands on the login redirect.
func TestRefreshFailureInvalidatesSession(t *testing.T) {
	fake, store := newStoreEnv(t, time.Hour)
	fake.AccessTTL = -time.Minute // every issued access token is already dead
	sess, err := store.Login(context.Background(), "budi@example.com", "rahasia1")
	if err != nil {
		t.Fatal(err)
	}
	// Kill the refresh token server-side so the refresh cannot succeed.
	fake.DB.Exec("UPDATE refresh_tokens SET revoked = true")

	if err := sess.Orders.FetchForUser(context.Background(), sess.User.ID); err == nil {
		t.Fatal("expected the request to fail")
	}
	if _, ok := store.Get(sess.ID); ok {
		t.Fatal("session survived a failed refresh")
	}
}

func TestAnonymousSessionServesPublicData(t *testing.T) {
	fake, store := newStoreEnv(t, time.Hour)
	if _, err := fake.SeedCategory("Lauk"); err != nil {
		t.Fatal(err)
	}
	anon := store.Anonymous()
	if err := anon.Categories.Fetch(context.Background()); err != nil {
		t.Fatalf("anonymous fetch: %v", err)
	}
	if len(anon.Categories.Items()) != 1 {
		t.Fatal("anonymous session did not see the category")
	}
}
