package ulm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sysmap/sam/pkg/errors"
)

func testClient(serverURL string) *Client {
	return New(Config{
		BaseURL:   serverURL,
		AppSource: "sam",
		Username:  "svc-sam",
		Password:  "secret",
	})
}

func TestClient_Login(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v1/auth/login" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("X-App-Source"); got != "sam" {
			t.Errorf("X-App-Source = %q, want %q", got, "sam")
		}

		var creds map[string]string
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if creds["username"] != "svc-sam" || creds["password"] != "secret" {
			t.Errorf("credentials = %v", creds)
		}

		json.NewEncoder(w).Encode(Token{
			AccessToken: "tok-123",
			TokenType:   "bearer",
			ExpiresIn:   3600,
		})
	}))
	defer server.Close()

	tok, err := testClient(server.URL).Login(context.Background(), "svc-sam", "secret")
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	if tok.AccessToken != "tok-123" {
		t.Errorf("AccessToken = %q, want %q", tok.AccessToken, "tok-123")
	}
	if tok.ExpiresIn != 3600 {
		t.Errorf("ExpiresIn = %d, want 3600", tok.ExpiresIn)
	}
}

func TestClient_Login_RejectedNotRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	_, err := testClient(server.URL).Login(context.Background(), "svc-sam", "wrong")
	if !errors.Is(err, errors.ErrCodeUnauthorized) {
		t.Errorf("Login() code = %v, want %v", errors.GetCode(err), errors.ErrCodeUnauthorized)
	}
	if calls.Load() != 1 {
		t.Errorf("server saw %d calls, want 1 for rejected credentials", calls.Load())
	}
}

func TestClient_Login_RetriesServerError(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		json.NewEncoder(w).Encode(Token{AccessToken: "tok-retry", ExpiresIn: 60})
	}))
	defer server.Close()

	tok, err := testClient(server.URL).Login(context.Background(), "svc-sam", "secret")
	if err != nil {
		t.Fatalf("Login() error after retry: %v", err)
	}
	if tok.AccessToken != "tok-retry" {
		t.Errorf("AccessToken = %q, want %q", tok.AccessToken, "tok-retry")
	}
	if calls.Load() != 2 {
		t.Errorf("server saw %d calls, want 2", calls.Load())
	}
}

func TestClient_ServiceToken_Cached(t *testing.T) {
	var logins atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logins.Add(1)
		json.NewEncoder(w).Encode(Token{AccessToken: "tok-cached", ExpiresIn: 3600})
	}))
	defer server.Close()

	c := testClient(server.URL)
	ctx := context.Background()

	for range 3 {
		tok, err := c.ServiceToken(ctx)
		if err != nil {
			t.Fatalf("ServiceToken() error: %v", err)
		}
		if tok != "tok-cached" {
			t.Errorf("ServiceToken() = %q, want %q", tok, "tok-cached")
		}
	}
	if logins.Load() != 1 {
		t.Errorf("server saw %d logins, want 1 for a fresh token", logins.Load())
	}
}

func TestClient_ServiceToken_RefreshesStaleToken(t *testing.T) {
	var logins atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logins.Add(1)
		// Within the 30s expiry buffer, so every call is stale.
		json.NewEncoder(w).Encode(Token{AccessToken: "tok-short", ExpiresIn: 5})
	}))
	defer server.Close()

	c := testClient(server.URL)
	ctx := context.Background()

	if _, err := c.ServiceToken(ctx); err != nil {
		t.Fatalf("ServiceToken() error: %v", err)
	}
	if _, err := c.ServiceToken(ctx); err != nil {
		t.Fatalf("second ServiceToken() error: %v", err)
	}
	if logins.Load() != 2 {
		t.Errorf("server saw %d logins, want 2 for a stale token", logins.Load())
	}
}

func TestClient_ServiceToken_SingleFlight(t *testing.T) {
	var logins atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logins.Add(1)
		time.Sleep(50 * time.Millisecond)
		json.NewEncoder(w).Encode(Token{AccessToken: "tok-flight", ExpiresIn: 3600})
	}))
	defer server.Close()

	c := testClient(server.URL)
	ctx := context.Background()

	var wg sync.WaitGroup
	tokens := make([]string, 10)
	errs := make([]error, 10)
	for i := range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tokens[i], errs[i] = c.ServiceToken(ctx)
		}()
	}
	wg.Wait()

	for i := range 10 {
		if errs[i] != nil {
			t.Fatalf("ServiceToken() [%d] error: %v", i, errs[i])
		}
		if tokens[i] != "tok-flight" {
			t.Errorf("ServiceToken() [%d] = %q, want %q", i, tokens[i], "tok-flight")
		}
	}
	if logins.Load() != 1 {
		t.Errorf("server saw %d logins, want 1 across concurrent callers", logins.Load())
	}
}

func TestClient_ServiceToken_NoCredentials(t *testing.T) {
	c := New(Config{BaseURL: "http://ulm.invalid", AppSource: "sam"})
	_, err := c.ServiceToken(context.Background())
	if !errors.Is(err, errors.ErrCodeUnauthorized) {
		t.Errorf("ServiceToken() code = %v, want %v", errors.GetCode(err), errors.ErrCodeUnauthorized)
	}
}

func TestClient_Verify(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/v1/auth/me" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok-user" {
			t.Errorf("Authorization = %q, want %q", got, "Bearer tok-user")
		}
		json.NewEncoder(w).Encode(Identity{
			Subject:  "42",
			Username: "noam",
			Email:    "noam@example.io",
			Role:     "admin",
		})
	}))
	defer server.Close()

	c := testClient(server.URL)

	// With and without the Bearer prefix.
	for _, bearer := range []string{"tok-user", "Bearer tok-user"} {
		identity, err := c.Verify(context.Background(), bearer)
		if err != nil {
			t.Fatalf("Verify(%q) error: %v", bearer, err)
		}
		if identity.Subject != "42" || identity.Role != "admin" {
			t.Errorf("Verify(%q) = %+v, want subject 42 role admin", bearer, identity)
		}
	}
}

func TestClient_Verify_Rejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	_, err := testClient(server.URL).Verify(context.Background(), "tok-bad")
	if !errors.Is(err, errors.ErrCodeUnauthorized) {
		t.Errorf("Verify() code = %v, want %v", errors.GetCode(err), errors.ErrCodeUnauthorized)
	}
}

func TestClient_Verify_MissingToken(t *testing.T) {
	c := testClient("http://ulm.invalid")
	for _, bearer := range []string{"", "Bearer ", "   "} {
		if _, err := c.Verify(context.Background(), bearer); !errors.Is(err, errors.ErrCodeUnauthorized) {
			t.Errorf("Verify(%q) code = %v, want %v", bearer, errors.GetCode(err), errors.ErrCodeUnauthorized)
		}
	}
}

func TestClient_Ping(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	if err := testClient(server.URL).Ping(context.Background()); err != nil {
		t.Errorf("Ping() error: %v", err)
	}
}

func TestClient_Ping_Unavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	if err := testClient(server.URL).Ping(context.Background()); !errors.Is(err, errors.ErrCodeUnavailable) {
		t.Errorf("Ping() code = %v, want %v", errors.GetCode(err), errors.ErrCodeUnavailable)
	}
}
