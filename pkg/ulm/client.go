package ulm

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/sysmap/sam/pkg/errors"
	"github.com/sysmap/sam/pkg/httputil"
	"github.com/sysmap/sam/pkg/observability"
)

const (
	// DefaultTimeout bounds every HTTP call made against ULM.
	DefaultTimeout = 30 * time.Second

	// expiryBuffer is how long before expiry a cached token counts as stale.
	expiryBuffer = 30 * time.Second

	// defaultTokenTTL applies when a login response omits expires_in.
	defaultTokenTTL = 10 * time.Minute
)

// Config holds the connection settings for the ULM service.
type Config struct {
	// BaseURL is the root of the ULM API, e.g. "https://ulm.example.io".
	BaseURL string

	// AppSource identifies this service in ULM logs via the X-App-Source
	// header.
	AppSource string

	// Username and Password are the service account credentials used by
	// [Client.ServiceToken]. Leave empty when only Verify is needed.
	Username string
	Password string

	// Timeout bounds each HTTP request. Zero means [DefaultTimeout].
	Timeout time.Duration
}

// Token is the payload returned by the ULM login endpoint.
type Token struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type,omitempty"`
	ExpiresIn    int64  `json:"expires_in,omitempty"`
}

// Identity describes the authenticated principal behind a verified token.
type Identity struct {
	Subject  string `json:"sub"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role,omitempty"`
}

// Client talks to the ULM authentication service. It is safe for
// concurrent use.
type Client struct {
	baseURL   string
	appSource string
	username  string
	password  string
	http      *http.Client

	group singleflight.Group

	mu     sync.Mutex
	token  string
	expiry time.Time
}

// New creates a Client from cfg. The base URL is normalized so paths can be
// appended directly.
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		appSource: cfg.AppSource,
		username:  cfg.Username,
		password:  cfg.Password,
		http:      &http.Client{Timeout: timeout},
	}
}

// ServiceToken returns a valid service access token, logging in with the
// configured credentials when the cached token is missing or within the
// expiry buffer. Concurrent refreshes collapse into a single login call.
func (c *Client) ServiceToken(ctx context.Context) (string, error) {
	if c.username == "" || c.password == "" {
		return "", errors.New(errors.ErrCodeUnauthorized, "service credentials not configured")
	}

	if token, ok := c.cachedToken(); ok {
		return token, nil
	}

	v, err, _ := c.group.Do("service-token", func() (any, error) {
		// A concurrent flight may have refreshed while we queued.
		if token, ok := c.cachedToken(); ok {
			return token, nil
		}

		tok, err := c.Login(ctx, c.username, c.password)
		if err != nil {
			return nil, err
		}

		ttl := defaultTokenTTL
		if tok.ExpiresIn > 0 {
			ttl = time.Duration(tok.ExpiresIn) * time.Second
		}
		c.mu.Lock()
		c.token = tok.AccessToken
		c.expiry = time.Now().Add(ttl)
		c.mu.Unlock()

		return tok.AccessToken, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (c *Client) cachedToken() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token != "" && time.Until(c.expiry) > expiryBuffer {
		return c.token, true
	}
	return "", false
}

// Login authenticates against ULM with the given credentials. Transient
// failures (network errors, 5xx) are retried with backoff; rejected
// credentials are not.
func (c *Client) Login(ctx context.Context, username, password string) (*Token, error) {
	payload, err := json.Marshal(map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode login payload")
	}

	var tok Token
	err = httputil.RetryWithBackoff(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost,
			c.baseURL+"/api/v1/auth/login", bytes.NewReader(payload))
		if err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "build login request")
		}
		c.setHeaders(req)
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.do(ctx, req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusOK:
		case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
			return errors.New(errors.ErrCodeUnauthorized, "ulm rejected credentials")
		case resp.StatusCode >= 500:
			return &httputil.RetryableError{
				Err: errors.New(errors.ErrCodeUnavailable, "ulm unavailable: status %d", resp.StatusCode),
			}
		default:
			return errors.New(errors.ErrCodeNetwork, "ulm login failed: status %d", resp.StatusCode)
		}

		if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
			return errors.Wrap(errors.ErrCodeNetwork, err, "decode login response")
		}
		if tok.AccessToken == "" {
			return errors.New(errors.ErrCodeUnauthorized, "ulm login returned no access token")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &tok, nil
}

// Verify checks a bearer token against ULM and returns the identity it
// belongs to. The "Bearer " prefix is optional. Rejected tokens yield an
// unauthorized error; an unreachable ULM yields network or unavailable.
func (c *Client) Verify(ctx context.Context, bearer string) (*Identity, error) {
	token := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(bearer), "Bearer "))
	if token == "" {
		return nil, errors.New(errors.ErrCodeUnauthorized, "missing bearer token")
	}

	var identity Identity
	err := httputil.RetryWithBackoff(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet,
			c.baseURL+"/api/v1/auth/me", nil)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "build verify request")
		}
		c.setHeaders(req)
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := c.do(ctx, req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusOK:
		case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
			return errors.New(errors.ErrCodeUnauthorized, "invalid authentication token")
		case resp.StatusCode >= 500:
			return &httputil.RetryableError{
				Err: errors.New(errors.ErrCodeUnavailable, "ulm unavailable: status %d", resp.StatusCode),
			}
		default:
			return errors.New(errors.ErrCodeNetwork, "ulm verify failed: status %d", resp.StatusCode)
		}

		if err := json.NewDecoder(resp.Body).Decode(&identity); err != nil {
			return errors.Wrap(errors.ErrCodeNetwork, err, "decode verify response")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &identity, nil
}

// Ping reports whether ULM is reachable. Used by readiness checks and
// `sam auth check`.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "build health request")
	}
	c.setHeaders(req)

	resp, err := c.do(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.New(errors.ErrCodeUnavailable, "ulm health check: status %d", resp.StatusCode)
	}
	return nil
}

// do executes a request with observability hooks, wrapping transport
// failures as retryable network errors.
func (c *Client) do(ctx context.Context, req *http.Request) (*http.Response, error) {
	observability.HTTP().OnRequest(ctx, req.Method, req.URL.Host, req.URL.Path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		observability.HTTP().OnError(ctx, req.Method, req.URL.Host, req.URL.Path, err)
		return nil, &httputil.RetryableError{
			Err: errors.Wrap(errors.ErrCodeNetwork, err, "ulm request"),
		}
	}

	observability.HTTP().OnResponse(ctx, req.Method, req.URL.Host, req.URL.Path,
		resp.StatusCode, time.Since(start))
	return resp, nil
}

// setHeaders applies the identification headers ULM expects on every call.
// X-Service duplicates X-App-Source for older ULM deployments.
func (c *Client) setHeaders(req *http.Request) {
	if c.appSource != "" {
		req.Header.Set("X-App-Source", c.appSource)
		req.Header.Set("X-Service", c.appSource)
	}
}
