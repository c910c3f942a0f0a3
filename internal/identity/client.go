package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/andybalholm/brotli"
)

type Config struct {
	APIURL string
	APIKey string
}

type cachedUser struct {
	userID string
	expiry time.Time
}

// Client talks to the hosted identity provider. Registration, login and
// token resolution are all delegated; this service never sees a password
// hash or mints a token itself.
type Client struct {
	client *http.Client
	config Config

	cacheMu   sync.RWMutex
	cacheData map[string]cachedUser
}

func NewClient(cfg Config) *Client {
	return &Client{
		client: &http.Client{
			Transport: &AuthTransport{
				APIKey: cfg.APIKey,
				Base:   http.DefaultTransport,
			},
			Timeout: 10 * time.Second,
		},
		config:    cfg,
		cacheData: make(map[string]cachedUser),
	}
}

// AuthTransport adds the provider API key headers
type AuthTransport struct {
	APIKey string
	Base   http.RoundTripper
}

func (t *AuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set("apikey", t.APIKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "br")
	return t.Base.RoundTrip(req)
}

// SignUp registers a new user with the provider and returns the session it
// issued.
func (c *Client) SignUp(ctx context.Context, email, password, fullName string) (Session, error) {
	body := map[string]any{
		"email":    email,
		"password": password,
		"data": map[string]string{
			"full_name": fullName,
		},
	}

	var resp sessionResponse
	if err := c.post(ctx, "/auth/v1/signup", body, &resp); err != nil {
		var apiErr *ErrorResponse
		if errors.As(err, &apiErr) && isEmailTaken(apiErr) {
			return Session{}, ErrEmailExists
		}
		return Session{}, err
	}

	return Session{UserID: resp.User.ID, Email: resp.User.Email, AccessToken: resp.AccessToken}, nil
}

// SignIn exchanges email/password credentials for a session.
func (c *Client) SignIn(ctx context.Context, email, password string) (Session, error) {
	body := map[string]any{
		"email":    email,
		"password": password,
	}

	var resp sessionResponse
	if err := c.post(ctx, "/auth/v1/token?grant_type=password", body, &resp); err != nil {
		var apiErr *ErrorResponse
		if errors.As(err, &apiErr) && apiErr.Code < http.StatusInternalServerError {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, err
	}

	return Session{UserID: resp.User.ID, Email: resp.User.Email, AccessToken: resp.AccessToken}, nil
}

// ResolveToken maps a bearer token to the provider's user id. Resolutions
// are cached for a short TTL so one token does not cost one provider round
// trip per request.
func (c *Client) ResolveToken(ctx context.Context, token string) (string, error) {
	c.cacheMu.RLock()
	cached, ok := c.cacheData[token]
	if ok && time.Now().Before(cached.expiry) {
		c.cacheMu.RUnlock()
		return cached.userID, nil
	}
	c.cacheMu.RUnlock()

	c.cacheMu.Lock()
	defer c.cacheMu.Unlock()

	// Double check logic
	cached, ok = c.cacheData[token]
	if ok && time.Now().Before(cached.expiry) {
		return cached.userID, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.APIURL+"/auth/v1/user", nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	var user userResponse
	if err := c.do(req, &user); err != nil {
		var apiErr *ErrorResponse
		if errors.As(err, &apiErr) && apiErr.Code < http.StatusInternalServerError {
			return "", ErrInvalidToken
		}
		return "", err
	}
	if user.ID == "" {
		return "", ErrInvalidToken
	}

	c.cacheData[token] = cachedUser{
		userID: user.ID,
		expiry: time.Now().Add(1 * time.Minute),
	}

	return user.ID, nil
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.APIURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}

	if resp.Header.Get("Content-Encoding") == "br" {
		resp.Body = &readCloserWrapper{Reader: brotli.NewReader(resp.Body), Closer: resp.Body}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && (apiErr.ErrorCode != "" || apiErr.Message != "") {
			if apiErr.Code == 0 {
				apiErr.Code = resp.StatusCode
			}
			return &apiErr
		}
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, string(body))
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

func isEmailTaken(apiErr *ErrorResponse) bool {
	if apiErr.ErrorCode == "user_already_exists" || apiErr.ErrorCode == "email_exists" {
		return true
	}
	msg := strings.ToLower(apiErr.Message)
	return strings.Contains(msg, "already registered") || strings.Contains(msg, "already exists")
}

type readCloserWrapper struct {
	io.Reader
	io.Closer
}

func (r *readCloserWrapper) Read(p []byte) (n int, err error) {
	return r.Reader.Read(p)
}

func (r *readCloserWrapper) Close() error {
	return r.Closer.Close()
}
