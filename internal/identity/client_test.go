package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/andybalholm/brotli"
	"github.com/stretchr/testify/assert"
)

func TestSignUp_Success(t *testing.T) {
	// 1. Setup Mock Server
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("apikey") != "test_key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		assert.Equal(t, "/auth/v1/signup", r.URL.Path)

		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "kate@example.com", body["email"])

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "tok-123",
			"token_type":   "bearer",
			"user":         map[string]string{"id": "user-1", "email": "kate@example.com"},
		})
	}))
	defer ts.Close()

	// 2. Setup Client
	client := NewClient(Config{APIURL: ts.URL, APIKey: "test_key"})

	// 3. Execute
	session, err := client.SignUp(context.Background(), "kate@example.com", "secret123", "Kate")

	// 4. Verify
	assert.NoError(t, err)
	assert.Equal(t, "user-1", session.UserID)
	assert.Equal(t, "tok-123", session.AccessToken)
}

func TestSignUp_EmailAlreadyRegistered(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"code":422,"error_code":"user_already_exists","msg":"User already registered"}`))
	}))
	defer ts.Close()

	client := NewClient(Config{APIURL: ts.URL})

	_, err := client.SignUp(context.Background(), "kate@example.com", "secret123", "Kate")
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestSignIn_InvalidCredentials(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"code":400,"error_code":"invalid_credentials","msg":"Invalid login credentials"}`))
	}))
	defer ts.Close()

	client := NewClient(Config{APIURL: ts.URL})

	_, err := client.SignIn(context.Background(), "kate@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestResolveToken_Success(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/user", r.URL.Path)
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]string{"id": "user-1", "email": "kate@example.com"})
	}))
	defer ts.Close()

	client := NewClient(Config{APIURL: ts.URL})

	userID, err := client.ResolveToken(context.Background(), "tok-123")
	assert.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

func TestResolveToken_Cache(t *testing.T) {
	requestCount := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestCount++
		json.NewEncoder(w).Encode(map[string]string{"id": "user-1"})
	}))
	defer ts.Close()

	client := NewClient(Config{APIURL: ts.URL})

	// First call - should hit the provider
	_, err := client.ResolveToken(context.Background(), "tok-123")
	assert.NoError(t, err)
	assert.Equal(t, 1, requestCount)

	// Second call - should hit cache
	_, err = client.ResolveToken(context.Background(), "tok-123")
	assert.NoError(t, err)
	assert.Equal(t, 1, requestCount, "Should not increment request count due to caching")

	// Different token - must not share the cache entry
	_, err = client.ResolveToken(context.Background(), "tok-456")
	assert.NoError(t, err)
	assert.Equal(t, 2, requestCount)
}

func TestResolveToken_Invalid(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"code":401,"error_code":"bad_jwt","msg":"invalid JWT"}`))
	}))
	defer ts.Close()

	client := NewClient(Config{APIURL: ts.URL})

	_, err := client.ResolveToken(context.Background(), "garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestResolveToken_BrotliResponse(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "br", r.Header.Get("Accept-Encoding"))
		w.Header().Set("Content-Encoding", "br")
		bw := brotli.NewWriter(w)
		json.NewEncoder(bw).Encode(map[string]string{"id": "user-1"})
		bw.Close()
	}))
	defer ts.Close()

	client := NewClient(Config{APIURL: ts.URL})

	userID, err := client.ResolveToken(context.Background(), "tok-123")
	assert.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

func TestSignIn_ServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`upstream exploded`))
	}))
	defer ts.Close()

	client := NewClient(Config{APIURL: ts.URL})

	_, err := client.SignIn(context.Background(), "kate@example.com", "secret123")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
	assert.Contains(t, err.Error(), "unexpected status code: 500")
}
