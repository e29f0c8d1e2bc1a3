// Copyright 2025 apitestgen Contributors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func generateTestKeyPair(t *testing.T) (*rsa.PrivateKey, string) {
	t.Helper()
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("failed to generate test key: %v", err)
	}
	publicKeyDER, err := x509.MarshalPKIXPublicKey(&privateKey.PublicKey)
	if err != nil {
		t.Fatalf("failed to marshal public key: %v", err)
	}
	publicKeyPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: publicKeyDER})
	return privateKey, string(publicKeyPEM)
}

func createTestToken(t *testing.T, privateKey *rsa.PrivateKey, claims *TokenClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	tokenString, err := token.SignedString(privateKey)
	if err != nil {
		t.Fatalf("failed to sign test token: %v", err)
	}
	return tokenString
}

func validClaims() *TokenClaims {
	return &TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		UserID:   "user-1",
		Username: "tester",
		Scopes:   []string{"mcp:read", "mcp:write"},
	}
}

func TestConfigValidate(t *testing.T) {
	_, publicKeyPEM := generateTestKeyPair(t)

	tests := []struct {
		name        string
		config      BearerAuthConfig
		expectError string
	}{
		{
			name:   "disabled needs nothing",
			config: BearerAuthConfig{},
		},
		{
			name:   "valid static key",
			config: BearerAuthConfig{Enabled: true, PublicKey: publicKeyPEM},
		},
		{
			name:        "no key source",
			config:      BearerAuthConfig{Enabled: true},
			expectError: "either jwksUri or publicKey",
		},
		{
			name:        "both key sources",
			config:      BearerAuthConfig{Enabled: true, JWKSUri: "https://idp/jwks", PublicKey: publicKeyPEM},
			expectError: "choose one",
		},
		{
			name:        "plain http jwks",
			config:      BearerAuthConfig{Enabled: true, JWKSUri: "http://idp/jwks"},
			expectError: "HTTPS",
		},
		{
			name:        "bad algorithm",
			config:      BearerAuthConfig{Enabled: true, PublicKey: publicKeyPEM, Algorithm: "HS256"},
			expectError: "unsupported JWT algorithm",
		},
		{
			name:        "cache ttl too large",
			config:      BearerAuthConfig{Enabled: true, PublicKey: publicKeyPEM, CacheTTL: 7200},
			expectError: "cacheTtl",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.expectError == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.expectError) {
				t.Errorf("expected error containing %q, got %v", tt.expectError, err)
			}
		})
	}
}

func TestConfigValidateDefaults(t *testing.T) {
	_, publicKeyPEM := generateTestKeyPair(t)
	config := BearerAuthConfig{Enabled: true, PublicKey: publicKeyPEM}
	if err := config.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if config.Algorithm != "RS256" || config.CacheTTL != 300 {
		t.Errorf("defaults not applied: %+v", config)
	}
}

func TestValidateToken(t *testing.T) {
	privateKey, publicKeyPEM := generateTestKeyPair(t)
	validator, err := NewBearerTokenValidator(&BearerAuthConfig{
		Enabled:   true,
		PublicKey: publicKeyPEM,
	})
	if err != nil {
		t.Fatalf("NewBearerTokenValidator failed: %v", err)
	}
	defer validator.Close()

	userCtx, err := validator.ValidateToken(createTestToken(t, privateKey, validClaims()))
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if userCtx.UserID != "user-1" || userCtx.Username != "tester" {
		t.Errorf("unexpected user context: %+v", userCtx)
	}
	if !userCtx.HasScope("mcp:read") {
		t.Error("scope missing from user context")
	}
}

func TestValidateTokenExpired(t *testing.T) {
	privateKey, publicKeyPEM := generateTestKeyPair(t)
	validator, err := NewBearerTokenValidator(&BearerAuthConfig{Enabled: true, PublicKey: publicKeyPEM})
	if err != nil {
		t.Fatalf("NewBearerTokenValidator failed: %v", err)
	}
	defer validator.Close()

	claims := validClaims()
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
	if _, err := validator.ValidateToken(createTestToken(t, privateKey, claims)); err == nil {
		t.Error("expected expired token to fail")
	}
}

func TestValidateTokenWrongKey(t *testing.T) {
	otherKey, _ := generateTestKeyPair(t)
	_, publicKeyPEM := generateTestKeyPair(t)
	validator, err := NewBearerTokenValidator(&BearerAuthConfig{Enabled: true, PublicKey: publicKeyPEM})
	if err != nil {
		t.Fatalf("NewBearerTokenValidator failed: %v", err)
	}
	defer validator.Close()

	if _, err := validator.ValidateToken(createTestToken(t, otherKey, validClaims())); err == nil {
		t.Error("expected signature mismatch to fail")
	}
}

func TestValidateTokenScopes(t *testing.T) {
	privateKey, publicKeyPEM := generateTestKeyPair(t)
	validator, err := NewBearerTokenValidator(&BearerAuthConfig{
		Enabled:        true,
		PublicKey:      publicKeyPEM,
		RequiredScopes: []string{"mcp:admin"},
	})
	if err != nil {
		t.Fatalf("NewBearerTokenValidator failed: %v", err)
	}
	defer validator.Close()

	_, err = validator.ValidateToken(createTestToken(t, privateKey, validClaims()))
	if err == nil || !strings.Contains(err.Error(), "insufficient scopes") {
		t.Errorf("expected scope error, got %v", err)
	}
}

func newTestMiddleware(t *testing.T, config *BearerAuthConfig) *BearerAuthMiddleware {
	t.Helper()
	middleware, err := NewBearerAuthMiddleware(config)
	if err != nil {
		t.Fatalf("NewBearerAuthMiddleware failed: %v", err)
	}
	t.Cleanup(func() { middleware.Close() })
	return middleware
}

func TestMiddlewareAnonymousAllowed(t *testing.T) {
	_, publicKeyPEM := generateTestKeyPair(t)
	middleware := newTestMiddleware(t, &BearerAuthConfig{Enabled: true, PublicKey: publicKeyPEM})

	called := false
	handler := middleware.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		if IsAuthenticated(r.Context()) {
			t.Error("anonymous request should not carry a user")
		}
	}))
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/mcp", nil))
	if !called || recorder.Code != http.StatusOK {
		t.Errorf("anonymous request blocked: called=%v code=%d", called, recorder.Code)
	}
}

func TestMiddlewareRequired(t *testing.T) {
	_, publicKeyPEM := generateTestKeyPair(t)
	middleware := newTestMiddleware(t, &BearerAuthConfig{Enabled: true, Required: true, PublicKey: publicKeyPEM})

	handler := middleware.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not run without a token")
	}))
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/mcp", nil))
	if recorder.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", recorder.Code)
	}
}

func TestMiddlewareBadFormat(t *testing.T) {
	_, publicKeyPEM := generateTestKeyPair(t)
	middleware := newTestMiddleware(t, &BearerAuthConfig{Enabled: true, PublicKey: publicKeyPEM})

	request := httptest.NewRequest(http.MethodGet, "/mcp", nil)
	request.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	recorder := httptest.NewRecorder()
	middleware.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})).ServeHTTP(recorder, request)
	if recorder.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for non-bearer auth, got %d", recorder.Code)
	}
}

func TestMiddlewareAuthenticated(t *testing.T) {
	privateKey, publicKeyPEM := generateTestKeyPair(t)
	middleware := newTestMiddleware(t, &BearerAuthConfig{Enabled: true, PublicKey: publicKeyPEM})

	request := httptest.NewRequest(http.MethodGet, "/mcp", nil)
	request.Header.Set("Authorization", "Bearer "+createTestToken(t, privateKey, validClaims()))

	var seen *UserContext
	handler := middleware.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetUserContext(r.Context())
	}))
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
	if seen == nil || seen.UserID != "user-1" {
		t.Errorf("user context not propagated: %+v", seen)
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		name string
		user UserContext
		want string
	}{
		{"username first", UserContext{UserID: "u", Username: "name", Email: "e@x"}, "name"},
		{"email fallback", UserContext{UserID: "u", Email: "e@x"}, "e@x"},
		{"user id last", UserContext{UserID: "u"}, "u"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.user.DisplayName(); got != tt.want {
				t.Errorf("DisplayName() = %q, want %q", got, tt.want)
			}
		})
	}
}
