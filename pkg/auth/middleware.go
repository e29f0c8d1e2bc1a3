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
	"log"
	"net/http"
	"strings"
)

// BearerAuthMiddleware wraps HTTP handlers with bearer token checks.
type BearerAuthMiddleware struct {
	validator *BearerTokenValidator
	config    *BearerAuthConfig
}

// NewBearerAuthMiddleware creates middleware for the given config.
func NewBearerAuthMiddleware(config *BearerAuthConfig) (*BearerAuthMiddleware, error) {
	validator, err := NewBearerTokenValidator(config)
	if err != nil {
		return nil, err
	}
	return &BearerAuthMiddleware{validator: validator, config: config}, nil
}

// ExtractAndValidateToken validates the Authorization header of a
// request. A nil user with nil error means anonymous access.
func (m *BearerAuthMiddleware) ExtractAndValidateToken(req *http.Request) (*UserContext, error) {
	authHeader := req.Header.Get("Authorization")
	if authHeader == "" {
		if m.config.Required {
			return nil, &AuthError{Type: "missing_token", Message: "Authorization header required"}
		}
		return nil, nil
	}

	const bearerPrefix = "Bearer "
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return nil, &AuthError{Type: "invalid_format", Message: "Authorization header must use Bearer format"}
	}
	tokenString := strings.TrimPrefix(authHeader, bearerPrefix)
	if tokenString == "" {
		return nil, &AuthError{Type: "empty_token", Message: "Bearer token cannot be empty"}
	}
	return m.validator.ValidateToken(tokenString)
}

// Middleware returns the http.Handler wrapper.
func (m *BearerAuthMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userCtx, err := m.ExtractAndValidateToken(r)
		if err != nil {
			m.handleAuthError(w, err)
			return
		}
		if userCtx != nil {
			r = r.WithContext(WithUserContext(r.Context(), userCtx))
			log.Printf("Authenticated request from user: %s", userCtx.DisplayName())
		}
		next.ServeHTTP(w, r)
	})
}

func (m *BearerAuthMiddleware) handleAuthError(w http.ResponseWriter, err error) {
	log.Printf("Authentication error: %v", err)

	if authErr, ok := err.(*AuthError); ok {
		switch authErr.Type {
		case "missing_token":
			http.Error(w, "Authorization required", http.StatusUnauthorized)
		case "invalid_format":
			http.Error(w, "Invalid authorization format", http.StatusBadRequest)
		case "empty_token":
			http.Error(w, "Empty bearer token", http.StatusBadRequest)
		default:
			http.Error(w, "Authentication failed", http.StatusUnauthorized)
		}
		return
	}

	switch {
	case strings.Contains(err.Error(), "insufficient scopes"):
		http.Error(w, "Insufficient permissions", http.StatusForbidden)
	case strings.Contains(err.Error(), "expired"):
		http.Error(w, "Token expired", http.StatusUnauthorized)
	case strings.Contains(err.Error(), "signature"):
		http.Error(w, "Invalid token signature", http.StatusUnauthorized)
	default:
		http.Error(w, "Authentication failed", http.StatusUnauthorized)
	}
}

// Close releases validator resources.
func (m *BearerAuthMiddleware) Close() error {
	return m.validator.Close()
}

// AuthError classifies authentication failures for HTTP mapping.
type AuthError struct {
	Type    string
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}
