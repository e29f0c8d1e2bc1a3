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
	"context"
	"slices"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const userContextKey contextKey = "auth.user"

// TokenClaims holds the standard JWT claims plus the custom fields
// this server reads.
type TokenClaims struct {
	jwt.RegisteredClaims
	Scopes   []string `json:"scope,omitempty"`
	UserID   string   `json:"sub"`
	Username string   `json:"preferred_username,omitempty"`
	Email    string   `json:"email,omitempty"`
}

// UserContext holds the authenticated user extracted from a token.
type UserContext struct {
	UserID   string `json:"userId"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`

	Token  string       `json:"-"`
	Scopes []string     `json:"scopes"`
	Claims *TokenClaims `json:"-"`
}

// HasScope reports whether the user holds the given scope.
func (u *UserContext) HasScope(scope string) bool {
	return slices.Contains(u.Scopes, scope)
}

// DisplayName returns the best available name for logging.
func (u *UserContext) DisplayName() string {
	if u.Username != "" {
		return u.Username
	}
	if u.Email != "" {
		return u.Email
	}
	return u.UserID
}

// WithUserContext stores the user in a context.
func WithUserContext(ctx context.Context, userCtx *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, userCtx)
}

// GetUserContext returns the authenticated user, or nil for anonymous
// requests.
func GetUserContext(ctx context.Context) *UserContext {
	if userCtx, ok := ctx.Value(userContextKey).(*UserContext); ok {
		return userCtx
	}
	return nil
}

// IsAuthenticated reports whether the context carries a user.
func IsAuthenticated(ctx context.Context) bool {
	return GetUserContext(ctx) != nil
}
