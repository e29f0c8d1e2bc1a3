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
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
)

// BearerTokenValidator validates JWT bearer tokens. Signature and
// standard claims checks are delegated to golang-jwt; only scope
// validation is done here.
type BearerTokenValidator struct {
	config  *BearerAuthConfig
	keyFunc jwt.Keyfunc
	jwks    *keyfunc.JWKS
	parser  *jwt.Parser
}

// NewBearerTokenValidator creates a validator for the given config.
func NewBearerTokenValidator(config *BearerAuthConfig) (*BearerTokenValidator, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid bearer auth configuration: %w", err)
	}

	validator := &BearerTokenValidator{config: config}
	if err := validator.initKeyFunc(); err != nil {
		return nil, fmt.Errorf("failed to initialize key function: %w", err)
	}

	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{config.Algorithm}),
	}
	if config.Issuer != "" {
		options = append(options, jwt.WithIssuer(config.Issuer))
	}
	if config.Audience != "" {
		options = append(options, jwt.WithAudience(config.Audience))
	}
	validator.parser = jwt.NewParser(options...)

	return validator, nil
}

func (v *BearerTokenValidator) initKeyFunc() error {
	if v.config.JWKSUri != "" {
		jwks, err := keyfunc.Get(v.config.JWKSUri, keyfunc.Options{
			RefreshInterval: time.Duration(v.config.CacheTTL) * time.Second,
		})
		if err != nil {
			return fmt.Errorf("failed to get JWKS from %s: %w", v.config.JWKSUri, err)
		}
		v.jwks = jwks
		v.keyFunc = jwks.Keyfunc
		return nil
	}

	publicKey, err := jwt.ParseRSAPublicKeyFromPEM([]byte(v.config.PublicKey))
	if err != nil {
		return fmt.Errorf("failed to parse RSA public key: %w", err)
	}
	v.keyFunc = func(token *jwt.Token) (any, error) {
		return publicKey, nil
	}
	return nil
}

// ValidateToken parses and validates a token, returning the user
// context on success.
func (v *BearerTokenValidator) ValidateToken(tokenString string) (*UserContext, error) {
	token, err := v.parser.ParseWithClaims(tokenString, &TokenClaims{}, v.keyFunc)
	if err != nil {
		return nil, fmt.Errorf("token validation failed: %w", err)
	}
	claims, ok := token.Claims.(*TokenClaims)
	if !ok {
		return nil, jwt.ErrTokenInvalidClaims
	}
	if err := v.validateScopes(claims.Scopes); err != nil {
		return nil, err
	}

	return &UserContext{
		UserID:   claims.UserID,
		Username: claims.Username,
		Email:    claims.Email,
		Token:    tokenString,
		Scopes:   claims.Scopes,
		Claims:   claims,
	}, nil
}

func (v *BearerTokenValidator) validateScopes(tokenScopes []string) error {
	for _, required := range v.config.RequiredScopes {
		if !slices.Contains(tokenScopes, required) {
			return fmt.Errorf("insufficient scopes: requires %s, has %s",
				strings.Join(v.config.RequiredScopes, ", "),
				strings.Join(tokenScopes, ", "))
		}
	}
	return nil
}

// Close stops the JWKS background refresh, if any.
func (v *BearerTokenValidator) Close() error {
	if v.jwks != nil {
		v.jwks.EndBackground()
	}
	return nil
}
