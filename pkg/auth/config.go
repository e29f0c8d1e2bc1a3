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

// Package auth provides JWT bearer token validation for the HTTP
// transport, with keys from a JWKS endpoint or a static PEM file.
package auth

import (
	"fmt"
	"slices"
	"strings"
)

// BearerAuthConfig holds JWT bearer token validation settings.
type BearerAuthConfig struct {
	Enabled bool `json:"enabled"`

	// Key source, mutually exclusive.
	JWKSUri   string `json:"jwksUri,omitempty"`
	PublicKey string `json:"publicKey,omitempty"` // PEM-encoded RSA key

	Algorithm string `json:"algorithm"`

	// Claims validation.
	Issuer         string   `json:"issuer,omitempty"`
	Audience       string   `json:"audience,omitempty"`
	RequiredScopes []string `json:"requiredScopes,omitempty"`

	// Required rejects unauthenticated requests instead of passing
	// them through anonymously.
	Required bool `json:"required"`
	CacheTTL int  `json:"cacheTtl"` // JWKS cache TTL in seconds
}

var supportedAlgorithms = []string{
	"RS256", "RS384", "RS512",
	"ES256", "ES384", "ES512",
	"PS256", "PS384", "PS512",
}

// Validate checks the configuration and fills in defaults.
func (c *BearerAuthConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.JWKSUri == "" && c.PublicKey == "" {
		return fmt.Errorf("either jwksUri or publicKey must be provided when authentication is enabled")
	}
	if c.JWKSUri != "" && c.PublicKey != "" {
		return fmt.Errorf("cannot specify both jwksUri and publicKey, choose one")
	}
	if c.JWKSUri != "" && !strings.HasPrefix(c.JWKSUri, "https://") {
		return fmt.Errorf("jwksUri must use HTTPS")
	}
	if c.Algorithm == "" {
		c.Algorithm = "RS256"
	}
	if !slices.Contains(supportedAlgorithms, c.Algorithm) {
		return fmt.Errorf("unsupported JWT algorithm: %s", c.Algorithm)
	}
	if c.CacheTTL <= 0 {
		c.CacheTTL = 300
	}
	if c.CacheTTL > 3600 {
		return fmt.Errorf("cacheTtl cannot exceed 3600 seconds")
	}
	if c.Issuer != "" && !strings.HasPrefix(c.Issuer, "https://") && !strings.HasPrefix(c.Issuer, "http://") {
		return fmt.Errorf("issuer must be a valid URL")
	}
	return nil
}

// KeySource describes where validation keys come from, for logging.
func (c *BearerAuthConfig) KeySource() string {
	switch {
	case c.JWKSUri != "":
		return fmt.Sprintf("JWKS from %s", c.JWKSUri)
	case c.PublicKey != "":
		return "static public key"
	default:
		return "no key source configured"
	}
}
