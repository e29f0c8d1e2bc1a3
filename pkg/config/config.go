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

// Package config loads application configuration from TOML, YAML or
// JSON files, with environment variables layered via a .env file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/apitestgen/apitestgen/pkg/dbquery"
)

// TransportType selects how the MCP server is exposed.
type TransportType string

const (
	TransportTypeStdio TransportType = "stdio"
	TransportTypeHTTP  TransportType = "http"
)

// Config holds all configuration options for apitestgen.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Auth     AuthConfig     `koanf:"auth"`
	Output   OutputConfig   `koanf:"output"`
	Database DatabaseConfig `koanf:"database"`
}

// ServerConfig controls the MCP server surface.
type ServerConfig struct {
	Name      string `koanf:"name"`
	Version   string `koanf:"version"`
	Transport string `koanf:"transport"`
	Port      string `koanf:"port"`
}

// AuthConfig controls optional bearer token validation for the HTTP
// transport.
type AuthConfig struct {
	Enabled        bool     `koanf:"enabled"`
	JWKSURI        string   `koanf:"jwks_uri"`
	PublicKeyPath  string   `koanf:"public_key_path"`
	Issuer         string   `koanf:"issuer"`
	Audience       string   `koanf:"audience"`
	RequiredScopes []string `koanf:"required_scopes"`
}

// OutputConfig controls where generated artifacts land.
type OutputConfig struct {
	BaseDir string `koanf:"base_dir"`
}

// DatabaseConfig holds query limits and per-type connection defaults.
type DatabaseConfig struct {
	QueryTimeoutSeconds int                         `koanf:"query_timeout_seconds"`
	MaxRows             int                         `koanf:"max_rows"`
	Defaults            map[string]dbquery.Defaults `koanf:"defaults"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Name:      "apitestgen",
			Version:   "1.0.0",
			Transport: string(TransportTypeStdio),
			Port:      "8080",
		},
		Output: OutputConfig{
			BaseDir: "./output",
		},
		Database: DatabaseConfig{
			QueryTimeoutSeconds: 30,
			MaxRows:             1000,
		},
	}
}

// Load loads configuration from a file, layered over the defaults.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		parser = toml.Parser()
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		parser = toml.Parser()
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// LoadOrDefault tries standard config locations and falls back to the
// defaults when none parse.
func LoadOrDefault() *Config {
	names := []string{
		"apitestgen.toml",
		"apitestgen.yaml",
		"apitestgen.yml",
		"apitestgen.json",
		".apitestgen.toml",
		".apitestgen.yaml",
		".apitestgen.yml",
		".apitestgen.json",
	}
	for _, name := range names {
		if _, err := os.Stat(name); err == nil {
			if cfg, err := Load(name); err == nil {
				return cfg
			}
		}
	}
	return DefaultConfig()
}

// LoadEnv reads a .env file into the process environment. A missing
// file is not an error.
func LoadEnv() error {
	if err := godotenv.Load(); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to load .env file: %w", err)
	}
	return nil
}

// QueryOptions converts the database limits into executor options.
func (c *DatabaseConfig) QueryOptions() dbquery.QueryOptions {
	opts := dbquery.DefaultOptions()
	if c.QueryTimeoutSeconds > 0 {
		opts.Timeout = time.Duration(c.QueryTimeoutSeconds) * time.Second
	}
	if c.MaxRows > 0 {
		opts.MaxRows = c.MaxRows
	}
	return opts
}

// DefaultsRegistry builds a connection defaults registry with the
// built-in types plus any configured overrides.
func (c *DatabaseConfig) DefaultsRegistry() *dbquery.DefaultsRegistry {
	registry := dbquery.NewDefaultsRegistry()
	for dbType, defaults := range c.Defaults {
		registry.Register(dbType, defaults)
	}
	return registry
}
