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

// Package dbquery validates and executes read-only SQL with
// per-field resolution of connection defaults.
package dbquery

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for connection resolution.
var (
	ErrUnsupportedDatabaseType = errors.New("unsupported database type")
	ErrMissingField            = errors.New("missing connection field")
)

// Defaults is the default parameter set for one database type. Empty
// fields are allowed; resolution then demands the value explicitly.
type Defaults struct {
	Host     string `koanf:"host" json:"host,omitempty"`
	Port     int    `koanf:"port" json:"port,omitempty"`
	Database string `koanf:"database" json:"database,omitempty"`
	Username string `koanf:"username" json:"username,omitempty"`
	Password string `koanf:"password" json:"password,omitempty"`
}

// DefaultsRegistry maps database types to their default connection
// parameters. Lookups are case-insensitive. The registry is built at
// startup and injected where needed; it is not safe for concurrent
// mutation afterwards.
type DefaultsRegistry struct {
	defaults map[string]Defaults
}

// NewDefaultsRegistry returns a registry preloaded with the built-in
// postgres, mysql and sqlserver defaults.
func NewDefaultsRegistry() *DefaultsRegistry {
	registry := &DefaultsRegistry{defaults: make(map[string]Defaults)}
	registry.Register("postgres", Defaults{
		Host:     "localhost",
		Port:     5432,
		Database: "quality",
		Username: "postgres",
		Password: "Quality",
	})
	registry.Register("mysql", Defaults{Host: "localhost", Port: 3306})
	registry.Register("sqlserver", Defaults{Host: "localhost", Port: 1433})
	return registry
}

// Register adds or replaces the defaults for a database type.
func (r *DefaultsRegistry) Register(dbType string, defaults Defaults) {
	r.defaults[strings.ToLower(dbType)] = defaults
}

// Lookup returns the defaults for a database type.
func (r *DefaultsRegistry) Lookup(dbType string) (Defaults, bool) {
	defaults, ok := r.defaults[strings.ToLower(dbType)]
	return defaults, ok
}

// Types lists the registered database types.
func (r *DefaultsRegistry) Types() []string {
	types := make([]string, 0, len(r.defaults))
	for dbType := range r.defaults {
		types = append(types, dbType)
	}
	return types
}

// ConnectionRequest carries the caller-supplied connection parameters.
// Zero values mean "not provided".
type ConnectionRequest struct {
	DBType           string `json:"db_type,omitempty"`
	Host             string `json:"host,omitempty"`
	Port             int    `json:"port,omitempty"`
	Database         string `json:"database,omitempty"`
	Username         string `json:"username,omitempty"`
	Password         string `json:"password,omitempty"`
	ConnectionString string `json:"connection_string,omitempty"`
}

// ResolvedConnection is a fully determined connection: either a
// connection string, or a complete parameter set.
type ResolvedConnection struct {
	DBType           string `json:"db_type,omitempty"`
	Host             string `json:"host,omitempty"`
	Port             int    `json:"port,omitempty"`
	Database         string `json:"database,omitempty"`
	Username         string `json:"username,omitempty"`
	Password         string `json:"-"`
	ConnectionString string `json:"-"`
	HasPassword      bool   `json:"has_password"`
	FromString       bool   `json:"from_connection_string"`
}

// Resolver fills gaps in connection requests from a defaults registry.
type Resolver struct {
	registry *DefaultsRegistry
}

// NewResolver creates a resolver backed by the given registry.
func NewResolver(registry *DefaultsRegistry) *Resolver {
	return &Resolver{registry: registry}
}

// Resolve produces a fully determined connection without mutating the
// request. A connection string takes absolute precedence: it is
// returned as-is with no default lookup and no db_type validation.
// Otherwise each field keeps its explicit value when present and falls
// back to the registry default; the whole request fails if any field
// is still unset after the merge.
func (r *Resolver) Resolve(req ConnectionRequest) (ResolvedConnection, error) {
	if req.ConnectionString != "" {
		return ResolvedConnection{
			DBType:           req.DBType,
			ConnectionString: req.ConnectionString,
			FromString:       true,
		}, nil
	}

	if req.DBType == "" {
		return ResolvedConnection{}, fmt.Errorf("%w: db_type is required without a connection string", ErrMissingField)
	}

	defaults, known := r.registry.Lookup(req.DBType)

	resolved := ResolvedConnection{
		DBType:   req.DBType,
		Host:     req.Host,
		Port:     req.Port,
		Database: req.Database,
		Username: req.Username,
		Password: req.Password,
	}
	if resolved.Host == "" {
		resolved.Host = defaults.Host
	}
	if resolved.Port == 0 {
		resolved.Port = defaults.Port
	}
	if resolved.Database == "" {
		resolved.Database = defaults.Database
	}
	if resolved.Username == "" {
		resolved.Username = defaults.Username
	}
	if resolved.Password == "" {
		resolved.Password = defaults.Password
	}

	var missing []string
	if resolved.Host == "" {
		missing = append(missing, "host")
	}
	if resolved.Port == 0 {
		missing = append(missing, "port")
	}
	if resolved.Database == "" {
		missing = append(missing, "database")
	}
	if resolved.Username == "" {
		missing = append(missing, "username")
	}
	if resolved.Password == "" {
		missing = append(missing, "password")
	}

	if len(missing) > 0 {
		if !known {
			return ResolvedConnection{}, fmt.Errorf("%w: %q has no registered defaults and request leaves %s unset",
				ErrUnsupportedDatabaseType, req.DBType, strings.Join(missing, ", "))
		}
		return ResolvedConnection{}, fmt.Errorf("%w: %s unset for database type %q",
			ErrMissingField, strings.Join(missing, ", "), req.DBType)
	}

	resolved.HasPassword = resolved.Password != ""
	return resolved, nil
}

// Request converts the resolved connection back into a fully explicit
// request, which Resolve maps to itself.
func (c ResolvedConnection) Request() ConnectionRequest {
	return ConnectionRequest{
		DBType:           c.DBType,
		Host:             c.Host,
		Port:             c.Port,
		Database:         c.Database,
		Username:         c.Username,
		Password:         c.Password,
		ConnectionString: c.ConnectionString,
	}
}
