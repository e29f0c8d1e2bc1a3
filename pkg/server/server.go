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

package server

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/apitestgen/apitestgen/pkg/auth"
	"github.com/apitestgen/apitestgen/pkg/config"
)

// Server wraps the mcp-go server with the test-generation toolset.
type Server struct {
	server *server.MCPServer
	config *config.Config
	tools  *Toolset
}

// New creates an MCP server with all tools registered.
func New(cfg *config.Config) *Server {
	mcpServer := server.NewMCPServer(
		cfg.Server.Name,
		cfg.Server.Version,
		server.WithToolCapabilities(true),
	)
	s := &Server{
		server: mcpServer,
		config: cfg,
		tools:  NewToolset(cfg),
	}
	s.registerTools()
	return s
}

func (s *Server) registerTools() {
	registrations := []struct {
		tool    mcp.Tool
		handler server.ToolHandlerFunc
	}{
		{s.tools.SpecAnalysisTool(), s.tools.HandleSpecAnalysis},
		{s.tools.FeatureGeneratorTool(), s.tools.HandleFeatureGenerator},
		{s.tools.JMeterGeneratorTool(), s.tools.HandleJMeterGenerator},
		{s.tools.CurlGeneratorTool(), s.tools.HandleCurlGenerator},
		{s.tools.CurlParserTool(), s.tools.HandleCurlParser},
		{s.tools.KarateProjectTool(), s.tools.HandleKarateProject},
		{s.tools.DatabaseQueryTool(), s.tools.HandleDatabaseQuery},
		{s.tools.CompleteWorkflowTool(), s.tools.HandleCompleteWorkflow},
	}
	for _, r := range registrations {
		s.server.AddTool(r.tool, r.handler)
		log.Printf("Registered TOOL: %s", r.tool.Name)
	}
}

// Toolset returns the toolset behind the registered handlers.
func (s *Server) Toolset() *Toolset {
	return s.tools
}

// Start serves MCP on the configured transport.
func (s *Server) Start() error {
	switch config.TransportType(s.config.Server.Transport) {
	case config.TransportTypeStdio:
		log.Println("Starting stdio MCP server...")
		return server.ServeStdio(s.server)
	case config.TransportTypeHTTP:
		return s.startHTTP()
	default:
		return fmt.Errorf("unsupported transport type: %s", s.config.Server.Transport)
	}
}

func (s *Server) startHTTP() error {
	var handler http.Handler = server.NewStreamableHTTPServer(s.server)

	if s.config.Auth.Enabled {
		authConfig, err := s.bearerAuthConfig()
		if err != nil {
			return err
		}
		middleware, err := auth.NewBearerAuthMiddleware(authConfig)
		if err != nil {
			return fmt.Errorf("failed to initialize authentication: %w", err)
		}
		defer middleware.Close()
		handler = middleware.Middleware(handler)
		log.Printf("Bearer authentication enabled (%s)", authConfig.KeySource())
	}

	addr := ":" + s.config.Server.Port
	log.Printf("Starting HTTP MCP server on %s...", addr)
	return http.ListenAndServe(addr, handler)
}

// bearerAuthConfig maps the app auth section onto the validator
// configuration, loading the static key file when one is set.
func (s *Server) bearerAuthConfig() (*auth.BearerAuthConfig, error) {
	authConfig := &auth.BearerAuthConfig{
		Enabled:        true,
		Required:       true,
		JWKSUri:        s.config.Auth.JWKSURI,
		Issuer:         s.config.Auth.Issuer,
		Audience:       s.config.Auth.Audience,
		RequiredScopes: s.config.Auth.RequiredScopes,
	}
	if s.config.Auth.PublicKeyPath != "" {
		pem, err := os.ReadFile(s.config.Auth.PublicKeyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read public key file: %w", err)
		}
		authConfig.PublicKey = string(pem)
	}
	if err := authConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid auth configuration: %w", err)
	}
	return authConfig, nil
}
