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

// Package server exposes the test-generation tools over MCP, on stdio
// or streamable HTTP with optional bearer auth.
package server

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/apitestgen/apitestgen/pkg/config"
	"github.com/apitestgen/apitestgen/pkg/curlio"
	"github.com/apitestgen/apitestgen/pkg/dbquery"
	"github.com/apitestgen/apitestgen/pkg/jmeter"
	"github.com/apitestgen/apitestgen/pkg/karate"
	"github.com/apitestgen/apitestgen/pkg/openapi"
	"github.com/apitestgen/apitestgen/pkg/output"
	"github.com/apitestgen/apitestgen/pkg/scaffold"
)

// Toolset bundles the generators behind the MCP tool handlers.
type Toolset struct {
	analyzer   *openapi.Analyzer
	features   *karate.Generator
	jmeter     *jmeter.Generator
	curl       *curlio.Generator
	scaffolder *scaffold.Scaffolder
	resolver   *dbquery.Resolver
	queryOpts  dbquery.QueryOptions
	outputs    *output.Manager
}

// NewToolset builds the toolset from the app configuration.
func NewToolset(cfg *config.Config) *Toolset {
	return &Toolset{
		analyzer:   openapi.NewAnalyzer(),
		features:   karate.NewGenerator(),
		jmeter:     jmeter.NewGenerator(),
		curl:       curlio.NewGenerator(),
		scaffolder: scaffold.NewScaffolder(),
		resolver:   dbquery.NewResolver(cfg.Database.DefaultsRegistry()),
		queryOpts:  cfg.Database.QueryOptions(),
		outputs:    output.NewManager(cfg.Output.BaseDir),
	}
}

// toolResponse is the JSON envelope attached to every tool result.
type toolResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message"`
}

// successResult renders a human-readable summary followed by the full
// JSON payload.
func successResult(summary, message string, data any) *mcp.CallToolResult {
	envelope := toolResponse{Success: true, Data: data, Message: message}
	payload, err := json.MarshalIndent(envelope, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("[ERROR] failed to encode result: %v", err))
	}
	var b strings.Builder
	b.WriteString(summary)
	b.WriteString("\n\nComplete Data (JSON):\n")
	b.Write(payload)
	return mcp.NewToolResultText(b.String())
}

// errorResult formats a failure the way MCP clients expect.
func errorResult(action string, err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(fmt.Sprintf("[ERROR] %s: %v", action, err))
}

// decodeAnalysis parses a spec analysis previously returned by the
// spec_analysis tool.
func decodeAnalysis(raw string) (*openapi.Analysis, error) {
	var analysis openapi.Analysis
	if err := json.Unmarshal([]byte(raw), &analysis); err != nil {
		return nil, fmt.Errorf("invalid analysis JSON: %w", err)
	}
	if len(analysis.Endpoints) == 0 {
		return nil, fmt.Errorf("analysis contains no endpoints")
	}
	return &analysis, nil
}

// decodeFeatures parses a feature set previously returned by the
// feature_generator tool.
func decodeFeatures(raw string) (*karate.Result, error) {
	var result karate.Result
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return nil, fmt.Errorf("invalid features JSON: %w", err)
	}
	if len(result.Features) == 0 {
		return nil, fmt.Errorf("feature set contains no features")
	}
	return &result, nil
}

// resolveOutputDir returns a managed run directory unless the caller
// picked an explicit path.
func (t *Toolset) resolveOutputDir(kind output.Kind, identifier, requested string) (string, error) {
	if requested == "" || requested == "./output" || requested == "output" {
		return t.outputs.CreateRunDir(kind, identifier)
	}
	return requested, nil
}
