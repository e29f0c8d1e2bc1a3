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

package curlio

import (
	"errors"
	"testing"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name       string
		command    string
		wantMethod string
		wantURL    string
		wantBody   string
	}{
		{
			name:       "plain GET",
			command:    "curl http://example.com/users",
			wantMethod: "GET",
			wantURL:    "http://example.com/users",
		},
		{
			name:       "explicit method",
			command:    "curl -X DELETE http://example.com/users/1",
			wantMethod: "DELETE",
			wantURL:    "http://example.com/users/1",
		},
		{
			name:       "data implies POST",
			command:    `curl -d '{"name":"demo"}' http://example.com/users`,
			wantMethod: "POST",
			wantURL:    "http://example.com/users",
			wantBody:   `{"name":"demo"}`,
		},
		{
			name:       "bare host gets scheme",
			command:    "curl example.com/health",
			wantMethod: "GET",
			wantURL:    "http://example.com/health",
		},
		{
			name:       "line continuations",
			command:    "curl -X POST \\\n  -H \"Content-Type: application/json\" \\\n  http://example.com/orders",
			wantMethod: "POST",
			wantURL:    "http://example.com/orders",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := ParseCommand(tt.command)
			if err != nil {
				t.Fatalf("ParseCommand failed: %v", err)
			}
			if parsed.Method != tt.wantMethod {
				t.Errorf("method = %q, want %q", parsed.Method, tt.wantMethod)
			}
			if parsed.URL != tt.wantURL {
				t.Errorf("url = %q, want %q", parsed.URL, tt.wantURL)
			}
			if parsed.Body != tt.wantBody {
				t.Errorf("body = %q, want %q", parsed.Body, tt.wantBody)
			}
		})
	}
}

func TestParseCommandHeaders(t *testing.T) {
	parsed, err := ParseCommand(`curl -H "Authorization: Bearer token123" -H "Accept: application/json" http://example.com/api`)
	if err != nil {
		t.Fatalf("ParseCommand failed: %v", err)
	}
	if len(parsed.Headers) != 2 {
		t.Fatalf("expected 2 headers, got %d", len(parsed.Headers))
	}
	if parsed.Headers[0].Name != "Authorization" || parsed.Headers[0].Value != "Bearer token123" {
		t.Errorf("unexpected first header: %+v", parsed.Headers[0])
	}
}

func TestParseCommandErrors(t *testing.T) {
	t.Run("empty command", func(t *testing.T) {
		if _, err := ParseCommand("   "); !errors.Is(err, ErrEmptyCommand) {
			t.Errorf("expected ErrEmptyCommand, got %v", err)
		}
	})
	t.Run("no URL", func(t *testing.T) {
		if _, err := ParseCommand("curl -X GET"); err == nil {
			t.Error("expected error for missing URL")
		}
	})
	t.Run("unterminated quote", func(t *testing.T) {
		if _, err := ParseCommand(`curl -d '{"broken": http://example.com`); err == nil {
			t.Error("expected error for unterminated quote")
		}
	})
}

func TestToAnalysis(t *testing.T) {
	parsed, err := ParseCommand(`curl -X POST -H "X-Api-Key: secret" -d '{"name":"demo","count":3,"price":1.5,"active":true}' http://example.com/widgets/{id}`)
	if err != nil {
		t.Fatalf("ParseCommand failed: %v", err)
	}

	analysis := parsed.ToAnalysis()
	if analysis.Title != "Widgets API (from curl)" {
		t.Errorf("unexpected title: %q", analysis.Title)
	}
	if analysis.BaseURL() != "http://example.com" {
		t.Errorf("unexpected base URL: %q", analysis.BaseURL())
	}
	if len(analysis.Endpoints) != 1 {
		t.Fatalf("expected 1 endpoint, got %d", len(analysis.Endpoints))
	}

	endpoint := analysis.Endpoints[0]
	if endpoint.Method != "POST" || endpoint.Path != "/widgets/{id}" {
		t.Errorf("unexpected endpoint: %s %s", endpoint.Method, endpoint.Path)
	}

	var headerParams, pathParams int
	for _, p := range endpoint.Parameters {
		switch p.In {
		case "header":
			headerParams++
		case "path":
			pathParams++
		}
	}
	if headerParams != 1 || pathParams != 1 {
		t.Errorf("expected 1 header and 1 path param, got %d/%d", headerParams, pathParams)
	}

	if endpoint.RequestBody == nil {
		t.Fatal("expected request body")
	}
	types := make(map[string]string)
	for _, f := range endpoint.RequestBody.Fields {
		types[f.Name] = f.Type
	}
	want := map[string]string{
		"name": "string", "count": "integer", "price": "number", "active": "boolean",
	}
	for name, wantType := range want {
		if types[name] != wantType {
			t.Errorf("field %s: type = %q, want %q", name, types[name], wantType)
		}
	}
}

func TestToAnalysisRawBody(t *testing.T) {
	parsed, err := ParseCommand(`curl -d 'plain text payload' http://example.com/ingest`)
	if err != nil {
		t.Fatalf("ParseCommand failed: %v", err)
	}
	analysis := parsed.ToAnalysis()
	body := analysis.Endpoints[0].RequestBody
	if body == nil || len(body.Fields) != 1 || body.Fields[0].Name != "raw_body" {
		t.Errorf("expected raw_body fallback, got %+v", body)
	}
}
