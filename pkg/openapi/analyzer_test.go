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

package openapi

import (
	"strings"
	"testing"
)

const petstoreSpec = `openapi: 3.0.0
info:
  title: Pet Store API
  version: 1.2.3
  description: A small store.
servers:
  - url: https://api.example.com/v1
paths:
  /pets:
    get:
      operationId: listPets
      summary: List all pets
      tags:
        - pets
      parameters:
        - name: limit
          in: query
          required: false
          schema:
            type: integer
      responses:
        '200':
          description: A paged array of pets
          content:
            application/json:
              schema:
                type: array
                items:
                  type: string
        '500':
          description: unexpected error
    post:
      operationId: createPet
      tags:
        - pets
      requestBody:
        required: true
        content:
          application/json:
            schema:
              type: object
              required:
                - name
              properties:
                name:
                  type: string
                age:
                  type: integer
      responses:
        '201':
          description: Created
  /pets/{petId}:
    get:
      operationId: getPet
      parameters:
        - name: petId
          in: path
          required: true
          schema:
            type: string
            format: uuid
      responses:
        '200':
          description: Expected response
        '404':
          description: Not found
`

func TestAnalyzeBytes(t *testing.T) {
	analyzer := NewAnalyzer()
	analysis, err := analyzer.AnalyzeBytes([]byte(petstoreSpec))
	if err != nil {
		t.Fatalf("AnalyzeBytes failed: %v", err)
	}

	if analysis.Title != "Pet Store API" {
		t.Errorf("expected title 'Pet Store API', got %q", analysis.Title)
	}
	if analysis.Version != "1.2.3" {
		t.Errorf("expected version '1.2.3', got %q", analysis.Version)
	}
	if analysis.BaseURL() != "https://api.example.com/v1" {
		t.Errorf("unexpected base URL: %q", analysis.BaseURL())
	}
	if len(analysis.Endpoints) != 3 {
		t.Fatalf("expected 3 endpoints, got %d", len(analysis.Endpoints))
	}
}

func TestAnalyzeOperationDetails(t *testing.T) {
	analyzer := NewAnalyzer()
	analysis, err := analyzer.AnalyzeBytes([]byte(petstoreSpec))
	if err != nil {
		t.Fatalf("AnalyzeBytes failed: %v", err)
	}

	byID := make(map[string]Endpoint)
	for _, e := range analysis.Endpoints {
		byID[e.OperationID] = e
	}

	t.Run("query parameter", func(t *testing.T) {
		list, ok := byID["listPets"]
		if !ok {
			t.Fatal("listPets endpoint not found")
		}
		if list.Method != "GET" {
			t.Errorf("expected GET, got %s", list.Method)
		}
		if len(list.Parameters) != 1 {
			t.Fatalf("expected 1 parameter, got %d", len(list.Parameters))
		}
		p := list.Parameters[0]
		if p.Name != "limit" || p.In != "query" || p.Type != "integer" || p.Required {
			t.Errorf("unexpected parameter: %+v", p)
		}
	})

	t.Run("request body fields", func(t *testing.T) {
		create, ok := byID["createPet"]
		if !ok {
			t.Fatal("createPet endpoint not found")
		}
		if create.RequestBody == nil {
			t.Fatal("expected request body")
		}
		if create.RequestBody.ContentType != "application/json" {
			t.Errorf("unexpected content type: %q", create.RequestBody.ContentType)
		}
		if !create.RequestBody.Required {
			t.Error("expected required request body")
		}
		if len(create.RequestBody.Fields) != 2 {
			t.Fatalf("expected 2 fields, got %d", len(create.RequestBody.Fields))
		}
		fields := make(map[string]Field)
		for _, f := range create.RequestBody.Fields {
			fields[f.Name] = f
		}
		if !fields["name"].Required {
			t.Error("expected 'name' to be required")
		}
		if fields["age"].Type != "integer" {
			t.Errorf("expected 'age' to be integer, got %q", fields["age"].Type)
		}
		if create.RequestBody.Example == "" {
			t.Error("expected a rendered body example")
		}
	})

	t.Run("path parameter format", func(t *testing.T) {
		get, ok := byID["getPet"]
		if !ok {
			t.Fatal("getPet endpoint not found")
		}
		p := get.Parameters[0]
		if p.In != "path" || !p.Required || p.Format != "uuid" {
			t.Errorf("unexpected path parameter: %+v", p)
		}
	})

	t.Run("responses", func(t *testing.T) {
		list := byID["listPets"]
		if len(list.Responses) != 2 {
			t.Fatalf("expected 2 responses, got %d", len(list.Responses))
		}
		var success, failure int
		for _, r := range list.Responses {
			if r.IsSuccess() {
				success++
			} else {
				failure++
			}
		}
		if success != 1 || failure != 1 {
			t.Errorf("expected 1 success and 1 failure response, got %d/%d", success, failure)
		}
	})
}

func TestAnalyzeBytesInvalidSpec(t *testing.T) {
	analyzer := NewAnalyzer()
	if _, err := analyzer.AnalyzeBytes([]byte("not: a: valid: spec")); err == nil {
		t.Error("expected error for invalid spec")
	}
}

func TestEndpointGroup(t *testing.T) {
	tests := []struct {
		name     string
		endpoint Endpoint
		want     string
	}{
		{"first tag wins", Endpoint{Path: "/users/{id}", Tags: []string{"accounts", "users"}}, "accounts"},
		{"path segment fallback", Endpoint{Path: "/users/{id}"}, "users"},
		{"skips parameter segments", Endpoint{Path: "/{tenant}/orders"}, "orders"},
		{"default group", Endpoint{Path: "/"}, "api"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.endpoint.Group(); got != tt.want {
				t.Errorf("Group() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAnalyzeLocationMissingFile(t *testing.T) {
	analyzer := NewAnalyzer()
	_, err := analyzer.AnalyzeLocation("/nonexistent/spec.yaml")
	if err == nil || !strings.Contains(err.Error(), "failed to read") {
		t.Errorf("expected file read error, got %v", err)
	}
}
