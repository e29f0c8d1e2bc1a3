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

package karate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/apitestgen/apitestgen/pkg/openapi"
)

func sampleAnalysis() *openapi.Analysis {
	return &openapi.Analysis{
		Title:    "Pet Store API",
		Version:  "1.0.0",
		BaseURLs: []string{"https://api.example.com/v1"},
		Endpoints: []openapi.Endpoint{
			{
				Path:    "/pets",
				Method:  "GET",
				Summary: "List all pets",
				Tags:    []string{"pets"},
				Parameters: []openapi.Parameter{
					{Name: "limit", In: "query", Type: "integer"},
				},
				Responses: []openapi.Response{
					{StatusCode: "200", Description: "OK"},
					{StatusCode: "500", Description: "unexpected error"},
				},
			},
			{
				Path:   "/pets",
				Method: "POST",
				Tags:   []string{"pets"},
				RequestBody: &openapi.Body{
					ContentType: "application/json",
					Required:    true,
					Fields: []openapi.Field{
						{Name: "name", Type: "string", Required: true},
						{Name: "age", Type: "integer"},
					},
				},
				Responses: []openapi.Response{
					{StatusCode: "201", Description: "Created"},
				},
			},
			{
				Path:   "/orders/{orderId}",
				Method: "GET",
				Parameters: []openapi.Parameter{
					{Name: "orderId", In: "path", Required: true, Type: "string", Format: "uuid"},
				},
				Responses: []openapi.Response{
					{StatusCode: "200", Description: "OK"},
					{StatusCode: "404", Description: "Not found"},
				},
			},
		},
	}
}

func TestGenerateGroupsAndCounts(t *testing.T) {
	result := NewGenerator().Generate(sampleAnalysis())

	if result.BaseURL != "https://api.example.com/v1" {
		t.Errorf("unexpected base URL: %q", result.BaseURL)
	}
	if len(result.Features) != 2 {
		t.Fatalf("expected 2 features, got %d", len(result.Features))
	}
	if result.Features[0].Name != "Pets API Tests" {
		t.Errorf("unexpected feature name: %q", result.Features[0].Name)
	}
	if result.Features[1].Name != "Orders API Tests" {
		t.Errorf("unexpected feature name: %q", result.Features[1].Name)
	}

	// 2 pets success + 1 error, 1 orders success + 1 error.
	if result.TotalScenarios != 5 {
		t.Errorf("expected 5 scenarios, got %d", result.TotalScenarios)
	}
}

func TestGenerateSuccessScenarioSteps(t *testing.T) {
	result := NewGenerator().Generate(sampleAnalysis())
	pets := result.Features[0]

	t.Run("query parameters", func(t *testing.T) {
		list := pets.Scenarios[0]
		joined := strings.Join(list.Steps, "\n")
		if !strings.Contains(joined, "def queryParams = {'limit': '123'}") {
			t.Errorf("missing query params step:\n%s", joined)
		}
		if !strings.Contains(joined, "params queryParams") {
			t.Errorf("missing params step:\n%s", joined)
		}
		if !strings.Contains(joined, "method get '/pets'") {
			t.Errorf("missing method step:\n%s", joined)
		}
		if !strings.Contains(joined, "status 200") {
			t.Errorf("missing status step:\n%s", joined)
		}
	})

	t.Run("request body", func(t *testing.T) {
		var create *Scenario
		for i := range pets.Scenarios {
			if strings.HasPrefix(pets.Scenarios[i].Name, "POST /pets") {
				create = &pets.Scenarios[i]
				break
			}
		}
		if create == nil {
			t.Fatal("POST /pets scenario not found")
		}
		joined := strings.Join(create.Steps, "\n")
		if !strings.Contains(joined, `def requestBody = {"name": "example_value", "age": 123}`) {
			t.Errorf("unexpected body step:\n%s", joined)
		}
		if !strings.Contains(joined, "request requestBody") {
			t.Errorf("missing request step:\n%s", joined)
		}
		if !strings.Contains(joined, "status 201") {
			t.Errorf("missing status step:\n%s", joined)
		}
	})

	t.Run("path parameters", func(t *testing.T) {
		orders := result.Features[1]
		get := orders.Scenarios[0]
		joined := strings.Join(get.Steps, "\n")
		if !strings.Contains(joined, "def orderId = '123e4567-e89b-12d3-a456-426614174000'") {
			t.Errorf("missing path param def:\n%s", joined)
		}
		if !strings.Contains(joined, "method get '/orders/#(orderId)'") {
			t.Errorf("missing templated method step:\n%s", joined)
		}
	})
}

func TestGenerateErrorScenarios(t *testing.T) {
	result := NewGenerator().Generate(sampleAnalysis())
	orders := result.Features[1]
	if len(orders.Scenarios) != 2 {
		t.Fatalf("expected 2 scenarios, got %d", len(orders.Scenarios))
	}
	errScenario := orders.Scenarios[1]
	if errScenario.Name != "GET /orders/{orderId} - 404 Error" {
		t.Errorf("unexpected error scenario name: %q", errScenario.Name)
	}
	joined := strings.Join(errScenario.Steps, "\n")
	if !strings.Contains(joined, "status 404") {
		t.Errorf("missing error status:\n%s", joined)
	}
}

func TestRender(t *testing.T) {
	feature := Feature{
		Name:        "Pets API Tests",
		Description: "API tests for pets endpoints",
		Tags:        []string{"pets", "api"},
		BackgroundSteps: []string{
			"url 'https://api.example.com/v1'",
			"header Content-Type = 'application/json'",
		},
		Scenarios: []Scenario{
			{Name: "GET /pets", Steps: []string{"method get '/pets'", "status 200"}},
		},
	}

	content := Render(feature)
	for _, want := range []string{
		"@pets @api\n",
		"Feature: Pets API Tests\n",
		"  API tests for pets endpoints\n",
		"  Background:\n",
		"    * url 'https://api.example.com/v1'\n",
		"  Scenario: GET /pets\n",
		"    * method get '/pets'\n",
		"    * status 200\n",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("rendered feature missing %q:\n%s", want, content)
		}
	}
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	features := NewGenerator().Generate(sampleAnalysis()).Features

	saved, err := Save(features, dir)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if len(saved) != 2 {
		t.Fatalf("expected 2 saved files, got %d", len(saved))
	}
	if filepath.Base(saved[0]) != "pets_api_tests.feature" {
		t.Errorf("unexpected filename: %s", saved[0])
	}
	content, err := os.ReadFile(saved[0])
	if err != nil {
		t.Fatalf("failed to read saved feature: %v", err)
	}
	if !strings.Contains(string(content), "Feature: Pets API Tests") {
		t.Error("saved file missing feature header")
	}
}
