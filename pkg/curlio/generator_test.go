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
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/apitestgen/apitestgen/pkg/openapi"
)

func sampleAnalysis() *openapi.Analysis {
	return &openapi.Analysis{
		Title:    "Pet Store API",
		BaseURLs: []string{"https://api.example.com/v1"},
		Endpoints: []openapi.Endpoint{
			{
				Path:    "/pets/{petId}",
				Method:  "GET",
				Summary: "Get a pet",
				Parameters: []openapi.Parameter{
					{Name: "petId", In: "path", Required: true, Type: "string", Format: "uuid"},
					{Name: "X-Api-Key", In: "header", Type: "string"},
				},
			},
			{
				Path:   "/pets",
				Method: "POST",
				RequestBody: &openapi.Body{
					ContentType: "application/json",
					Fields: []openapi.Field{
						{Name: "name", Type: "string", Required: true},
						{Name: "age", Type: "integer"},
					},
				},
			},
		},
	}
}

func TestGenerate(t *testing.T) {
	result := NewGenerator().Generate(sampleAnalysis())

	if result.TotalCommands != 2 {
		t.Fatalf("expected 2 commands, got %d", result.TotalCommands)
	}
	if result.BaseURL != "https://api.example.com/v1" {
		t.Errorf("unexpected base URL: %q", result.BaseURL)
	}

	t.Run("path params substituted", func(t *testing.T) {
		get := result.Commands[0]
		if get.URL != "https://api.example.com/v1/pets/123e4567-e89b-12d3-a456-426614174000" {
			t.Errorf("unexpected URL: %q", get.URL)
		}
	})

	t.Run("header params carried", func(t *testing.T) {
		get := result.Commands[0]
		if len(get.Headers) != 1 || get.Headers[0].Name != "X-Api-Key" {
			t.Errorf("unexpected headers: %+v", get.Headers)
		}
	})

	t.Run("body with content type", func(t *testing.T) {
		post := result.Commands[1]
		var hasContentType bool
		for _, h := range post.Headers {
			if h.Name == "Content-Type" && h.Value == "application/json" {
				hasContentType = true
			}
		}
		if !hasContentType {
			t.Error("missing Content-Type header")
		}
		if !strings.Contains(post.Body, `"name": "example_value"`) ||
			!strings.Contains(post.Body, `"age": 123`) {
			t.Errorf("unexpected body: %q", post.Body)
		}
	})
}

func TestCurlString(t *testing.T) {
	command := Command{
		Method:  "POST",
		URL:     "http://example.com/pets",
		Headers: []Header{{Name: "Content-Type", Value: "application/json"}},
		Body:    `{"name":"rex"}`,
	}

	pretty := command.CurlString(true)
	if !strings.Contains(pretty, "curl -X POST \\\n") {
		t.Errorf("expected line continuations:\n%s", pretty)
	}
	if !strings.Contains(pretty, `-H "Content-Type: application/json"`) {
		t.Errorf("missing header flag:\n%s", pretty)
	}
	if !strings.Contains(pretty, `-d '{"name":"rex"}'`) {
		t.Errorf("missing data flag:\n%s", pretty)
	}

	flat := command.CurlString(false)
	if strings.Contains(flat, "\\") {
		t.Errorf("flat rendering should not contain continuations: %q", flat)
	}
}

func TestGeneratePostmanCollection(t *testing.T) {
	result := NewGenerator().Generate(sampleAnalysis())
	collection := result.Collection

	if collection.Info.Name != "Pet Store API" {
		t.Errorf("unexpected collection name: %q", collection.Info.Name)
	}
	if collection.Info.PostmanID == "" {
		t.Error("expected a generated postman id")
	}
	if len(collection.Variable) != 1 || collection.Variable[0].Key != "baseUrl" {
		t.Errorf("unexpected variables: %+v", collection.Variable)
	}
	if len(collection.Item) != 2 {
		t.Fatalf("expected 2 items, got %d", len(collection.Item))
	}

	get := collection.Item[0]
	if !strings.HasPrefix(get.Request.URL.Raw, "{{baseUrl}}/pets/") {
		t.Errorf("unexpected raw URL: %q", get.Request.URL.Raw)
	}
	post := collection.Item[1]
	if post.Request.Body == nil || post.Request.Body.Mode != "raw" {
		t.Errorf("expected raw body on POST item: %+v", post.Request.Body)
	}
}

func TestSaveScriptAndCollection(t *testing.T) {
	dir := t.TempDir()
	result := NewGenerator().Generate(sampleAnalysis())

	scriptPath, err := SaveScript(result.Commands, dir+"/commands.sh")
	if err != nil {
		t.Fatalf("SaveScript failed: %v", err)
	}
	script, err := os.ReadFile(scriptPath)
	if err != nil {
		t.Fatalf("failed to read script: %v", err)
	}
	if !strings.HasPrefix(string(script), "#!/bin/bash\n") {
		t.Error("script missing shebang")
	}
	if !strings.Contains(string(script), "# Total commands: 2") {
		t.Error("script missing command count")
	}

	collectionPath, err := SaveCollection(result.Collection, dir+"/collection.json")
	if err != nil {
		t.Fatalf("SaveCollection failed: %v", err)
	}
	content, err := os.ReadFile(collectionPath)
	if err != nil {
		t.Fatalf("failed to read collection: %v", err)
	}
	var decoded PostmanCollection
	if err := json.Unmarshal(content, &decoded); err != nil {
		t.Fatalf("saved collection is not valid JSON: %v", err)
	}
	if decoded.Info.Schema != collectionSchema {
		t.Errorf("unexpected schema: %q", decoded.Info.Schema)
	}
}

func TestSaveScriptEmpty(t *testing.T) {
	if _, err := SaveScript(nil, t.TempDir()+"/commands.sh"); err == nil {
		t.Error("expected error for empty command list")
	}
}
