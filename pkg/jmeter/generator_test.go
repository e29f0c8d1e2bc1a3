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

package jmeter

import (
	"encoding/xml"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/apitestgen/apitestgen/pkg/karate"
	"github.com/apitestgen/apitestgen/pkg/openapi"
)

func sampleAnalysis() *openapi.Analysis {
	return &openapi.Analysis{
		Title:    "Pet Store API",
		BaseURLs: []string{"https://api.example.com:8443/v1"},
		Endpoints: []openapi.Endpoint{
			{
				Path:    "/pets",
				Method:  "GET",
				Summary: "List all pets",
				Parameters: []openapi.Parameter{
					{Name: "limit", In: "query", Type: "integer"},
				},
			},
			{
				Path:   "/pets/{petId}",
				Method: "DELETE",
				Parameters: []openapi.Parameter{
					{Name: "petId", In: "path", Required: true, Type: "string", Format: "uuid"},
				},
			},
			{
				Path:   "/pets",
				Method: "POST",
				RequestBody: &openapi.Body{
					ContentType: "application/json",
					Fields: []openapi.Field{
						{Name: "name", Type: "string"},
					},
				},
			},
		},
	}
}

func TestFromAnalysis(t *testing.T) {
	result, err := NewGenerator().FromAnalysis(sampleAnalysis())
	if err != nil {
		t.Fatalf("FromAnalysis failed: %v", err)
	}

	plan := result.TestPlan
	if plan.Name != "API Test Plan - Pet Store API" {
		t.Errorf("unexpected plan name: %q", plan.Name)
	}
	if plan.Protocol != "https" || plan.Host != "api.example.com" || plan.Port != 8443 {
		t.Errorf("unexpected target: %s://%s:%d", plan.Protocol, plan.Host, plan.Port)
	}
	if result.TotalThreadGroups != 3 || result.TotalRequests != 3 {
		t.Errorf("unexpected totals: %d groups, %d requests",
			result.TotalThreadGroups, result.TotalRequests)
	}

	t.Run("query parameters become arguments", func(t *testing.T) {
		get := plan.ThreadGroups[0].Requests[0]
		if len(get.Parameters) != 1 || get.Parameters[0].Name != "limit" || get.Parameters[0].Value != "123" {
			t.Errorf("unexpected parameters: %+v", get.Parameters)
		}
	})

	t.Run("path parameters substituted", func(t *testing.T) {
		del := plan.ThreadGroups[1].Requests[0]
		if del.Path != "/pets/123e4567-e89b-12d3-a456-426614174000" {
			t.Errorf("unexpected path: %q", del.Path)
		}
	})

	t.Run("body methods get content type and payload", func(t *testing.T) {
		post := plan.ThreadGroups[2].Requests[0]
		var hasContentType bool
		for _, h := range post.Headers {
			if h.Name == "Content-Type" && h.Value == "application/json" {
				hasContentType = true
			}
		}
		if !hasContentType {
			t.Error("missing Content-Type header on POST")
		}
		if !strings.Contains(post.BodyData, `"name": "example_value"`) {
			t.Errorf("unexpected body data: %q", post.BodyData)
		}
	})

	t.Run("correlation header present", func(t *testing.T) {
		for _, group := range plan.ThreadGroups {
			var found bool
			for _, h := range group.Requests[0].Headers {
				if h.Name == "X-Correlation-Id" && h.Value != "" {
					found = true
				}
			}
			if !found {
				t.Errorf("thread group %q missing correlation header", group.Name)
			}
		}
	})
}

func TestFromFeatures(t *testing.T) {
	features := &karate.Result{
		BaseURL: "http://localhost:8080",
		Features: []karate.Feature{
			{
				Name: "Pets API Tests",
				Scenarios: []karate.Scenario{
					{Name: "GET /pets - List all pets"},
					{Name: "POST /pets"},
				},
			},
			{Name: "Empty Feature"},
		},
	}

	result, err := NewGenerator().FromFeatures(features)
	if err != nil {
		t.Fatalf("FromFeatures failed: %v", err)
	}

	if result.TotalThreadGroups != 1 {
		t.Fatalf("expected empty feature to be skipped, got %d groups", result.TotalThreadGroups)
	}
	group := result.TestPlan.ThreadGroups[0]
	if group.Name != "Thread Group - Pets API Tests" {
		t.Errorf("unexpected group name: %q", group.Name)
	}
	if len(group.Requests) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(group.Requests))
	}
	if group.Requests[0].Method != "GET" || group.Requests[0].Path != "/pets" {
		t.Errorf("unexpected first request: %+v", group.Requests[0])
	}
	if group.Requests[1].Method != "POST" {
		t.Errorf("unexpected second request method: %q", group.Requests[1].Method)
	}
}

func TestRenderedJMXIsWellFormed(t *testing.T) {
	result, err := NewGenerator().FromAnalysis(sampleAnalysis())
	if err != nil {
		t.Fatalf("FromAnalysis failed: %v", err)
	}

	content := result.XMLContent
	for _, want := range []string{
		`<jmeterTestPlan version="1.2" properties="5.0" jmeter="5.6.3">`,
		`testclass="TestPlan"`,
		`testclass="ThreadGroup"`,
		`testclass="HTTPSamplerProxy"`,
		`testclass="HeaderManager"`,
		`testname="View Results Tree"`,
		`testname="Summary Report"`,
	} {
		if !strings.Contains(content, want) {
			t.Errorf("rendered JMX missing %q", want)
		}
	}

	// Round-trip through the decoder to confirm well-formed XML.
	decoder := xml.NewDecoder(strings.NewReader(content))
	for {
		_, err := decoder.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			t.Fatalf("rendered JMX is not well-formed: %v", err)
		}
	}
}

func TestSave(t *testing.T) {
	result, err := NewGenerator().FromAnalysis(sampleAnalysis())
	if err != nil {
		t.Fatalf("FromAnalysis failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "plan.jmx")
	if err := Save(result, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read saved plan: %v", err)
	}
	if !strings.Contains(string(content), "jmeterTestPlan") {
		t.Error("saved file missing test plan root")
	}
}
