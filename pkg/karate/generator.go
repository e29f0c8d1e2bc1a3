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
	"fmt"
	"strings"

	"github.com/apitestgen/apitestgen/pkg/openapi"
)

// Generator builds Karate features from an API analysis.
type Generator struct{}

// NewGenerator creates a feature generator.
func NewGenerator() *Generator {
	return &Generator{}
}

// Generate groups the endpoints and produces one feature per group,
// each with a success scenario per endpoint and an error scenario per
// documented non-2xx response.
func (g *Generator) Generate(analysis *openapi.Analysis) *Result {
	result := &Result{BaseURL: analysis.BaseURL()}

	var groupOrder []string
	grouped := make(map[string][]openapi.Endpoint)
	for _, endpoint := range analysis.Endpoints {
		group := endpoint.Group()
		if _, seen := grouped[group]; !seen {
			groupOrder = append(groupOrder, group)
		}
		grouped[group] = append(grouped[group], endpoint)
	}

	for _, group := range groupOrder {
		feature := g.buildFeature(group, grouped[group], result.BaseURL)
		result.Features = append(result.Features, feature)
		result.TotalScenarios += len(feature.Scenarios)
	}
	return result
}

func (g *Generator) buildFeature(group string, endpoints []openapi.Endpoint, baseURL string) Feature {
	feature := Feature{
		Name:        fmt.Sprintf("%s API Tests", titleCase(group)),
		Description: fmt.Sprintf("API tests for %s endpoints", group),
		Tags:        []string{strings.ToLower(group), "api"},
		BackgroundSteps: []string{
			fmt.Sprintf("url '%s'", baseURL),
			"header Content-Type = 'application/json'",
			"header Accept = 'application/json'",
		},
	}
	for _, endpoint := range endpoints {
		feature.Scenarios = append(feature.Scenarios, g.buildScenarios(endpoint)...)
	}
	return feature
}

func (g *Generator) buildScenarios(endpoint openapi.Endpoint) []Scenario {
	scenarios := []Scenario{g.buildSuccessScenario(endpoint)}
	for _, response := range endpoint.Responses {
		if !response.IsSuccess() {
			scenarios = append(scenarios, buildErrorScenario(endpoint, response))
		}
	}
	return scenarios
}

func (g *Generator) buildSuccessScenario(endpoint openapi.Endpoint) Scenario {
	name := fmt.Sprintf("%s %s", endpoint.Method, endpoint.Path)
	if endpoint.Summary != "" {
		name += " - " + endpoint.Summary
	}

	var steps []string
	var pathParams []openapi.Parameter
	var queryParams []openapi.Parameter
	for _, param := range endpoint.Parameters {
		switch param.In {
		case "path":
			pathParams = append(pathParams, param)
			steps = append(steps, fmt.Sprintf("def %s = '%s'", param.Name, openapi.ExampleForParameter(param)))
		case "query":
			queryParams = append(queryParams, param)
		case "header":
			steps = append(steps, fmt.Sprintf("header %s = '%s'", param.Name, openapi.ExampleForParameter(param)))
		}
	}

	if len(queryParams) > 0 {
		assignments := make([]string, len(queryParams))
		for i, param := range queryParams {
			assignments[i] = fmt.Sprintf("'%s': '%s'", param.Name, openapi.ExampleForParameter(param))
		}
		steps = append(steps, fmt.Sprintf("def queryParams = {%s}", strings.Join(assignments, ", ")))
	}

	method := strings.ToLower(endpoint.Method)
	hasBody := endpoint.RequestBody != nil &&
		(method == "post" || method == "put" || method == "patch")
	if hasBody {
		steps = append(steps, fmt.Sprintf("def requestBody = %s", bodyExample(endpoint.RequestBody)))
		steps = append(steps, "request requestBody")
	}
	if len(queryParams) > 0 {
		steps = append(steps, "params queryParams")
	}
	steps = append(steps, fmt.Sprintf("method %s '%s'", method, templatePath(endpoint.Path, pathParams)))
	steps = append(steps, fmt.Sprintf("status %s", successStatus(endpoint.Responses)))

	return Scenario{
		Name:        name,
		Description: endpoint.Description,
		Steps:       steps,
	}
}

func buildErrorScenario(endpoint openapi.Endpoint, response openapi.Response) Scenario {
	description := response.Description
	if description == "" {
		description = "Error case"
	}
	return Scenario{
		Name:        fmt.Sprintf("%s %s - %s Error", endpoint.Method, endpoint.Path, response.StatusCode),
		Description: description,
		Steps: []string{
			"def invalidData = 'invalid'",
			fmt.Sprintf("method %s '%s'", strings.ToLower(endpoint.Method), endpoint.Path),
			fmt.Sprintf("status %s", response.StatusCode),
		},
	}
}

// bodyExample renders a one-line JSON literal from the body's fields,
// preserving field order and JSON types.
func bodyExample(body *openapi.Body) string {
	if len(body.Fields) == 0 {
		if body.Example != "" {
			return strings.Join(strings.Fields(body.Example), " ")
		}
		return "{}"
	}

	var b strings.Builder
	b.WriteString("{")
	for i, field := range body.Fields {
		if i > 0 {
			b.WriteString(", ")
		}
		value := openapi.ExampleForField(field)
		switch field.Type {
		case "integer", "number", "boolean", "array":
			fmt.Fprintf(&b, "%q: %s", field.Name, value)
		default:
			fmt.Fprintf(&b, "%q: %q", field.Name, value)
		}
	}
	b.WriteString("}")
	return b.String()
}

// templatePath rewrites {param} placeholders as Karate #(param)
// embedded expressions so the def'd variables are substituted.
func templatePath(path string, pathParams []openapi.Parameter) string {
	result := path
	for _, param := range pathParams {
		result = strings.ReplaceAll(result,
			"{"+param.Name+"}", "#("+param.Name+")")
	}
	return result
}

func successStatus(responses []openapi.Response) string {
	for _, response := range responses {
		if response.IsSuccess() {
			return response.StatusCode
		}
	}
	return "200"
}

func titleCase(s string) string {
	words := strings.Fields(strings.ReplaceAll(s, "_", " "))
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
