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
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/apitestgen/apitestgen/pkg/karate"
	"github.com/apitestgen/apitestgen/pkg/openapi"
)

var httpMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"}

// Generator builds JMeter test plans.
type Generator struct{}

// NewGenerator creates a test plan generator.
func NewGenerator() *Generator {
	return &Generator{}
}

// FromAnalysis builds a plan with one thread group per endpoint.
func (g *Generator) FromAnalysis(analysis *openapi.Analysis) (*Result, error) {
	protocol, host, port := splitBaseURL(analysis.BaseURL())

	title := analysis.Title
	if title == "" {
		title = "Swagger API"
	}
	plan := TestPlan{
		Name:     fmt.Sprintf("API Test Plan - %s", title),
		Protocol: protocol,
		Host:     host,
		Port:     port,
	}

	totalRequests := 0
	for _, endpoint := range analysis.Endpoints {
		group := newThreadGroup(threadGroupName(endpoint))
		group.Requests = append(group.Requests, requestFromEndpoint(endpoint))
		plan.ThreadGroups = append(plan.ThreadGroups, group)
		totalRequests += len(group.Requests)
	}

	return g.finish(plan, totalRequests)
}

// FromFeatures builds a plan with one thread group per feature; the
// method and path of each sampler are recovered from scenario names.
func (g *Generator) FromFeatures(features *karate.Result) (*Result, error) {
	protocol, host, port := splitBaseURL(features.BaseURL)

	plan := TestPlan{
		Name:     "API Test Plan - From Features",
		Protocol: protocol,
		Host:     host,
		Port:     port,
	}

	totalRequests := 0
	for _, feature := range features.Features {
		group := newThreadGroup(fmt.Sprintf("Thread Group - %s", feature.Name))
		for _, scenario := range feature.Scenarios {
			group.Requests = append(group.Requests, requestFromScenario(scenario))
		}
		if len(group.Requests) == 0 {
			continue
		}
		plan.ThreadGroups = append(plan.ThreadGroups, group)
		totalRequests += len(group.Requests)
	}

	return g.finish(plan, totalRequests)
}

func (g *Generator) finish(plan TestPlan, totalRequests int) (*Result, error) {
	xmlContent, err := renderJMX(plan)
	if err != nil {
		return nil, fmt.Errorf("failed to render test plan XML: %w", err)
	}
	return &Result{
		TestPlan:          plan,
		XMLContent:        xmlContent,
		TotalRequests:     totalRequests,
		TotalThreadGroups: len(plan.ThreadGroups),
	}, nil
}

func threadGroupName(endpoint openapi.Endpoint) string {
	name := fmt.Sprintf("%s %s", endpoint.Method, endpoint.Path)
	if endpoint.Summary != "" {
		name += " - " + endpoint.Summary
	}
	return name
}

func requestFromEndpoint(endpoint openapi.Endpoint) HTTPRequest {
	name := fmt.Sprintf("%s %s", endpoint.Method, endpoint.Path)
	if endpoint.Summary != "" {
		name = endpoint.Summary
	}

	request := HTTPRequest{
		Name:   name,
		Method: endpoint.Method,
		Path:   endpoint.Path,
	}

	for _, param := range endpoint.Parameters {
		switch param.In {
		case "header":
			request.Headers = append(request.Headers, Header{
				Name:  param.Name,
				Value: openapi.ExampleForParameter(param),
			})
		case "query":
			request.Parameters = append(request.Parameters, Parameter{
				Name:  param.Name,
				Value: openapi.ExampleForParameter(param),
			})
		case "path":
			request.Path = strings.ReplaceAll(request.Path,
				"{"+param.Name+"}", openapi.ExampleForParameter(param))
		}
	}

	if hasBodyMethod(endpoint.Method) {
		request.Headers = append(request.Headers, Header{Name: "Content-Type", Value: "application/json"})
		if endpoint.RequestBody != nil {
			request.BodyData = requestBodyJSON(endpoint.RequestBody)
		}
	}
	// Correlates samples across listeners and server logs.
	request.Headers = append(request.Headers, Header{Name: "X-Correlation-Id", Value: uuid.NewString()})
	return request
}

func requestFromScenario(scenario karate.Scenario) HTTPRequest {
	method := "GET"
	nameUpper := strings.ToUpper(scenario.Name)
	for _, candidate := range httpMethods {
		if strings.Contains(nameUpper, candidate) {
			method = candidate
			break
		}
	}

	path := "/"
	if idx := strings.Index(scenario.Name, " /"); idx >= 0 {
		rest := scenario.Name[idx+2:]
		if cut := strings.Index(rest, " "); cut >= 0 {
			rest = rest[:cut]
		}
		path = "/" + rest
	}

	return HTTPRequest{
		Name:    scenario.Name,
		Method:  method,
		Path:    path,
		Headers: []Header{{Name: "Content-Type", Value: "application/json"}},
	}
}

func requestBodyJSON(body *openapi.Body) string {
	if len(body.Fields) == 0 {
		if body.Example != "" {
			return body.Example
		}
		return "{}"
	}
	var b strings.Builder
	b.WriteString("{\n")
	for i, field := range body.Fields {
		if i > 0 {
			b.WriteString(",\n")
		}
		fmt.Fprintf(&b, "  %q: %q", field.Name, openapi.ExampleForField(field))
	}
	b.WriteString("\n}")
	return b.String()
}

func hasBodyMethod(method string) bool {
	switch strings.ToUpper(method) {
	case "POST", "PUT", "PATCH":
		return true
	}
	return false
}

// splitBaseURL decomposes a server URL into sampler fields, defaulting
// to http://localhost on the scheme's standard port.
func splitBaseURL(baseURL string) (protocol, host string, port int) {
	protocol, host = "http", "localhost"
	parsed, err := url.Parse(baseURL)
	if err == nil && parsed.Host != "" {
		if parsed.Scheme != "" {
			protocol = parsed.Scheme
		}
		host = parsed.Hostname()
		if p := parsed.Port(); p != "" {
			fmt.Sscanf(p, "%d", &port)
		}
	}
	if port == 0 {
		if protocol == "https" {
			port = 443
		} else {
			port = 80
		}
	}
	return protocol, host, port
}
