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
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/apitestgen/apitestgen/pkg/openapi"
)

const collectionSchema = "https://schema.getpostman.com/json/collection/v2.1.0/collection.json"

// Generator builds curl commands and Postman collections.
type Generator struct{}

// NewGenerator creates a curl generator.
func NewGenerator() *Generator {
	return &Generator{}
}

// Generate produces one curl command and one Postman item per endpoint.
func (g *Generator) Generate(analysis *openapi.Analysis) *Result {
	baseURL := analysis.BaseURL()
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	result := &Result{BaseURL: baseURL}
	for _, endpoint := range analysis.Endpoints {
		command := buildCommand(endpoint, baseURL)
		result.Commands = append(result.Commands, command)
		result.Collection.Item = append(result.Collection.Item, buildPostmanItem(endpoint, command, baseURL))
	}
	result.TotalCommands = len(result.Commands)

	name := analysis.Title
	if name == "" {
		name = "API Collection"
	}
	description := analysis.Description
	if description == "" {
		description = "API collection generated from Swagger analysis"
	}
	result.Collection.Info = PostmanInfo{
		Name:        name,
		Description: description,
		Schema:      collectionSchema,
		PostmanID:   uuid.NewString(),
		Version:     "1.0.0",
	}
	result.Collection.Variable = []PostmanVariable{
		{Key: "baseUrl", Value: baseURL, Type: "string"},
	}
	return result
}

func buildCommand(endpoint openapi.Endpoint, baseURL string) Command {
	fullURL := baseURL + endpoint.Path
	var headers []Header
	for _, param := range endpoint.Parameters {
		switch param.In {
		case "path":
			fullURL = strings.ReplaceAll(fullURL,
				"{"+param.Name+"}", openapi.ExampleForParameter(param))
		case "header":
			headers = append(headers, Header{
				Name:  param.Name,
				Value: openapi.ExampleForParameter(param),
			})
		}
	}

	body := ""
	if endpoint.RequestBody != nil {
		contentType := endpoint.RequestBody.ContentType
		if contentType == "" {
			contentType = "application/json"
		}
		headers = append(headers, Header{Name: "Content-Type", Value: contentType})
		body = requestBody(endpoint.RequestBody)
	}

	return Command{
		Name:        fmt.Sprintf("%s %s", endpoint.Method, endpoint.Path),
		Method:      endpoint.Method,
		URL:         fullURL,
		Headers:     headers,
		Body:        body,
		Description: endpoint.Summary,
	}
}

// requestBody renders an indented JSON object from the body fields,
// with typed placeholders so the script runs as-is.
func requestBody(body *openapi.Body) string {
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
		value := openapi.ExampleForField(field)
		switch field.Type {
		case "integer", "number", "boolean":
			fmt.Fprintf(&b, "  %q: %s", field.Name, value)
		case "array":
			fmt.Fprintf(&b, "  %q: []", field.Name)
		case "object":
			fmt.Fprintf(&b, "  %q: {}", field.Name)
		default:
			fmt.Fprintf(&b, "  %q: %q", field.Name, value)
		}
	}
	b.WriteString("\n}")
	return b.String()
}

func buildPostmanItem(endpoint openapi.Endpoint, command Command, baseURL string) PostmanItem {
	postmanHeaders := make([]PostmanHeader, 0, len(command.Headers))
	for _, header := range command.Headers {
		postmanHeaders = append(postmanHeaders, PostmanHeader{
			Key: header.Name, Value: header.Value, Type: "text",
		})
	}

	raw := command.URL
	if strings.HasPrefix(raw, baseURL) {
		raw = "{{baseUrl}}" + strings.TrimPrefix(raw, baseURL)
	}

	postmanURL := PostmanURL{
		Raw:  raw,
		Host: []string{"{{baseUrl}}"},
	}
	pathPart := strings.TrimPrefix(raw, "{{baseUrl}}")
	queryPart := ""
	if idx := strings.Index(pathPart, "?"); idx >= 0 {
		queryPart = pathPart[idx+1:]
		pathPart = pathPart[:idx]
	}
	for _, segment := range strings.Split(strings.Trim(pathPart, "/"), "/") {
		if segment != "" {
			postmanURL.Path = append(postmanURL.Path, segment)
		}
	}
	if queryPart != "" {
		if values, err := url.ParseQuery(queryPart); err == nil {
			for key, vals := range values {
				for _, val := range vals {
					postmanURL.Query = append(postmanURL.Query, PostmanQuery{Key: key, Value: val})
				}
			}
		}
	}

	request := PostmanRequest{
		Method: command.Method,
		Header: postmanHeaders,
		URL:    postmanURL,
	}
	if command.Body != "" {
		request.Body = &PostmanBody{
			Mode:    "raw",
			Raw:     command.Body,
			Options: PostmanBodyOptions{Raw: PostmanBodyLanguage{Language: "json"}},
		}
	}

	name := fmt.Sprintf("%s %s", endpoint.Method, endpoint.Path)
	if endpoint.Summary != "" {
		name += " - " + endpoint.Summary
	}
	return PostmanItem{Name: name, Request: request}
}
