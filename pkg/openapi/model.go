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

// Package openapi loads Swagger/OpenAPI documents and distills them into
// the analysis model the generators consume.
package openapi

import "strings"

// Analysis is the structured summary of an API specification.
// All generators (Karate, JMeter, curl, scaffolding) work from this
// shape rather than from the raw document.
type Analysis struct {
	Title       string     `json:"title"`
	Version     string     `json:"version"`
	Description string     `json:"description,omitempty"`
	BaseURLs    []string   `json:"base_urls"`
	Endpoints   []Endpoint `json:"endpoints"`
}

// Endpoint describes a single path+method operation.
type Endpoint struct {
	Path        string      `json:"path"`
	Method      string      `json:"method"`
	OperationID string      `json:"operation_id,omitempty"`
	Summary     string      `json:"summary,omitempty"`
	Description string      `json:"description,omitempty"`
	Tags        []string    `json:"tags,omitempty"`
	Parameters  []Parameter `json:"parameters,omitempty"`
	RequestBody *Body       `json:"request_body,omitempty"`
	Responses   []Response  `json:"responses,omitempty"`
}

// Parameter is a path, query or header parameter of an endpoint.
type Parameter struct {
	Name        string `json:"name"`
	In          string `json:"in"`
	Required    bool   `json:"required"`
	Type        string `json:"type,omitempty"`
	Format      string `json:"format,omitempty"`
	Description string `json:"description,omitempty"`
}

// Body describes a request body and its top-level fields.
type Body struct {
	ContentType string  `json:"content_type"`
	Required    bool    `json:"required"`
	Fields      []Field `json:"fields,omitempty"`
	Example     string  `json:"example,omitempty"`
}

// Field is a top-level property of a request body schema.
type Field struct {
	Name     string `json:"name"`
	Type     string `json:"type,omitempty"`
	Format   string `json:"format,omitempty"`
	Required bool   `json:"required"`
}

// Response is a documented status code of an endpoint.
type Response struct {
	StatusCode  string `json:"status_code"`
	Description string `json:"description,omitempty"`
	ContentType string `json:"content_type,omitempty"`
}

// BaseURL returns the first server URL or an empty string.
func (a *Analysis) BaseURL() string {
	if len(a.BaseURLs) > 0 {
		return a.BaseURLs[0]
	}
	return ""
}

// Group returns the grouping key for an endpoint: its first tag when
// present, otherwise the first path segment, otherwise "api".
func (e *Endpoint) Group() string {
	if len(e.Tags) > 0 && e.Tags[0] != "" {
		return e.Tags[0]
	}
	for _, seg := range strings.Split(e.Path, "/") {
		if seg != "" && !strings.HasPrefix(seg, "{") {
			return seg
		}
	}
	return "api"
}

// IsSuccess reports whether the response code is in the 2xx range.
func (r *Response) IsSuccess() bool {
	return strings.HasPrefix(r.StatusCode, "2")
}
