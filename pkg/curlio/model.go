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

// Package curlio renders curl commands and Postman collections from
// API analyses, and parses raw curl commands back into an analysis.
package curlio

import (
	"fmt"
	"strings"
)

// Header is an ordered HTTP header pair.
type Header struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Command is a single curl invocation.
type Command struct {
	Name        string   `json:"name"`
	Method      string   `json:"method"`
	URL         string   `json:"url"`
	Headers     []Header `json:"headers,omitempty"`
	Body        string   `json:"body,omitempty"`
	Description string   `json:"description,omitempty"`
}

// CurlString renders the command, with backslash continuations when
// pretty is set.
func (c Command) CurlString(pretty bool) string {
	parts := []string{fmt.Sprintf("curl -X %s", c.Method)}
	for _, header := range c.Headers {
		parts = append(parts, fmt.Sprintf("-H \"%s: %s\"", header.Name, header.Value))
	}
	if c.Body != "" {
		escaped := strings.ReplaceAll(c.Body, "'", `'"'"'`)
		parts = append(parts, fmt.Sprintf("-d '%s'", escaped))
	}
	parts = append(parts, fmt.Sprintf("%q", c.URL))

	if pretty {
		return strings.Join(parts, " \\\n  ")
	}
	return strings.Join(parts, " ")
}

// Result is the outcome of curl generation for one analysis.
type Result struct {
	Commands      []Command         `json:"curl_commands"`
	Collection    PostmanCollection `json:"postman_collection"`
	TotalCommands int               `json:"total_commands"`
	BaseURL       string            `json:"base_url"`
}

// PostmanCollection is a Postman Collection v2.1 document.
type PostmanCollection struct {
	Info     PostmanInfo       `json:"info"`
	Variable []PostmanVariable `json:"variable"`
	Item     []PostmanItem     `json:"item"`
}

// PostmanInfo identifies a collection.
type PostmanInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Schema      string `json:"schema"`
	PostmanID   string `json:"_postman_id"`
	Version     string `json:"version"`
}

// PostmanVariable is a collection-level variable.
type PostmanVariable struct {
	Key   string `json:"key"`
	Value string `json:"value"`
	Type  string `json:"type"`
}

// PostmanItem is one request in a collection.
type PostmanItem struct {
	Name    string         `json:"name"`
	Request PostmanRequest `json:"request"`
}

// PostmanRequest is the request payload of an item.
type PostmanRequest struct {
	Method string          `json:"method"`
	Header []PostmanHeader `json:"header"`
	URL    PostmanURL      `json:"url"`
	Body   *PostmanBody    `json:"body,omitempty"`
}

// PostmanHeader is a key/value header entry.
type PostmanHeader struct {
	Key   string `json:"key"`
	Value string `json:"value"`
	Type  string `json:"type"`
}

// PostmanURL is the structured URL of a request.
type PostmanURL struct {
	Raw   string         `json:"raw"`
	Host  []string       `json:"host"`
	Path  []string       `json:"path"`
	Query []PostmanQuery `json:"query,omitempty"`
}

// PostmanQuery is a query parameter entry.
type PostmanQuery struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// PostmanBody is a raw JSON request body.
type PostmanBody struct {
	Mode    string             `json:"mode"`
	Raw     string             `json:"raw"`
	Options PostmanBodyOptions `json:"options"`
}

// PostmanBodyOptions selects the body language in the Postman UI.
type PostmanBodyOptions struct {
	Raw PostmanBodyLanguage `json:"raw"`
}

// PostmanBodyLanguage names the body syntax.
type PostmanBodyLanguage struct {
	Language string `json:"language"`
}
