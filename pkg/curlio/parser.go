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
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/apitestgen/apitestgen/pkg/openapi"
)

// ErrEmptyCommand indicates a blank curl command.
var ErrEmptyCommand = errors.New("curl command cannot be empty")

// ParsedRequest is the request recovered from a raw curl command.
type ParsedRequest struct {
	Method  string   `json:"method"`
	URL     string   `json:"url"`
	Headers []Header `json:"headers,omitempty"`
	Body    string   `json:"body,omitempty"`
	RawCurl string   `json:"raw_curl"`
}

var dataFlags = map[string]bool{
	"-d": true, "--data": true, "--data-raw": true, "--data-binary": true,
}

var valueFlags = map[string]bool{
	"-X": true, "--request": true,
	"-H": true, "--header": true,
	"-d": true, "--data": true, "--data-raw": true, "--data-binary": true,
	"-u": true, "--user": true,
	"-A": true, "--user-agent": true,
	"-e": true, "--referer": true,
	"-o": true, "--output": true,
	"-T": true, "--upload-file": true,
}

// ParseCommand parses a raw curl invocation. Quotes are handled
// shell-style, so JSON bodies in single quotes survive intact.
func ParseCommand(curlCommand string) (*ParsedRequest, error) {
	trimmed := strings.TrimSpace(curlCommand)
	if trimmed == "" {
		return nil, ErrEmptyCommand
	}
	trimmed = strings.TrimSpace(strings.TrimPrefix(trimmed, "curl "))

	args, err := splitShellWords(trimmed)
	if err != nil {
		return nil, fmt.Errorf("failed to parse curl command: %w", err)
	}

	request := &ParsedRequest{
		Method:  extractMethod(args),
		URL:     extractURL(args),
		Headers: extractHeaders(args),
		Body:    extractBody(args),
		RawCurl: "curl " + trimmed,
	}
	if request.URL == "" {
		return nil, errors.New("no URL found in curl command")
	}
	return request, nil
}

// splitShellWords tokenizes a command line respecting single quotes,
// double quotes, backslash escapes, and line continuations.
func splitShellWords(input string) ([]string, error) {
	var words []string
	var current strings.Builder
	inWord := false
	i := 0
	for i < len(input) {
		c := input[i]
		switch c {
		case '\'':
			end := strings.IndexByte(input[i+1:], '\'')
			if end < 0 {
				return nil, errors.New("unterminated single quote")
			}
			current.WriteString(input[i+1 : i+1+end])
			inWord = true
			i += end + 2
		case '"':
			i++
			for i < len(input) && input[i] != '"' {
				if input[i] == '\\' && i+1 < len(input) {
					i++
				}
				current.WriteByte(input[i])
				i++
			}
			if i >= len(input) {
				return nil, errors.New("unterminated double quote")
			}
			inWord = true
			i++
		case '\\':
			if i+1 < len(input) {
				next := input[i+1]
				if next == '\n' {
					i += 2
					continue
				}
				current.WriteByte(next)
				inWord = true
				i += 2
			} else {
				i++
			}
		case ' ', '\t', '\n', '\r':
			if inWord {
				words = append(words, current.String())
				current.Reset()
				inWord = false
			}
			i++
		default:
			current.WriteByte(c)
			inWord = true
			i++
		}
	}
	if inWord {
		words = append(words, current.String())
	}
	return words, nil
}

func extractMethod(args []string) string {
	for i, arg := range args {
		if (arg == "-X" || arg == "--request") && i+1 < len(args) {
			return strings.ToUpper(args[i+1])
		}
	}
	for _, arg := range args {
		if dataFlags[arg] {
			return "POST"
		}
	}
	return "GET"
}

func extractURL(args []string) string {
	var candidates []string
	skipNext := false
	for _, arg := range args {
		if skipNext {
			skipNext = false
			continue
		}
		if valueFlags[arg] {
			skipNext = true
			continue
		}
		if strings.HasPrefix(arg, "-") {
			continue
		}
		candidates = append(candidates, arg)
	}

	for _, candidate := range candidates {
		if strings.Contains(candidate, "://") ||
			strings.HasPrefix(candidate, "/") ||
			strings.HasPrefix(candidate, "http") {
			return candidate
		}
		if strings.Contains(candidate, ".") || strings.HasPrefix(candidate, "localhost") {
			return "http://" + candidate
		}
	}
	if len(candidates) > 0 {
		return candidates[len(candidates)-1]
	}
	return ""
}

func extractHeaders(args []string) []Header {
	var headers []Header
	for i := 0; i < len(args); i++ {
		if (args[i] == "-H" || args[i] == "--header") && i+1 < len(args) {
			headerStr := args[i+1]
			if name, value, found := strings.Cut(headerStr, ":"); found {
				headers = append(headers, Header{
					Name:  strings.TrimSpace(name),
					Value: strings.TrimSpace(value),
				})
			}
			i++
		}
	}
	return headers
}

func extractBody(args []string) string {
	for i := 0; i < len(args); i++ {
		if dataFlags[args[i]] && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

var pathParamPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\{([^}]+)\}`),
	regexp.MustCompile(`:([a-zA-Z_][a-zA-Z0-9_]*)`),
}

// ToAnalysis converts the parsed request into a one-endpoint analysis
// so the feature, JMeter and curl generators can consume it.
func (r *ParsedRequest) ToAnalysis() *openapi.Analysis {
	baseURL, path := splitRequestURL(r.URL)

	endpoint := openapi.Endpoint{
		Path:        path,
		Method:      r.Method,
		Summary:     fmt.Sprintf("%s request to %s", r.Method, path),
		Description: "Generated from curl command",
		Responses: []openapi.Response{
			{StatusCode: "200", Description: "Successful response", ContentType: "*/*"},
		},
	}

	for _, header := range r.Headers {
		endpoint.Parameters = append(endpoint.Parameters, openapi.Parameter{
			Name:        header.Name,
			In:          "header",
			Required:    true,
			Type:        "string",
			Description: "Header from curl",
		})
	}

	seen := make(map[string]bool)
	for _, pattern := range pathParamPatterns {
		for _, match := range pattern.FindAllStringSubmatch(path, -1) {
			name := match[1]
			if seen[name] {
				continue
			}
			seen[name] = true
			endpoint.Parameters = append(endpoint.Parameters, openapi.Parameter{
				Name:        name,
				In:          "path",
				Required:    true,
				Type:        "string",
				Description: "Path parameter",
			})
		}
	}

	if r.Body != "" {
		endpoint.RequestBody = bodyToFields(r.Body)
	}

	return &openapi.Analysis{
		Title:       titleFromPath(path, r.Method),
		Version:     "1.0.0",
		Description: "API generated from curl command",
		BaseURLs:    []string{baseURL},
		Endpoints:   []openapi.Endpoint{endpoint},
	}
}

func bodyToFields(body string) *openapi.Body {
	result := &openapi.Body{
		ContentType: "application/json",
		Required:    true,
		Example:     body,
	}

	var parsed map[string]any
	if err := json.Unmarshal([]byte(body), &parsed); err != nil {
		result.Fields = []openapi.Field{{Name: "raw_body", Type: "string", Required: true}}
		return result
	}
	for name, value := range parsed {
		result.Fields = append(result.Fields, openapi.Field{
			Name:     name,
			Type:     inferJSONType(value),
			Required: true,
		})
	}
	return result
}

func inferJSONType(value any) string {
	switch v := value.(type) {
	case bool:
		return "boolean"
	case float64:
		if v == float64(int64(v)) {
			return "integer"
		}
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return "string"
	}
}

func splitRequestURL(rawURL string) (baseURL, path string) {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		if strings.HasPrefix(rawURL, "/") {
			return "", rawURL
		}
		return "", "/"
	}
	baseURL = parsed.Scheme + "://" + parsed.Host
	path = parsed.Path
	if path == "" {
		path = "/"
	}
	return baseURL, path
}

func titleFromPath(path, method string) string {
	for _, part := range strings.Split(path, "/") {
		if part == "" || strings.HasPrefix(part, "{") || strings.HasPrefix(part, ":") {
			continue
		}
		resource := strings.NewReplacer("_", " ", "-", " ").Replace(part)
		words := strings.Fields(resource)
		for i, word := range words {
			words[i] = strings.ToUpper(word[:1]) + word[1:]
		}
		return fmt.Sprintf("%s API (from curl)", strings.Join(words, " "))
	}
	return fmt.Sprintf("%s API (from curl)", method)
}
