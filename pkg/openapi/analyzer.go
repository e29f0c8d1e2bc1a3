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
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/pb33f/libopenapi"
	"github.com/pb33f/libopenapi/datamodel"
	"github.com/pb33f/libopenapi/datamodel/high/base"
	v3 "github.com/pb33f/libopenapi/datamodel/high/v3"
	"github.com/pb33f/libopenapi/orderedmap"
	"github.com/pb33f/libopenapi/renderer"
)

// Analyzer loads OpenAPI documents via libopenapi and produces Analyses.
// This isolates the library-specific code behind the analysis model.
type Analyzer struct {
	// Strict causes model build warnings to be treated as errors.
	Strict bool

	httpClient *http.Client
}

// NewAnalyzer creates an Analyzer with permissive validation.
func NewAnalyzer() *Analyzer {
	return &Analyzer{httpClient: http.DefaultClient}
}

// AnalyzeLocation loads a spec from a URL or file path and analyzes it.
func (a *Analyzer) AnalyzeLocation(location string) (*Analysis, error) {
	specBytes, err := a.loadSpecBytes(location)
	if err != nil {
		return nil, err
	}
	return a.AnalyzeBytes(specBytes)
}

// AnalyzeBytes parses raw spec content (JSON or YAML) into an Analysis.
func (a *Analyzer) AnalyzeBytes(specBytes []byte) (*Analysis, error) {
	config := datamodel.NewDocumentConfiguration()
	config.AllowFileReferences = true
	config.AllowRemoteReferences = true

	document, err := libopenapi.NewDocumentWithConfiguration(specBytes, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create document: %w", err)
	}

	docModel, errs := document.BuildV3Model()
	if len(errs) > 0 {
		if a.Strict {
			var messages []string
			for _, err := range errs {
				messages = append(messages, err.Error())
			}
			return nil, fmt.Errorf("OpenAPI model validation errors: %s", strings.Join(messages, "; "))
		}
		log.Printf("OpenAPI validation warnings (permissive mode): %d warnings", len(errs))
	}

	return a.analyzeModel(docModel), nil
}

// loadSpecBytes loads specification bytes from either a file or URL.
func (a *Analyzer) loadSpecBytes(location string) ([]byte, error) {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		resp, err := a.httpClient.Get(location)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch OpenAPI spec from URL: %w", err)
		}
		defer func() {
			if err := resp.Body.Close(); err != nil {
				log.Printf("failed to close response body: %v", err)
			}
		}()
		specBytes, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read OpenAPI spec response: %w", err)
		}
		return specBytes, nil
	}

	specBytes, err := os.ReadFile(location)
	if err != nil {
		return nil, fmt.Errorf("failed to read OpenAPI spec file: %w", err)
	}
	return specBytes, nil
}

func (a *Analyzer) analyzeModel(doc *libopenapi.DocumentModel[v3.Document]) *Analysis {
	analysis := &Analysis{
		Title:   doc.Model.Info.Title,
		Version: doc.Model.Info.Version,
	}
	if doc.Model.Info.Description != "" {
		analysis.Description = doc.Model.Info.Description
	}
	for _, server := range doc.Model.Servers {
		if server != nil && server.URL != "" {
			analysis.BaseURLs = append(analysis.BaseURLs, server.URL)
		}
	}

	if doc.Model.Paths == nil {
		return analysis
	}
	for pathPairs := doc.Model.Paths.PathItems.First(); pathPairs != nil; pathPairs = pathPairs.Next() {
		path := pathPairs.Key()
		pathItem := pathPairs.Value()

		operations := pathItem.GetOperations()
		for opPairs := operations.First(); opPairs != nil; opPairs = opPairs.Next() {
			endpoint := a.analyzeOperation(strings.ToUpper(opPairs.Key()), path, opPairs.Value())
			analysis.Endpoints = append(analysis.Endpoints, endpoint)
		}
	}
	return analysis
}

func (a *Analyzer) analyzeOperation(method, path string, operation *v3.Operation) Endpoint {
	endpoint := Endpoint{
		Path:        path,
		Method:      method,
		OperationID: operation.OperationId,
		Summary:     operation.Summary,
		Description: operation.Description,
		Tags:        operation.Tags,
	}

	for _, param := range operation.Parameters {
		if param == nil {
			continue
		}
		p := Parameter{
			Name:        param.Name,
			In:          param.In,
			Description: param.Description,
		}
		if param.Required != nil {
			p.Required = *param.Required
		}
		p.Type, p.Format = schemaTypeFormat(param.Schema)
		endpoint.Parameters = append(endpoint.Parameters, p)
	}

	endpoint.RequestBody = a.analyzeRequestBody(operation.RequestBody)
	endpoint.Responses = analyzeResponses(operation.Responses)
	return endpoint
}

func (a *Analyzer) analyzeRequestBody(requestBody *v3.RequestBody) *Body {
	if requestBody == nil || requestBody.Content == nil {
		return nil
	}

	contentType, media := preferredMedia(requestBody.Content)
	if media == nil {
		return nil
	}

	body := &Body{ContentType: contentType}
	if requestBody.Required != nil {
		body.Required = *requestBody.Required
	}

	if media.Schema != nil {
		schema := media.Schema.Schema()
		if schema != nil && schema.Properties != nil {
			for propPairs := schema.Properties.First(); propPairs != nil; propPairs = propPairs.Next() {
				field := Field{Name: propPairs.Key()}
				field.Type, field.Format = schemaTypeFormat(propPairs.Value())
				field.Required = contains(schema.Required, field.Name)
				body.Fields = append(body.Fields, field)
			}
		}

		// Rendered mock makes generated scenarios immediately runnable.
		mockGen := renderer.NewMockGenerator(renderer.JSON)
		mockGen.SetPretty()
		mockGen.DisableRequiredCheck()
		if sample, err := mockGen.GenerateMock(schema, ""); err == nil {
			body.Example = string(sample)
		}
	}
	return body
}

func analyzeResponses(responses *v3.Responses) []Response {
	if responses == nil || responses.Codes == nil {
		return nil
	}
	var result []Response
	for codePairs := responses.Codes.First(); codePairs != nil; codePairs = codePairs.Next() {
		resp := Response{StatusCode: codePairs.Key()}
		if r := codePairs.Value(); r != nil {
			resp.Description = r.Description
			if r.Content != nil {
				if contentType, _ := preferredMedia(r.Content); contentType != "" {
					resp.ContentType = contentType
				}
			}
		}
		result = append(result, resp)
	}
	return result
}

// preferredMedia picks the most useful media type from a content map,
// favoring JSON the way generated tests expect.
func preferredMedia(content *orderedmap.Map[string, *v3.MediaType]) (string, *v3.MediaType) {
	priorities := []string{"application/json", "*/*", "application/xml", "text/xml", "text/plain"}
	for _, contentType := range priorities {
		for pairs := content.First(); pairs != nil; pairs = pairs.Next() {
			if pairs.Key() == contentType {
				return contentType, pairs.Value()
			}
		}
	}
	if pairs := content.First(); pairs != nil {
		return pairs.Key(), pairs.Value()
	}
	return "", nil
}

func schemaTypeFormat(schemaProxy *base.SchemaProxy) (string, string) {
	if schemaProxy == nil {
		return "string", ""
	}
	schema := schemaProxy.Schema()
	if schema == nil {
		return "string", ""
	}
	typeName := "string"
	if len(schema.Type) > 0 {
		typeName = schema.Type[0]
	}
	return typeName, schema.Format
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
