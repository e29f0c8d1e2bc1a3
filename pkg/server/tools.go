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

package server

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/apitestgen/apitestgen/pkg/curlio"
	"github.com/apitestgen/apitestgen/pkg/dbquery"
	"github.com/apitestgen/apitestgen/pkg/karate"
	"github.com/apitestgen/apitestgen/pkg/output"
	"github.com/apitestgen/apitestgen/pkg/scaffold"
)

// SpecAnalysisTool analyzes an OpenAPI specification from a URL or
// file path.
func (t *Toolset) SpecAnalysisTool() mcp.Tool {
	return mcp.NewTool("spec_analysis",
		mcp.WithDescription("Analyze a Swagger/OpenAPI specification from a URL or file path: "+
			"endpoints, methods, parameters, request bodies and responses."),
		mcp.WithString("location",
			mcp.Required(),
			mcp.Description("URL or file path of the OpenAPI specification"),
		),
		mcp.WithBoolean("strict",
			mcp.Description("Fail on specification model errors instead of continuing with warnings"),
		),
	)
}

// HandleSpecAnalysis implements the spec_analysis tool.
func (t *Toolset) HandleSpecAnalysis(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	location, err := request.RequireString("location")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	analyzer := *t.analyzer
	analyzer.Strict = request.GetBool("strict", false)

	analysis, err := analyzer.AnalyzeLocation(location)
	if err != nil {
		return errorResult("failed to analyze specification", err), nil
	}

	summary := fmt.Sprintf(`[SUCCESS] Specification Analysis Completed!

API Analysis Results:
- Title: %s
- Version: %s
- Total Endpoints: %d
- Base URLs: %s`,
		analysis.Title, analysis.Version, len(analysis.Endpoints),
		strings.Join(analysis.BaseURLs, ", "))
	message := fmt.Sprintf("Successfully analyzed %d endpoints", len(analysis.Endpoints))
	return successResult(summary, message, analysis), nil
}

// FeatureGeneratorTool generates Karate features from an analysis.
func (t *Toolset) FeatureGeneratorTool() mcp.Tool {
	return mcp.NewTool("feature_generator",
		mcp.WithDescription("Generate Karate DSL .feature files from a spec analysis: "+
			"one feature per endpoint group with success and error scenarios."),
		mcp.WithString("analysis",
			mcp.Required(),
			mcp.Description("Spec analysis JSON as returned by spec_analysis"),
		),
		mcp.WithString("output_dir",
			mcp.Description("Directory to save feature files; empty for a managed output directory"),
		),
	)
}

// HandleFeatureGenerator implements the feature_generator tool.
func (t *Toolset) HandleFeatureGenerator(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := request.RequireString("analysis")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	analysis, err := decodeAnalysis(raw)
	if err != nil {
		return errorResult("failed to read analysis", err), nil
	}

	result := t.features.Generate(analysis)
	dir, err := t.resolveOutputDir(output.KindFeatures, analysis.Title, request.GetString("output_dir", ""))
	if err != nil {
		return errorResult("failed to prepare output directory", err), nil
	}
	saved, err := karate.Save(result.Features, dir)
	if err != nil {
		return errorResult("failed to save feature files", err), nil
	}

	summary := fmt.Sprintf(`[SUCCESS] Feature Generation Completed!

Generation Results:
- Total Features: %d
- Total Scenarios: %d
- Base URL: %s
- Output Directory: %s`,
		len(result.Features), result.TotalScenarios, result.BaseURL, dir)
	message := fmt.Sprintf("Successfully generated %d feature files with %d scenarios",
		len(result.Features), result.TotalScenarios)
	return successResult(summary, message, map[string]any{
		"result":      result,
		"saved_files": saved,
	}), nil
}

// JMeterGeneratorTool generates a JMX test plan from a spec analysis
// or from generated features.
func (t *Toolset) JMeterGeneratorTool() mcp.Tool {
	return mcp.NewTool("jmeter_generator",
		mcp.WithDescription("Generate a JMeter .jmx test plan from a spec analysis or from "+
			"generated Karate features: thread groups, HTTP samplers, headers and listeners."),
		mcp.WithString("source_type",
			mcp.Required(),
			mcp.Description("Input kind: 'spec' or 'features'"),
			mcp.Enum("spec", "features"),
		),
		mcp.WithString("source",
			mcp.Required(),
			mcp.Description("Spec analysis or feature set JSON, matching source_type"),
		),
		mcp.WithString("output_file",
			mcp.Description("Target .jmx path; empty for a managed output directory"),
		),
	)
}

// HandleJMeterGenerator implements the jmeter_generator tool.
func (t *Toolset) HandleJMeterGenerator(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sourceType, err := request.RequireString("source_type")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	source, err := request.RequireString("source")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var result *jmeterResult
	switch sourceType {
	case "spec":
		analysis, err := decodeAnalysis(source)
		if err != nil {
			return errorResult("failed to read analysis", err), nil
		}
		generated, err := t.jmeter.FromAnalysis(analysis)
		if err != nil {
			return errorResult("failed to generate test plan", err), nil
		}
		result = &jmeterResult{generated, analysis.Title}
	case "features":
		features, err := decodeFeatures(source)
		if err != nil {
			return errorResult("failed to read features", err), nil
		}
		generated, err := t.jmeter.FromFeatures(features)
		if err != nil {
			return errorResult("failed to generate test plan", err), nil
		}
		result = &jmeterResult{generated, "features"}
	default:
		return mcp.NewToolResultError("[ERROR] source_type must be 'spec' or 'features'"), nil
	}

	outputFile := request.GetString("output_file", "")
	if outputFile == "" {
		dir, err := t.outputs.CreateRunDir(output.KindJMeter, result.identifier)
		if err != nil {
			return errorResult("failed to prepare output directory", err), nil
		}
		outputFile = filepath.Join(dir, "test_plan.jmx")
	}
	if err := saveJMX(result, outputFile); err != nil {
		return errorResult("failed to save test plan", err), nil
	}

	summary := fmt.Sprintf(`[SUCCESS] JMeter Generation Completed!

Generation Results:
- Test Plan: %s
- Thread Groups: %d
- Total Requests: %d
- Output File: %s`,
		result.TestPlan.Name, result.TotalThreadGroups, result.TotalRequests, outputFile)
	message := fmt.Sprintf("Successfully generated JMeter test plan with %d thread groups and %d requests",
		result.TotalThreadGroups, result.TotalRequests)
	return successResult(summary, message, map[string]any{
		"result":     result.Result,
		"saved_file": outputFile,
	}), nil
}

// CurlGeneratorTool renders curl commands and a Postman collection
// from an analysis.
func (t *Toolset) CurlGeneratorTool() mcp.Tool {
	return mcp.NewTool("curl_generator",
		mcp.WithDescription("Generate a curl command shell script and a Postman collection "+
			"from a spec analysis."),
		mcp.WithString("analysis",
			mcp.Required(),
			mcp.Description("Spec analysis JSON as returned by spec_analysis"),
		),
		mcp.WithString("output_dir",
			mcp.Description("Directory to save the script and collection; empty for a managed output directory"),
		),
	)
}

// HandleCurlGenerator implements the curl_generator tool.
func (t *Toolset) HandleCurlGenerator(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := request.RequireString("analysis")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	analysis, err := decodeAnalysis(raw)
	if err != nil {
		return errorResult("failed to read analysis", err), nil
	}

	result := t.curl.Generate(analysis)
	dir, err := t.resolveOutputDir(output.KindCurl, analysis.Title, request.GetString("output_dir", ""))
	if err != nil {
		return errorResult("failed to prepare output directory", err), nil
	}
	scriptPath, err := curlio.SaveScript(result.Commands, filepath.Join(dir, "curl_commands.sh"))
	if err != nil {
		return errorResult("failed to save curl script", err), nil
	}
	collectionPath, err := curlio.SaveCollection(result.Collection, filepath.Join(dir, "postman_collection.json"))
	if err != nil {
		return errorResult("failed to save Postman collection", err), nil
	}

	summary := fmt.Sprintf(`[SUCCESS] Curl Generation Completed!

Generation Results:
- Total Commands: %d
- Base URL: %s
- Script: %s
- Postman Collection: %s`,
		result.TotalCommands, result.BaseURL, scriptPath, collectionPath)
	message := fmt.Sprintf("Successfully generated %d curl commands", result.TotalCommands)
	return successResult(summary, message, map[string]any{
		"result":          result,
		"script_file":     scriptPath,
		"collection_file": collectionPath,
	}), nil
}

// CurlParserTool converts a raw curl command into an analysis.
func (t *Toolset) CurlParserTool() mcp.Tool {
	return mcp.NewTool("curl_parser",
		mcp.WithDescription("Parse a raw curl command into a spec analysis so the "+
			"generator tools can consume it."),
		mcp.WithString("command",
			mcp.Required(),
			mcp.Description("The curl command to parse"),
		),
	)
}

// HandleCurlParser implements the curl_parser tool.
func (t *Toolset) HandleCurlParser(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	command, err := request.RequireString("command")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	parsed, err := curlio.ParseCommand(command)
	if err != nil {
		return errorResult("failed to parse curl command", err), nil
	}
	analysis := parsed.ToAnalysis()
	endpoint := analysis.Endpoints[0]

	summary := fmt.Sprintf(`[SUCCESS] Curl Command Parsed!

Parsed Request:
- Method: %s
- Path: %s
- Base URL: %s
- Headers: %d`,
		endpoint.Method, endpoint.Path, analysis.BaseURL(), len(parsed.Headers))
	message := fmt.Sprintf("Successfully parsed %s request", parsed.Method)
	return successResult(summary, message, map[string]any{
		"request":  parsed,
		"analysis": analysis,
	}), nil
}

// KarateProjectTool scaffolds a Maven Karate project.
func (t *Toolset) KarateProjectTool() mcp.Tool {
	return mcp.NewTool("karate_project",
		mcp.WithDescription("Scaffold a complete Java/Maven Karate project: pom.xml, JUnit5 "+
			"runners, hooks, helpers, configuration and feature files."),
		mcp.WithString("analysis",
			mcp.Required(),
			mcp.Description("Spec analysis JSON as returned by spec_analysis"),
		),
		mcp.WithString("features",
			mcp.Description("Feature set JSON from feature_generator; generated from the analysis when omitted"),
		),
		mcp.WithString("artifact_id",
			mcp.Description("Maven artifactId for the generated project"),
		),
		mcp.WithString("output_dir",
			mcp.Description("Project directory; empty for a managed output directory"),
		),
	)
}

// HandleKarateProject implements the karate_project tool.
func (t *Toolset) HandleKarateProject(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := request.RequireString("analysis")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	analysis, err := decodeAnalysis(raw)
	if err != nil {
		return errorResult("failed to read analysis", err), nil
	}

	var features []karate.Feature
	if rawFeatures := request.GetString("features", ""); rawFeatures != "" {
		decoded, err := decodeFeatures(rawFeatures)
		if err != nil {
			return errorResult("failed to read features", err), nil
		}
		features = decoded.Features
	} else {
		features = t.features.Generate(analysis).Features
	}

	dir, err := t.resolveOutputDir(output.KindKarateProject, analysis.Title, request.GetString("output_dir", ""))
	if err != nil {
		return errorResult("failed to prepare output directory", err), nil
	}
	project, err := t.scaffolder.Generate(analysis, features, dir, scaffold.Options{
		ArtifactID: request.GetString("artifact_id", ""),
	})
	if err != nil {
		return errorResult("failed to scaffold project", err), nil
	}

	summary := fmt.Sprintf(`[SUCCESS] Karate Project Generated!

Project Results:
- Project: %s
- Java Classes: %d
- Feature Files: %d
- Base URL: %s
- Directory: %s`,
		project.ArtifactID, project.JavaClasses, project.Features, project.BaseURL, project.Dir)
	message := fmt.Sprintf("Successfully scaffolded project with %d classes and %d features",
		project.JavaClasses, project.Features)
	return successResult(summary, message, project), nil
}

// DatabaseQueryTool validates and executes read-only SQL.
func (t *Toolset) DatabaseQueryTool() mcp.Tool {
	return mcp.NewTool("database_query",
		mcp.WithDescription("Execute a read-only SQL query against PostgreSQL. Connection "+
			"fields not provided fall back to the configured defaults for the database type; "+
			"a connection string bypasses resolution entirely."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("The SQL query to execute (read-only)"),
		),
		mcp.WithString("db_type",
			mcp.Description("Database type, e.g. postgres; required unless connection_string is set"),
		),
		mcp.WithString("host", mcp.Description("Database host override")),
		mcp.WithNumber("port", mcp.Description("Database port override")),
		mcp.WithString("database", mcp.Description("Database name override")),
		mcp.WithString("username", mcp.Description("Username override")),
		mcp.WithString("password", mcp.Description("Password override")),
		mcp.WithString("connection_string",
			mcp.Description("Full connection string; takes precedence over all other fields"),
		),
		mcp.WithString("output_format",
			mcp.Description("Result format: json, csv, markdown or table"),
			mcp.Enum("json", "csv", "markdown", "table"),
		),
		mcp.WithNumber("max_rows", mcp.Description("Row limit for this query")),
	)
}

// HandleDatabaseQuery implements the database_query tool.
func (t *Toolset) HandleDatabaseQuery(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	resolved, err := t.resolver.Resolve(dbquery.ConnectionRequest{
		DBType:           request.GetString("db_type", ""),
		Host:             request.GetString("host", ""),
		Port:             request.GetInt("port", 0),
		Database:         request.GetString("database", ""),
		Username:         request.GetString("username", ""),
		Password:         request.GetString("password", ""),
		ConnectionString: request.GetString("connection_string", ""),
	})
	if err != nil {
		return errorResult("failed to resolve connection", err), nil
	}

	executor, err := dbquery.NewExecutor(resolved)
	if err != nil {
		return errorResult("failed to open connection", err), nil
	}
	defer executor.Close()

	opts := t.queryOpts
	if maxRows := request.GetInt("max_rows", 0); maxRows > 0 {
		opts.MaxRows = maxRows
	}
	result, err := executor.Execute(ctx, query, opts)
	if err != nil {
		return errorResult("query failed", err), nil
	}

	formatted, err := result.Format(request.GetString("output_format", "json"))
	if err != nil {
		return errorResult("failed to format result", err), nil
	}

	summary := fmt.Sprintf(`[SUCCESS] Query Executed!

Query Results:
- Rows: %d
- Columns: %d
- Execution Time: %.4fs
- Truncated: %t

%s`,
		result.RowCount, len(result.Columns), result.ExecutionTime, result.Truncated, formatted)
	message := fmt.Sprintf("Query returned %d rows", result.RowCount)
	return successResult(summary, message, map[string]any{
		"summary":    result.Summary(),
		"connection": executor.ConnectionInfo(),
	}), nil
}

// CompleteWorkflowTool runs analysis, features and JMeter generation
// in one call.
func (t *Toolset) CompleteWorkflowTool() mcp.Tool {
	return mcp.NewTool("complete_workflow",
		mcp.WithDescription("Execute the full pipeline: spec analysis, Karate feature "+
			"generation, JMeter test plans and curl artifacts, saved under one output directory."),
		mcp.WithString("location",
			mcp.Required(),
			mcp.Description("URL or file path of the OpenAPI specification"),
		),
		mcp.WithString("output_dir",
			mcp.Description("Base output directory; empty for the managed default"),
		),
	)
}

// HandleCompleteWorkflow implements the complete_workflow tool.
func (t *Toolset) HandleCompleteWorkflow(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	location, err := request.RequireString("location")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	result, err := t.RunWorkflow(ctx, location, request.GetString("output_dir", ""))
	if err != nil {
		return errorResult("workflow failed", err), nil
	}

	summary := fmt.Sprintf(`[SUCCESS] Complete Workflow Executed!

Spec Analysis:
- API: %s v%s
- Endpoints Analyzed: %d

Feature Generation:
- Feature Files: %d
- Total Scenarios: %d

JMeter Generation:
- From Spec: %d requests
- From Features: %d requests

Output Directory: %s`,
		result.Analysis.Title, result.Analysis.Version, len(result.Analysis.Endpoints),
		len(result.Features.Features), result.Features.TotalScenarios,
		result.JMeterFromSpec.TotalRequests, result.JMeterFromFeatures.TotalRequests,
		result.OutputDir)
	return successResult(summary, "Complete workflow executed successfully", result), nil
}
