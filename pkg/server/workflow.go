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
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/apitestgen/apitestgen/pkg/curlio"
	"github.com/apitestgen/apitestgen/pkg/jmeter"
	"github.com/apitestgen/apitestgen/pkg/karate"
	"github.com/apitestgen/apitestgen/pkg/openapi"
	"github.com/apitestgen/apitestgen/pkg/output"
)

// jmeterResult pairs a generated plan with the identifier used for
// managed output directories.
type jmeterResult struct {
	*jmeter.Result
	identifier string
}

func saveJMX(r *jmeterResult, path string) error {
	return jmeter.Save(r.Result, path)
}

// WorkflowResult aggregates the artifacts of one complete pipeline run.
type WorkflowResult struct {
	Analysis           *openapi.Analysis `json:"analysis"`
	Features           *karate.Result    `json:"features"`
	JMeterFromSpec     *jmeter.Result    `json:"jmeter_from_spec"`
	JMeterFromFeatures *jmeter.Result    `json:"jmeter_from_features"`
	Curl               *curlio.Result    `json:"curl"`
	OutputDir          string            `json:"output_dir"`
	SavedFiles         []string          `json:"saved_files"`
}

// RunWorkflow executes the full pipeline: analyze the spec, generate
// features, build JMeter plans from both the spec and the features,
// render curl artifacts, and persist everything under one workflow
// directory with stage subdirectories.
func (t *Toolset) RunWorkflow(ctx context.Context, location, outputDir string) (*WorkflowResult, error) {
	analysis, err := t.analyzer.AnalyzeLocation(location)
	if err != nil {
		return nil, fmt.Errorf("spec analysis failed: %w", err)
	}

	outputs := t.outputs
	if outputDir != "" && outputDir != "./output" && outputDir != "output" {
		outputs = output.NewManager(outputDir)
	}
	dirs, err := outputs.CreateWorkflowDirs(analysis.Title)
	if err != nil {
		return nil, fmt.Errorf("failed to create workflow directories: %w", err)
	}

	result := &WorkflowResult{Analysis: analysis, OutputDir: dirs.Base}

	analysisPath := filepath.Join(dirs.Analysis, "analysis.json")
	content, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode analysis: %w", err)
	}
	if err := os.WriteFile(analysisPath, content, 0o644); err != nil {
		return nil, fmt.Errorf("failed to save analysis: %w", err)
	}
	result.SavedFiles = append(result.SavedFiles, analysisPath)

	result.Features = t.features.Generate(analysis)
	featureFiles, err := karate.Save(result.Features.Features, dirs.Features)
	if err != nil {
		return nil, fmt.Errorf("failed to save feature files: %w", err)
	}
	result.SavedFiles = append(result.SavedFiles, featureFiles...)

	result.JMeterFromSpec, err = t.jmeter.FromAnalysis(analysis)
	if err != nil {
		return nil, fmt.Errorf("jmeter generation from spec failed: %w", err)
	}
	specPlan := filepath.Join(dirs.JMeter, "test_plan_from_spec.jmx")
	if err := jmeter.Save(result.JMeterFromSpec, specPlan); err != nil {
		return nil, fmt.Errorf("failed to save spec test plan: %w", err)
	}
	result.SavedFiles = append(result.SavedFiles, specPlan)

	result.JMeterFromFeatures, err = t.jmeter.FromFeatures(result.Features)
	if err != nil {
		return nil, fmt.Errorf("jmeter generation from features failed: %w", err)
	}
	featurePlan := filepath.Join(dirs.JMeter, "test_plan_from_features.jmx")
	if err := jmeter.Save(result.JMeterFromFeatures, featurePlan); err != nil {
		return nil, fmt.Errorf("failed to save feature test plan: %w", err)
	}
	result.SavedFiles = append(result.SavedFiles, featurePlan)

	result.Curl = t.curl.Generate(analysis)
	scriptPath, err := curlio.SaveScript(result.Curl.Commands, filepath.Join(dirs.Curl, "curl_commands.sh"))
	if err != nil {
		return nil, fmt.Errorf("failed to save curl script: %w", err)
	}
	collectionPath, err := curlio.SaveCollection(result.Curl.Collection, filepath.Join(dirs.Curl, "postman_collection.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to save Postman collection: %w", err)
	}
	result.SavedFiles = append(result.SavedFiles, scriptPath, collectionPath)

	if _, err := outputs.SaveMetadata(dirs.Base, map[string]any{
		"api_title":     analysis.Title,
		"api_version":   analysis.Version,
		"endpoints":     len(analysis.Endpoints),
		"feature_files": len(result.Features.Features),
		"scenarios":     result.Features.TotalScenarios,
	}); err != nil {
		return nil, fmt.Errorf("failed to save workflow metadata: %w", err)
	}

	return result, nil
}
