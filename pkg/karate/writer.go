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
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	invalidFilenameChars = regexp.MustCompile(`[<>:"/\\|?*]`)
	whitespace           = regexp.MustCompile(`\s+`)
)

// Render produces the textual .feature content for a feature.
func Render(feature Feature) string {
	var b strings.Builder

	if len(feature.Tags) > 0 {
		b.WriteString("@" + strings.Join(feature.Tags, " @") + "\n")
	}
	fmt.Fprintf(&b, "Feature: %s\n", feature.Name)
	if feature.Description != "" {
		fmt.Fprintf(&b, "\n  %s\n", feature.Description)
	}
	b.WriteString("\n")

	if len(feature.BackgroundSteps) > 0 {
		b.WriteString("  Background:\n")
		for _, step := range feature.BackgroundSteps {
			fmt.Fprintf(&b, "    * %s\n", step)
		}
		b.WriteString("\n")
	}

	for _, scenario := range feature.Scenarios {
		if scenario.Description != "" {
			fmt.Fprintf(&b, "  # %s\n", scenario.Description)
		}
		fmt.Fprintf(&b, "  Scenario: %s\n", scenario.Name)
		for _, step := range scenario.Steps {
			fmt.Fprintf(&b, "    * %s\n", step)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// FileName derives the on-disk name for a feature.
func FileName(feature Feature) string {
	name := invalidFilenameChars.ReplaceAllString(feature.Name, "_")
	name = whitespace.ReplaceAllString(name, "_")
	return strings.ToLower(name) + ".feature"
}

// Save writes each feature into outputDir and returns the written paths.
func Save(features []Feature, outputDir string) ([]string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	var saved []string
	for _, feature := range features {
		path := filepath.Join(outputDir, FileName(feature))
		if err := os.WriteFile(path, []byte(Render(feature)), 0o644); err != nil {
			return nil, fmt.Errorf("failed to write feature file %s: %w", path, err)
		}
		saved = append(saved, path)
	}
	return saved, nil
}
