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

// Package karate generates Karate DSL feature files from API analyses.
package karate

// Feature is a single .feature file: grouped scenarios sharing a
// background.
type Feature struct {
	Name            string     `json:"feature_name"`
	Description     string     `json:"description,omitempty"`
	Tags            []string   `json:"tags,omitempty"`
	BackgroundSteps []string   `json:"background_steps,omitempty"`
	Scenarios       []Scenario `json:"scenarios"`
}

// Scenario is one test case. Steps are rendered in order with the
// Karate '*' prefix.
type Scenario struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Steps       []string `json:"steps"`
}

// Result is the outcome of generating features for one analysis.
type Result struct {
	Features       []Feature `json:"features"`
	BaseURL        string    `json:"base_url"`
	TotalScenarios int       `json:"total_scenarios"`
}
