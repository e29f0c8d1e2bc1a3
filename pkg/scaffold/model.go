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

// Package scaffold generates runnable Maven projects around Karate
// feature files: pom.xml, JUnit5 runners, hooks, helper classes and
// environment configuration.
package scaffold

import "strings"

// MavenConfig describes the generated pom.xml.
type MavenConfig struct {
	GroupID       string
	ArtifactID    string
	Version       string
	Name          string
	Description   string
	JavaVersion   string
	KarateVersion string
	JUnitVersion  string
}

// Dependency is one Maven dependency entry.
type Dependency struct {
	GroupID    string
	ArtifactID string
	Version    string
	Scope      string
}

// Dependencies returns the dependency list rendered into pom.xml.
func (m MavenConfig) Dependencies() []Dependency {
	return []Dependency{
		{GroupID: "com.intuit.karate", ArtifactID: "karate-junit5", Version: m.KarateVersion, Scope: "test"},
		{GroupID: "org.junit.jupiter", ArtifactID: "junit-jupiter-api", Version: m.JUnitVersion, Scope: "test"},
	}
}

// Options control project generation. Zero values use the defaults.
type Options struct {
	ArtifactID    string
	Name          string
	Description   string
	TimeoutMillis int
	Threads       int
	Environments  map[string]map[string]string
}

func defaultMavenConfig() MavenConfig {
	return MavenConfig{
		GroupID:       "com.automation",
		ArtifactID:    "karate-tests",
		Version:       "1.0.0",
		Name:          "Karate API Tests",
		Description:   "Automated API tests using Karate framework",
		JavaVersion:   "11",
		KarateVersion: "1.4.1",
		JUnitVersion:  "5.9.3",
	}
}

// Project summarizes one generated project.
type Project struct {
	Dir          string                       `json:"project_dir"`
	ArtifactID   string                       `json:"project_name"`
	BaseURL      string                       `json:"base_url"`
	JavaClasses  int                          `json:"total_java_classes"`
	Features     int                          `json:"total_features"`
	TestRunners  int                          `json:"test_runners"`
	Environments []string                     `json:"environments"`
	Files        []string                     `json:"files"`
	Maven        MavenConfig                  `json:"-"`
	EnvConfig    map[string]map[string]string `json:"-"`
}

// toClassName converts a feature name to a Java class name.
func toClassName(name string) string {
	cleaned := strings.NewReplacer("-", " ", "_", " ").Replace(name)
	var b strings.Builder
	for _, word := range strings.Fields(cleaned) {
		b.WriteString(strings.ToUpper(word[:1]))
		if len(word) > 1 {
			b.WriteString(strings.ToLower(word[1:]))
		}
	}
	return b.String()
}

// toSnakeCase converts a feature name to a feature file base name.
func toSnakeCase(name string) string {
	replaced := strings.NewReplacer(" ", "_", "-", "_").Replace(name)
	return strings.ToLower(replaced)
}
