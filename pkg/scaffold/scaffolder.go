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

package scaffold

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"

	"github.com/apitestgen/apitestgen/pkg/karate"
	"github.com/apitestgen/apitestgen/pkg/openapi"
)

// Scaffolder writes complete Maven Karate projects to disk.
type Scaffolder struct{}

// NewScaffolder creates a Scaffolder.
func NewScaffolder() *Scaffolder {
	return &Scaffolder{}
}

const (
	runnersPackage = "com.automation.runners"
	hooksPackage   = "com.automation.hooks"
	configPackage  = "com.automation.config"
	utilsPackage   = "com.automation.utils"
)

// Generate creates a full project for the given analysis and features
// under dir.
func (s *Scaffolder) Generate(analysis *openapi.Analysis, features []karate.Feature, dir string, opts Options) (*Project, error) {
	if len(features) == 0 {
		return nil, fmt.Errorf("no features to scaffold")
	}

	maven := defaultMavenConfig()
	if opts.ArtifactID != "" {
		maven.ArtifactID = opts.ArtifactID
	}
	if opts.Name != "" {
		maven.Name = opts.Name
	} else if analysis != nil && analysis.Title != "" {
		maven.Name = analysis.Title
		maven.Description = fmt.Sprintf("Automated tests for %s", analysis.Title)
	}

	baseURL := "http://localhost:8080"
	if analysis != nil && analysis.BaseURL() != "" {
		baseURL = analysis.BaseURL()
	}
	environments := buildEnvironments(baseURL, opts.Environments)

	project := &Project{
		Dir:        dir,
		ArtifactID: maven.ArtifactID,
		BaseURL:    baseURL,
		Features:   len(features),
		Maven:      maven,
		EnvConfig:  environments,
	}

	if err := s.createLayout(dir); err != nil {
		return nil, err
	}
	if err := s.writeTemplate(project, filepath.Join(dir, "pom.xml"), pomTemplate, maven); err != nil {
		return nil, err
	}
	if err := s.writeRunners(project, features, opts); err != nil {
		return nil, err
	}
	if err := s.writeSupportClasses(project); err != nil {
		return nil, err
	}
	if err := s.writeFeatures(project, features); err != nil {
		return nil, err
	}
	if err := s.writeResources(project, baseURL, environments, opts); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *Scaffolder) createLayout(dir string) error {
	layout := []string{
		filepath.Join("src", "main", "java"),
		filepath.Join("src", "main", "resources"),
		filepath.Join("src", "test", "java", "com", "automation", "runners"),
		filepath.Join("src", "test", "java", "com", "automation", "hooks"),
		filepath.Join("src", "test", "java", "com", "automation", "config"),
		filepath.Join("src", "test", "java", "com", "automation", "utils"),
		filepath.Join("src", "test", "resources", "features"),
		filepath.Join("src", "test", "resources", "data", "schemas"),
		filepath.Join("src", "test", "resources", "config"),
	}
	for _, sub := range layout {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			return fmt.Errorf("failed to create project layout: %w", err)
		}
	}
	return nil
}

func (s *Scaffolder) writeRunners(project *Project, features []karate.Feature, opts Options) error {
	runnersDir := javaDir(project.Dir, runnersPackage)
	totalScenarios := 0

	for _, feature := range features {
		totalScenarios += len(feature.Scenarios)
		className := toClassName(feature.Name) + "Test"
		data := struct {
			Package     string
			ClassName   string
			FeaturePath string
			TagsArg     string
		}{
			Package:     runnersPackage,
			ClassName:   className,
			FeaturePath: "features/" + toSnakeCase(feature.Name) + ".feature",
			TagsArg:     tagsArgument(feature.Tags),
		}
		path := filepath.Join(runnersDir, className+".java")
		if err := s.writeTemplate(project, path, testRunnerTemplate, data); err != nil {
			return err
		}
		project.TestRunners++
		project.JavaClasses++
	}

	if totalScenarios > 1 {
		threads := opts.Threads
		if threads <= 0 {
			threads = 5
		}
		data := struct {
			Package string
			Threads int
		}{Package: runnersPackage, Threads: threads}
		path := filepath.Join(runnersDir, "ParallelTestRunner.java")
		if err := s.writeTemplate(project, path, parallelRunnerTemplate, data); err != nil {
			return err
		}
		project.TestRunners++
		project.JavaClasses++
	}
	return nil
}

func (s *Scaffolder) writeSupportClasses(project *Project) error {
	classes := []struct {
		pkg      string
		name     string
		template *template.Template
	}{
		{hooksPackage, "TestHooks", testHooksTemplate},
		{configPackage, "TestConfig", testConfigTemplate},
		{utilsPackage, "ApiHelper", apiHelperTemplate},
		{utilsPackage, "DataGenerator", dataGeneratorTemplate},
	}
	for _, class := range classes {
		data := struct{ Package string }{Package: class.pkg}
		path := filepath.Join(javaDir(project.Dir, class.pkg), class.name+".java")
		if err := s.writeTemplate(project, path, class.template, data); err != nil {
			return err
		}
		project.JavaClasses++
	}
	return nil
}

func (s *Scaffolder) writeFeatures(project *Project, features []karate.Feature) error {
	featuresDir := filepath.Join(project.Dir, "src", "test", "resources", "features")
	for _, feature := range features {
		path := filepath.Join(featuresDir, toSnakeCase(feature.Name)+".feature")
		if err := s.writeFile(project, path, karate.Render(feature)); err != nil {
			return err
		}
	}
	return nil
}

type envEntry struct {
	Name       string
	Properties []envProperty
}

type envProperty struct {
	Key   string
	Value string
}

func (s *Scaffolder) writeResources(project *Project, baseURL string, environments map[string]map[string]string, opts Options) error {
	resourcesDir := filepath.Join(project.Dir, "src", "test", "resources")

	timeout := opts.TimeoutMillis
	if timeout <= 0 {
		timeout = 30000
	}
	data := struct {
		BaseURL       string
		TimeoutMillis int
		RetryCount    int
		Environments  []envEntry
	}{
		BaseURL:       baseURL,
		TimeoutMillis: timeout,
		Environments:  orderedEnvironments(environments),
	}
	if err := s.writeTemplate(project, filepath.Join(resourcesDir, "karate-config.js"), karateConfigTemplate, data); err != nil {
		return err
	}
	if err := s.writeFile(project, filepath.Join(resourcesDir, "logback-test.xml"), logbackXML); err != nil {
		return err
	}

	for _, env := range data.Environments {
		var b strings.Builder
		for _, property := range env.Properties {
			fmt.Fprintf(&b, "%s=%s\n", property.Key, property.Value)
		}
		path := filepath.Join(resourcesDir, "config", env.Name+".properties")
		if err := s.writeFile(project, path, b.String()); err != nil {
			return err
		}
		project.Environments = append(project.Environments, env.Name)
	}

	readmeData := struct {
		Name     string
		BaseURL  string
		Features int
	}{Name: project.Maven.Name, BaseURL: baseURL, Features: project.Features}
	if err := s.writeTemplate(project, filepath.Join(project.Dir, "README.md"), readmeTemplate, readmeData); err != nil {
		return err
	}
	return s.writeFile(project, filepath.Join(project.Dir, ".gitignore"), gitignoreContent)
}

func (s *Scaffolder) writeTemplate(project *Project, path string, tmpl *template.Template, data any) error {
	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return fmt.Errorf("failed to render %s: %w", filepath.Base(path), err)
	}
	return s.writeFile(project, path, b.String())
}

func (s *Scaffolder) writeFile(project *Project, path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	project.Files = append(project.Files, path)
	return nil
}

// buildEnvironments returns the default dev/qa/prod set merged with
// any caller-provided environments.
func buildEnvironments(baseURL string, extra map[string]map[string]string) map[string]map[string]string {
	environments := map[string]map[string]string{
		"dev":  {"baseUrl": "http://localhost:8080"},
		"qa":   {"baseUrl": baseURL},
		"prod": {"baseUrl": baseURL},
	}
	for name, properties := range extra {
		environments[name] = properties
	}
	return environments
}

// orderedEnvironments puts the standard environments first, then the
// rest alphabetically, with sorted property keys.
func orderedEnvironments(environments map[string]map[string]string) []envEntry {
	var names []string
	for _, standard := range []string{"dev", "qa", "prod"} {
		if _, ok := environments[standard]; ok {
			names = append(names, standard)
		}
	}
	var rest []string
	for name := range environments {
		if name != "dev" && name != "qa" && name != "prod" {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	names = append(names, rest...)

	entries := make([]envEntry, 0, len(names))
	for _, name := range names {
		properties := environments[name]
		keys := make([]string, 0, len(properties))
		for key := range properties {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		entry := envEntry{Name: name}
		for _, key := range keys {
			entry.Properties = append(entry.Properties, envProperty{Key: key, Value: properties[key]})
		}
		entries = append(entries, entry)
	}
	return entries
}

func javaDir(dir, javaPackage string) string {
	parts := append([]string{dir, "src", "test", "java"}, strings.Split(javaPackage, ".")...)
	return filepath.Join(parts...)
}

func tagsArgument(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	prefixed := make([]string, len(tags))
	for i, tag := range tags {
		prefixed[i] = "@" + tag
	}
	return strings.Join(prefixed, ", ")
}
