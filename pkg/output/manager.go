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

// Package output manages the on-disk layout of generated artifacts.
// Every tool run gets its own timestamped directory under a per-kind
// folder, so history is preserved and nothing is overwritten.
package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Kind identifies the tool that produced a run directory.
type Kind string

const (
	KindAnalysis      Kind = "swagger-analysis"
	KindFeatures      Kind = "features"
	KindJMeter        Kind = "jmeter"
	KindCurl          Kind = "curl"
	KindCurlParser    Kind = "curl-parser"
	KindKarateProject Kind = "karate-projects"
	KindWorkflow      Kind = "complete-workflows"
)

var knownKinds = map[Kind]bool{
	KindAnalysis:      true,
	KindFeatures:      true,
	KindJMeter:        true,
	KindCurl:          true,
	KindCurlParser:    true,
	KindKarateProject: true,
	KindWorkflow:      true,
}

// DefaultBaseDir is used when the caller does not pick a base directory.
const DefaultBaseDir = "./output"

var (
	invalidIdentifierChars = regexp.MustCompile(`[^a-z0-9\s_-]+`)
	identifierSeparators   = regexp.MustCompile(`[\s_]+`)
	repeatedDashes         = regexp.MustCompile(`-+`)
)

// Manager creates and inspects run directories under a base directory.
type Manager struct {
	baseDir string
	now     func() time.Time
}

// NewManager returns a manager rooted at baseDir. An empty baseDir
// falls back to DefaultBaseDir.
func NewManager(baseDir string) *Manager {
	if baseDir == "" {
		baseDir = DefaultBaseDir
	}
	return &Manager{baseDir: baseDir, now: time.Now}
}

// BaseDir returns the configured base directory.
func (m *Manager) BaseDir() string {
	return m.baseDir
}

// CreateRunDir creates <base>/<kind>/<timestamp>-<identifier>/ and
// returns its path.
func (m *Manager) CreateRunDir(kind Kind, identifier string) (string, error) {
	if !knownKinds[kind] {
		return "", fmt.Errorf("unknown output kind %q", kind)
	}
	name := fmt.Sprintf("%s-%s", m.now().Format("20060102_150405"), SanitizeIdentifier(identifier))
	dir := filepath.Join(m.baseDir, string(kind), name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	return dir, nil
}

// WorkflowDirs holds the subdirectories of one complete workflow run.
type WorkflowDirs struct {
	Base     string
	Analysis string
	Features string
	JMeter   string
	Curl     string
}

// CreateWorkflowDirs creates a workflow run directory with numbered
// stage subdirectories.
func (m *Manager) CreateWorkflowDirs(identifier string) (*WorkflowDirs, error) {
	base, err := m.CreateRunDir(KindWorkflow, identifier)
	if err != nil {
		return nil, err
	}
	dirs := &WorkflowDirs{
		Base:     base,
		Analysis: filepath.Join(base, "01-swagger-analysis"),
		Features: filepath.Join(base, "02-features"),
		JMeter:   filepath.Join(base, "03-jmeter"),
		Curl:     filepath.Join(base, "04-curl"),
	}
	for _, dir := range []string{dirs.Analysis, dirs.Features, dirs.JMeter, dirs.Curl} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create workflow directory: %w", err)
		}
	}
	return dirs, nil
}

// SaveMetadata writes metadata.json into a run directory. A timestamp
// and execution_id are filled in when absent.
func (m *Manager) SaveMetadata(dir string, metadata map[string]any) (string, error) {
	if metadata == nil {
		metadata = map[string]any{}
	}
	if _, ok := metadata["timestamp"]; !ok {
		metadata["timestamp"] = m.now().Format(time.RFC3339)
	}
	if _, ok := metadata["execution_id"]; !ok {
		metadata["execution_id"] = "exec-" + uuid.NewString()[:8]
	}
	content, err := json.MarshalIndent(metadata, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode metadata: %w", err)
	}
	path := filepath.Join(dir, "metadata.json")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", fmt.Errorf("failed to write metadata: %w", err)
	}
	return path, nil
}

// LatestRunDir returns the most recent run directory for a kind, or
// an empty string when none exists.
func (m *Manager) LatestRunDir(kind Kind) (string, error) {
	runs, err := m.ListRunDirs(kind, 1)
	if err != nil {
		return "", err
	}
	if len(runs) == 0 {
		return "", nil
	}
	return runs[0], nil
}

// ListRunDirs lists run directories for a kind, newest first. A limit
// of 0 means no limit.
func (m *Manager) ListRunDirs(kind Kind, limit int) ([]string, error) {
	if !knownKinds[kind] {
		return nil, fmt.Errorf("unknown output kind %q", kind)
	}
	kindDir := filepath.Join(m.baseDir, string(kind))
	entries, err := os.ReadDir(kindDir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read output directory: %w", err)
	}

	var runs []string
	for _, entry := range entries {
		if entry.IsDir() {
			runs = append(runs, filepath.Join(kindDir, entry.Name()))
		}
	}
	// Directory names start with the timestamp, so lexical order is
	// chronological order.
	sort.Sort(sort.Reverse(sort.StringSlice(runs)))
	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

// SanitizeIdentifier turns an arbitrary label into a safe directory
// name component.
func SanitizeIdentifier(identifier string) string {
	sanitized := strings.ToLower(identifier)
	sanitized = invalidIdentifierChars.ReplaceAllString(sanitized, "")
	sanitized = identifierSeparators.ReplaceAllString(sanitized, "-")
	sanitized = repeatedDashes.ReplaceAllString(sanitized, "-")
	if len(sanitized) > 50 {
		sanitized = sanitized[:50]
	}
	sanitized = strings.Trim(sanitized, "-")
	if sanitized == "" {
		return "output"
	}
	return sanitized
}

// CurlIdentifier derives a stable short identifier from a curl command.
func CurlIdentifier(command string) string {
	id := uuid.NewSHA1(uuid.NameSpaceURL, []byte(command)).String()
	return "curl-" + strings.ReplaceAll(id, "-", "")[:12]
}
