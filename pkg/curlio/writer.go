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
	"os"
	"path/filepath"
	"strings"
)

// RenderScript produces an executable shell script from the commands.
func RenderScript(commands []Command) (string, error) {
	if len(commands) == 0 {
		return "", errors.New("cannot render empty commands list")
	}

	separator := "# " + strings.Repeat("=", 70) + "\n\n"

	var b strings.Builder
	b.WriteString("#!/bin/bash\n\n")
	b.WriteString("# Generated cURL commands for API testing\n")
	b.WriteString("# Each command can be executed independently\n")
	fmt.Fprintf(&b, "# Total commands: %d\n\n", len(commands))
	b.WriteString(separator)

	for i, command := range commands {
		fmt.Fprintf(&b, "# Command %d: %s\n", i+1, command.Name)
		if command.Description != "" {
			fmt.Fprintf(&b, "# Description: %s\n", command.Description)
		}
		b.WriteString("# " + strings.Repeat("-", 70) + "\n")
		b.WriteString(command.CurlString(true))
		b.WriteString("\n\n")
		if i < len(commands)-1 {
			b.WriteString(separator)
		}
	}
	return b.String(), nil
}

// SaveScript writes the commands as a shell script.
func SaveScript(commands []Command, outputFile string) (string, error) {
	content, err := RenderScript(commands)
	if err != nil {
		return "", err
	}
	if err := ensureParentDir(outputFile); err != nil {
		return "", err
	}
	if err := os.WriteFile(outputFile, []byte(content), 0o755); err != nil {
		return "", fmt.Errorf("failed to write curl script: %w", err)
	}
	return filepath.Abs(outputFile)
}

// SaveCollection writes a Postman collection as importable JSON.
func SaveCollection(collection PostmanCollection, outputFile string) (string, error) {
	if len(collection.Item) == 0 {
		return "", errors.New("cannot save collection with no items")
	}
	content, err := json.MarshalIndent(collection, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode collection: %w", err)
	}
	if err := ensureParentDir(outputFile); err != nil {
		return "", err
	}
	if err := os.WriteFile(outputFile, content, 0o644); err != nil {
		return "", fmt.Errorf("failed to write collection: %w", err)
	}
	return filepath.Abs(outputFile)
}

func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}
