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

package internal

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/apitestgen/apitestgen/pkg/config"
)

// configFileDoc mirrors config.Config with JSON tags matching the
// koanf keys, so the written file loads back unchanged.
type configFileDoc struct {
	Server struct {
		Name      string `json:"name"`
		Version   string `json:"version"`
		Transport string `json:"transport"`
		Port      string `json:"port"`
	} `json:"server"`
	Output struct {
		BaseDir string `json:"base_dir"`
	} `json:"output"`
	Database struct {
		QueryTimeoutSeconds int `json:"query_timeout_seconds"`
		MaxRows             int `json:"max_rows"`
	} `json:"database"`
}

// SaveConfigFile writes the default configuration as JSON to the given
// path, creating parent directories as needed.
func SaveConfigFile(filename string) error {
	if filename == "" {
		filename = "apitestgen.json"
	}
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	defaults := config.DefaultConfig()
	var doc configFileDoc
	doc.Server.Name = defaults.Server.Name
	doc.Server.Version = defaults.Server.Version
	doc.Server.Transport = defaults.Server.Transport
	doc.Server.Port = defaults.Server.Port
	doc.Output.BaseDir = defaults.Output.BaseDir
	doc.Database.QueryTimeoutSeconds = defaults.Database.QueryTimeoutSeconds
	doc.Database.MaxRows = defaults.Database.MaxRows

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.Printf("Failed to close config file: %v", err)
		}
	}()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if absPath, err := filepath.Abs(filename); err == nil {
		log.Printf("Config written to %s", absPath)
	} else {
		log.Printf("Config written to %s", filename)
	}
	return nil
}
