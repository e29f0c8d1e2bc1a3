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
	"context"
	"fmt"
	"log"

	"github.com/urfave/cli/v3"

	"github.com/apitestgen/apitestgen/pkg/server"
)

// runServe starts the MCP server with CLI flags layered over the file
// configuration.
func runServe(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if transport := cmd.String("transport"); transport != "" {
		cfg.Server.Transport = transport
	}
	if port := cmd.String("port"); port != "" {
		cfg.Server.Port = port
	}
	if outputDir := cmd.String("output-dir"); outputDir != "" {
		cfg.Output.BaseDir = outputDir
	}
	return server.New(cfg).Start()
}

// runGenerate executes the complete workflow directly, for use from
// shells and CI where no MCP client is involved.
func runGenerate(ctx context.Context, cmd *cli.Command) error {
	location := cmd.Args().First()
	if location == "" {
		return fmt.Errorf("missing spec location, usage: apitestgen generate <spec URL or file path>")
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	toolset := server.NewToolset(cfg)
	result, err := toolset.RunWorkflow(ctx, location, cmd.String("output-dir"))
	if err != nil {
		return err
	}

	log.Printf("Analyzed %s v%s: %d endpoints",
		result.Analysis.Title, result.Analysis.Version, len(result.Analysis.Endpoints))
	log.Printf("Generated %d feature files with %d scenarios",
		len(result.Features.Features), result.Features.TotalScenarios)
	log.Printf("Generated JMeter plans: %d requests from spec, %d from features",
		result.JMeterFromSpec.TotalRequests, result.JMeterFromFeatures.TotalRequests)
	log.Printf("Generated %d curl commands", result.Curl.TotalCommands)
	log.Printf("Artifacts saved to %s", result.OutputDir)
	return nil
}

// runInit writes a default config file for editing.
func runInit(ctx context.Context, cmd *cli.Command) error {
	return SaveConfigFile(cmd.String("path"))
}
