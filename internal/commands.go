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

// Package internal wires the CLI commands to the server and the
// generation pipeline.
package internal

import (
	"github.com/urfave/cli/v3"

	"github.com/apitestgen/apitestgen/pkg/config"
)

// configFlag returns a fresh flag instance per command, flag values
// are stateful across parses.
func configFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to a config file; standard locations are tried when unset.",
	}
}

// Commands returns all CLI commands.
func Commands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "serve",
			Usage: "Start the MCP server exposing the test generation tools.",
			Flags: []cli.Flag{
				configFlag(),
				&cli.StringFlag{
					Name:    "transport",
					Aliases: []string{"t"},
					Usage:   "Transport protocol for the MCP server, stdio or http.",
				},
				&cli.StringFlag{
					Name:  "port",
					Usage: "Port for the HTTP transport, ignored for stdio.",
				},
				&cli.StringFlag{
					Name:    "output-dir",
					Aliases: []string{"o"},
					Usage:   "Base directory for generated artifacts.",
				},
			},
			Action: runServe,
		},
		{
			Name:      "generate",
			Usage:     "Run the full pipeline against an OpenAPI spec without an MCP client.",
			ArgsUsage: "<spec URL or file path>",
			Flags: []cli.Flag{
				configFlag(),
				&cli.StringFlag{
					Name:    "output-dir",
					Aliases: []string{"o"},
					Usage:   "Base directory for the workflow output.",
				},
			},
			Action: runGenerate,
		},
		{
			Name:  "init",
			Usage: "Write a config file with the default settings.",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "path",
					Value: "apitestgen.json",
					Usage: "Where to write the config file.",
				},
			},
			Action: runInit,
		},
	}
}

// loadConfig resolves the effective configuration for a command. An
// explicit --config path must parse; otherwise standard locations are
// tried with a fallback to defaults.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	if path := cmd.String("config"); path != "" {
		return config.Load(path)
	}
	return config.LoadOrDefault(), nil
}
