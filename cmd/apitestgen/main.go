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

package main

import (
	"context"
	"log"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/apitestgen/apitestgen/internal"
	"github.com/apitestgen/apitestgen/pkg/config"
)

// version is set by build flags during release
var version = "dev"

func main() {
	if err := config.LoadEnv(); err != nil {
		log.Fatal(err)
	}

	app := &cli.Command{
		Name:     "apitestgen",
		Usage:    "Generate API test suites from OpenAPI specs, over MCP or directly.",
		Version:  version,
		Commands: internal.Commands(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
