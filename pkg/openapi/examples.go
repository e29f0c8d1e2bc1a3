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

package openapi

import "strings"

// ExampleValue returns a plausible literal for a parameter or field,
// chosen from its schema type, format, and name. Generated scenarios
// and scripts use these so they run without manual edits.
func ExampleValue(typeName, format, name string) string {
	lowerName := strings.ToLower(name)

	switch format {
	case "email":
		return "test@example.com"
	case "uuid":
		return "123e4567-e89b-12d3-a456-426614174000"
	case "date":
		return "2023-12-01"
	case "date-time":
		return "2023-12-01T10:00:00Z"
	}

	switch {
	case strings.Contains(lowerName, "email"):
		return "test@example.com"
	case strings.Contains(lowerName, "phone"):
		return "+1234567890"
	case strings.Contains(lowerName, "uuid"), strings.Contains(lowerName, "guid"):
		return "123e4567-e89b-12d3-a456-426614174000"
	}

	switch typeName {
	case "integer":
		return "123"
	case "number":
		return "123.45"
	case "boolean":
		return "true"
	case "array":
		return "[]"
	}
	return "example_value"
}

// ExampleForParameter is ExampleValue applied to a Parameter.
func ExampleForParameter(p Parameter) string {
	return ExampleValue(p.Type, p.Format, p.Name)
}

// ExampleForField is ExampleValue applied to a body Field.
func ExampleForField(f Field) string {
	return ExampleValue(f.Type, f.Format, f.Name)
}
