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

package dbquery

import (
	"fmt"
	"regexp"
	"strings"
)

var writeOperations = map[string]bool{
	"INSERT": true, "UPDATE": true, "DELETE": true, "DROP": true,
	"TRUNCATE": true, "ALTER": true, "CREATE": true, "GRANT": true,
	"REVOKE": true, "MERGE": true, "REPLACE": true, "RENAME": true,
	"COMMENT": true, "VACUUM": true,
}

var readOperations = map[string]bool{
	"SELECT": true, "WITH": true, "SHOW": true, "EXPLAIN": true, "DESCRIBE": true,
}

var (
	lineCommentPattern  = regexp.MustCompile(`--[^\n]*`)
	blockCommentPattern = regexp.MustCompile(`(?s)/\*.*?\*/`)
	operationPattern    = buildOperationPattern()
)

func buildOperationPattern() *regexp.Regexp {
	keywords := make([]string, 0, len(writeOperations)+len(readOperations))
	for op := range writeOperations {
		keywords = append(keywords, op)
	}
	for op := range readOperations {
		keywords = append(keywords, op)
	}
	return regexp.MustCompile(`\b(` + strings.Join(keywords, "|") + `)\b`)
}

// ValidationResult reports whether a query is safe to execute.
type ValidationResult struct {
	IsValid            bool     `json:"is_valid"`
	IsReadOnly         bool     `json:"is_read_only"`
	Errors             []string `json:"errors"`
	Warnings           []string `json:"warnings"`
	DetectedOperations []string `json:"detected_operations"`
}

// ValidateQuery checks a SQL query for write operations and dangerous
// patterns. Only clearly read-only statements pass.
func ValidateQuery(query string) ValidationResult {
	result := ValidationResult{}

	if strings.TrimSpace(query) == "" {
		result.Errors = append(result.Errors, "Query cannot be empty")
		return result
	}

	normalized := normalizeQuery(query)
	result.DetectedOperations = extractOperations(normalized)

	var writesFound []string
	var readsFound bool
	for _, op := range result.DetectedOperations {
		if writeOperations[op] {
			writesFound = append(writesFound, op)
		}
		if readOperations[op] {
			readsFound = true
		}
	}
	if len(writesFound) > 0 {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Write operations not allowed: %s", strings.Join(writesFound, ", ")))
	}

	dangerous := dangerousPatterns(normalized)
	if len(dangerous) > 0 {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Dangerous patterns detected: %s", strings.Join(dangerous, ", ")))
	}

	if strings.Contains(normalized, ";") {
		result.Warnings = append(result.Warnings,
			"Multiple statements detected. Only the first statement will be executed.")
	}
	if len(normalized) > 10000 {
		result.Warnings = append(result.Warnings, "Query is very long. Consider simplifying.")
	}

	result.IsReadOnly = readsFound && len(writesFound) == 0 && len(dangerous) == 0
	result.IsValid = len(result.Errors) == 0
	return result
}

// normalizeQuery strips comments and uppercases for analysis.
func normalizeQuery(query string) string {
	query = lineCommentPattern.ReplaceAllString(query, "")
	query = blockCommentPattern.ReplaceAllString(query, "")
	return strings.ToUpper(strings.TrimSpace(query))
}

// extractOperations returns the distinct SQL keywords found, in order
// of first appearance.
func extractOperations(normalized string) []string {
	var operations []string
	seen := make(map[string]bool)
	for _, match := range operationPattern.FindAllString(normalized, -1) {
		if !seen[match] {
			seen[match] = true
			operations = append(operations, match)
		}
	}
	return operations
}

func dangerousPatterns(normalized string) []string {
	var dangerous []string
	if strings.Count(normalized, ";") > 1 {
		dangerous = append(dangerous, "multiple_statements")
	}
	if strings.Contains(normalized, " INTO ") && strings.Contains(normalized, "SELECT") {
		dangerous = append(dangerous, "select_into")
	}
	for _, keyword := range []string{"EXEC ", "EXECUTE ", "CALL "} {
		if strings.Contains(normalized, keyword) {
			dangerous = append(dangerous, "procedure_execution")
			break
		}
	}
	return dangerous
}

// addLimit appends a LIMIT clause when the query does not have one.
func addLimit(query string, limit int) string {
	if strings.Contains(strings.ToUpper(query), "LIMIT") {
		return query
	}
	return fmt.Sprintf("%s LIMIT %d", strings.TrimRight(strings.TrimSpace(query), ";"), limit)
}
