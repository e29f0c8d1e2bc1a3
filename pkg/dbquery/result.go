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
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// ColumnMetadata describes one result column.
type ColumnMetadata struct {
	Name     string `json:"name"`
	DataType string `json:"data_type"`
	Nullable bool   `json:"nullable"`
}

// QueryResult holds the rows and metadata of one execution.
type QueryResult struct {
	Rows          []map[string]any `json:"rows"`
	Columns       []ColumnMetadata `json:"columns"`
	RowCount      int              `json:"row_count"`
	ExecutionTime float64          `json:"execution_time"`
	Query         string           `json:"query"`
	Timestamp     time.Time        `json:"timestamp"`
	DatabaseType  string           `json:"database_type"`
	Truncated     bool             `json:"truncated"`
}

// Summary returns the execution metadata without row data.
func (r *QueryResult) Summary() map[string]any {
	preview := r.Query
	if len(preview) > 100 {
		preview = preview[:100] + "..."
	}
	return map[string]any{
		"row_count":              r.RowCount,
		"column_count":           len(r.Columns),
		"execution_time_seconds": math.Round(r.ExecutionTime*10000) / 10000,
		"timestamp":              r.Timestamp.Format(time.RFC3339),
		"database_type":          r.DatabaseType,
		"truncated":              r.Truncated,
		"query_preview":          preview,
	}
}

// Format renders the result in the requested output format. Unknown
// formats fall back to JSON.
func (r *QueryResult) Format(outputFormat string) (string, error) {
	switch outputFormat {
	case "csv":
		return r.toCSV()
	case "markdown":
		return r.toMarkdown(), nil
	case "table":
		return r.toTable(), nil
	default:
		return r.toJSON()
	}
}

func (r *QueryResult) toJSON() (string, error) {
	payload := map[string]any{
		"summary": r.Summary(),
		"columns": r.Columns,
		"rows":    r.Rows,
	}
	content, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode result: %w", err)
	}
	return string(content), nil
}

func (r *QueryResult) toCSV() (string, error) {
	if len(r.Rows) == 0 {
		return "", nil
	}
	var b strings.Builder
	writer := csv.NewWriter(&b)
	if err := writer.Write(r.columnNames()); err != nil {
		return "", fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, row := range r.Rows {
		if err := writer.Write(r.rowValues(row)); err != nil {
			return "", fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", fmt.Errorf("failed to flush CSV: %w", err)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func (r *QueryResult) toMarkdown() string {
	if len(r.Rows) == 0 {
		return "No results"
	}
	names := r.columnNames()
	separators := make([]string, len(names))
	for i := range separators {
		separators[i] = "---"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "| %s |\n", strings.Join(names, " | "))
	fmt.Fprintf(&b, "| %s |\n", strings.Join(separators, " | "))
	for _, row := range r.Rows {
		fmt.Fprintf(&b, "| %s |\n", strings.Join(r.rowValues(row), " | "))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (r *QueryResult) toTable() string {
	if len(r.Rows) == 0 {
		return "No results"
	}

	var b strings.Builder
	table := tablewriter.NewTable(&b,
		tablewriter.WithConfig(tablewriter.Config{
			Header: tw.CellConfig{
				Alignment: tw.CellAlignment{Global: tw.AlignLeft},
				Formatting: tw.CellFormatting{
					AutoFormat: tw.Off,
				},
			},
			Row: tw.CellConfig{
				Alignment: tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.Border{
				Left:   tw.Off,
				Right:  tw.Off,
				Top:    tw.Off,
				Bottom: tw.Off,
			},
			Settings: tw.Settings{
				Separators: tw.Separators{
					BetweenRows: tw.Off,
				},
			},
		}),
	)
	table.Header(r.columnNames())
	for _, row := range r.Rows {
		table.Append(r.rowValues(row))
	}
	table.Render()
	return b.String()
}

func (r *QueryResult) columnNames() []string {
	names := make([]string, len(r.Columns))
	for i, column := range r.Columns {
		names[i] = column.Name
	}
	return names
}

func (r *QueryResult) rowValues(row map[string]any) []string {
	values := make([]string, len(r.Columns))
	for i, column := range r.Columns {
		if value, ok := row[column.Name]; ok && value != nil {
			values[i] = fmt.Sprint(value)
		}
	}
	return values
}
