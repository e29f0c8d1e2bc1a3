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
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
)

// QueryOptions bound a single query execution.
type QueryOptions struct {
	Timeout time.Duration
	MaxRows int
}

// DefaultOptions mirror the tool-level defaults.
func DefaultOptions() QueryOptions {
	return QueryOptions{Timeout: 30 * time.Second, MaxRows: 1000}
}

// Executor runs read-only queries against one resolved connection.
type Executor struct {
	db       *sql.DB
	resolved ResolvedConnection
}

// NewExecutor opens a database handle for the resolved connection.
// Only postgres connections are executable; other types resolve but
// have no executor.
func NewExecutor(resolved ResolvedConnection) (*Executor, error) {
	dsn := resolved.ConnectionString
	if dsn == "" {
		if !strings.EqualFold(resolved.DBType, "postgres") {
			return nil, fmt.Errorf("no query executor available for database type %q", resolved.DBType)
		}
		dsn = fmt.Sprintf("host=%s port=%d dbname=%s user=%s password=%s sslmode=disable",
			resolved.Host, resolved.Port, resolved.Database, resolved.Username, resolved.Password)
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(1)
	return &Executor{db: db, resolved: resolved}, nil
}

// Ping verifies the connection is usable.
func (e *Executor) Ping(ctx context.Context) error {
	if err := e.db.PingContext(ctx); err != nil {
		return fmt.Errorf("connection test failed: %w", err)
	}
	return nil
}

// Close releases the underlying handle.
func (e *Executor) Close() error {
	return e.db.Close()
}

// ConnectionInfo returns safe connection details for responses.
func (e *Executor) ConnectionInfo() map[string]any {
	host, database, username := e.resolved.Host, e.resolved.Database, e.resolved.Username
	if e.resolved.FromString {
		host, database, username = "from_connection_string", "from_connection_string", "from_connection_string"
	}
	return map[string]any{
		"database_type": e.resolved.DBType,
		"host":          host,
		"port":          e.resolved.Port,
		"database":      database,
		"username":      username,
	}
}

// Execute validates and runs a read-only query. One extra row beyond
// MaxRows is fetched to detect truncation.
func (e *Executor) Execute(ctx context.Context, query string, opts QueryOptions) (*QueryResult, error) {
	validation := ValidateQuery(query)
	if !validation.IsValid || !validation.IsReadOnly {
		return nil, fmt.Errorf("query validation failed: %s", strings.Join(validation.Errors, "; "))
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultOptions().Timeout
	}
	if opts.MaxRows <= 0 {
		opts.MaxRows = DefaultOptions().MaxRows
	}

	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	start := time.Now()
	rows, err := e.db.QueryContext(ctx, addLimit(query, opts.MaxRows+1))
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("query exceeded timeout of %s", opts.Timeout)
		}
		return nil, fmt.Errorf("query execution failed: %w", err)
	}
	defer rows.Close()

	columnNames, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}
	columnTypes, err := rows.ColumnTypes()
	if err != nil {
		return nil, fmt.Errorf("failed to read column types: %w", err)
	}

	columns := make([]ColumnMetadata, len(columnNames))
	for i, name := range columnNames {
		meta := ColumnMetadata{Name: name, Nullable: true}
		if columnTypes[i] != nil {
			meta.DataType = strings.ToLower(columnTypes[i].DatabaseTypeName())
			if nullable, ok := columnTypes[i].Nullable(); ok {
				meta.Nullable = nullable
			}
		}
		columns[i] = meta
	}

	var result []map[string]any
	truncated := false
	for rows.Next() {
		if len(result) == opts.MaxRows {
			truncated = true
			break
		}
		values := make([]any, len(columnNames))
		pointers := make([]any, len(columnNames))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err := rows.Scan(pointers...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		row := make(map[string]any, len(columnNames))
		for i, name := range columnNames {
			row[name] = normalizeValue(values[i])
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("query exceeded timeout of %s", opts.Timeout)
		}
		return nil, fmt.Errorf("query execution failed: %w", err)
	}

	return &QueryResult{
		Rows:          result,
		Columns:       columns,
		RowCount:      len(result),
		ExecutionTime: time.Since(start).Seconds(),
		Query:         query,
		Timestamp:     start,
		DatabaseType:  e.resolved.DBType,
		Truncated:     truncated,
	}, nil
}

// normalizeValue converts driver byte slices to strings so results
// serialize cleanly.
func normalizeValue(value any) any {
	if b, ok := value.([]byte); ok {
		return string(b)
	}
	return value
}
