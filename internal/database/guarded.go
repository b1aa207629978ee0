package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/povarna/generative-ai-agents/recipe-agent/internal/guardrails"
	"github.com/rs/zerolog/log"
)

var ErrQueryRejected = errors.New("query rejected by guardrails")

// QueryResult holds the outcome of a guarded statement. For SELECT, Rows is
// capped at the requested maximum and Remaining counts the rows left out.
type QueryResult struct {
	Kind         guardrails.StatementKind
	Columns      []string
	Rows         [][]any
	Remaining    int
	AffectedRows int64
}

// Execute runs a statement the guardrail accepted. The rewritten query is
// what gets executed, never the caller's original text. maxRows <= 0 keeps
// every row.
func (db *DB) Execute(ctx context.Context, validated guardrails.SQLResult, maxRows int) (*QueryResult, error) {
	if !validated.Accepted {
		return nil, fmt.Errorf("%w: %s", ErrQueryRejected, validated.Reason)
	}

	if validated.Kind == guardrails.UpdateKind {
		return db.execUpdate(ctx, validated.Query)
	}
	return db.execSelect(ctx, validated.Query, maxRows)
}

func (db *DB) execSelect(ctx context.Context, query string, maxRows int) (*QueryResult, error) {
	rows, err := db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}

	defer rows.Close()

	result := &QueryResult{Kind: guardrails.SelectKind}
	for _, fd := range rows.FieldDescriptions() {
		result.Columns = append(result.Columns, fd.Name)
	}

	for rows.Next() {
		if maxRows > 0 && len(result.Rows) >= maxRows {
			result.Remaining++
			continue
		}

		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		result.Rows = append(result.Rows, values)
	}

	// Rows errors catch
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	log.Info().Int("rows", len(result.Rows)).Int("remaining", result.Remaining).Msg("SQL SELECT executed")
	return result, nil
}

func (db *DB) execUpdate(ctx context.Context, query string) (*QueryResult, error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	// no-op once committed
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("update failed: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit update: %w", err)
	}

	log.Info().Int64("affected_rows", tag.RowsAffected()).Msg("SQL UPDATE executed")
	return &QueryResult{Kind: guardrails.UpdateKind, AffectedRows: tag.RowsAffected()}, nil
}

// Records returns the rows as column-keyed maps.
func (r *QueryResult) Records() []map[string]any {
	records := make([]map[string]any, 0, len(r.Rows))
	for _, row := range r.Rows {
		rec := make(map[string]any, len(r.Columns))
		for i, col := range r.Columns {
			if i < len(row) {
				rec[col] = row[i]
			}
		}
		records = append(records, rec)
	}
	return records
}

// Table renders the rows as a pipe-separated text table with a trailing
// "... +N more rows" line when rows were left out.
func (r *QueryResult) Table() string {
	header := strings.Join(r.Columns, " | ")
	lines := []string{header, strings.Repeat("-", max(len(header), 40))}

	for _, row := range r.Rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = FormatValue(v)
		}
		lines = append(lines, strings.Join(cells, " | "))
	}

	if r.Remaining > 0 {
		lines = append(lines, fmt.Sprintf("... +%d more rows", r.Remaining))
	}

	return strings.Join(lines, "\n")
}

// FormatValue renders a single column value for text output.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case string:
		return val
	case []byte:
		return string(val)
	case time.Time:
		return val.Format(time.RFC3339)
	case map[string]any, []any:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		return string(b)
	default:
		return fmt.Sprintf("%v", val)
	}
}
