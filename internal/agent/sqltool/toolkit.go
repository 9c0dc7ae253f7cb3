package sqltool

import (
	"context"
	"fmt"
	"strings"

	"datachat/internal/agent"
)

// Invoke dispatches an action to the matching database operation.
func (t *Toolkit) Invoke(ctx context.Context, action agent.Action) (agent.Observation, *agent.ToolError) {
	var (
		content string
		err     error
	)

	switch action.Name {
	case agent.ActionListTables:
		content, err = t.listTables(ctx)
	case agent.ActionGetSchema:
		content, err = t.getSchema(ctx, action.StringArg("tables"))
	case agent.ActionCheckQuery:
		content, err = t.checkQuery(ctx, action.StringArg("query"))
	case agent.ActionExecuteQuery:
		content, err = t.executeQuery(ctx, action.StringArg("query"))
	default:
		err = fmt.Errorf("unknown tool action %q", action.Name)
	}

	if err != nil {
		if t.l != nil {
			t.l.Warnf(ctx, "sqltool: %s failed: %v", action.Name, err)
		}
		return agent.Observation{}, &agent.ToolError{
			ActionIDs: []string{action.ID},
			Cause:     err.Error(),
		}
	}

	return agent.Observation{ActionID: action.ID, Content: content}, nil
}

// listTables enumerates base tables.
func (t *Toolkit) listTables(ctx context.Context) (string, error) {
	q := `SELECT table_name FROM information_schema.tables
		WHERE table_type = 'BASE TABLE' ORDER BY table_name`
	if t.driver == "sqlite" {
		q = `SELECT name FROM sqlite_master
			WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`
	}

	rows, err := t.db.QueryContext(ctx, q)
	if err != nil {
		return "", fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return "", fmt.Errorf("list tables: %w", err)
		}
		tables = append(tables, name)
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("list tables: %w", err)
	}
	if len(tables) == 0 {
		return "(no tables)", nil
	}
	return strings.Join(tables, ", "), nil
}

// getSchema returns column name/type pairs for the named tables
// (comma-separated list in the action argument).
func (t *Toolkit) getSchema(ctx context.Context, tableArg string) (string, error) {
	if strings.TrimSpace(tableArg) == "" {
		return "", fmt.Errorf("get_schema requires a 'tables' argument")
	}

	var b strings.Builder
	for i, table := range splitTables(tableArg) {
		if i > 0 {
			b.WriteString("\n\n")
		}
		schema, err := t.tableSchema(ctx, table)
		if err != nil {
			return "", err
		}
		b.WriteString(schema)
	}
	return b.String(), nil
}

func (t *Toolkit) tableSchema(ctx context.Context, table string) (string, error) {
	if !validIdentifier(table) {
		return "", fmt.Errorf("invalid table name %q", table)
	}

	type column struct{ name, typ string }
	var cols []column

	if t.driver == "sqlite" {
		rows, err := t.db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%q)", table))
		if err != nil {
			return "", fmt.Errorf("schema for %s: %w", table, err)
		}
		defer rows.Close()
		for rows.Next() {
			var (
				cid, notnull, pk int
				name, typ        string
				dflt             any
			)
			if err := rows.Scan(&cid, &name, &typ, &notnull, &dflt, &pk); err != nil {
				return "", fmt.Errorf("schema for %s: %w", table, err)
			}
			cols = append(cols, column{name: name, typ: typ})
		}
		if err := rows.Err(); err != nil {
			return "", fmt.Errorf("schema for %s: %w", table, err)
		}
	} else {
		rows, err := t.db.QueryContext(ctx,
			`SELECT column_name, data_type FROM information_schema.columns
			WHERE table_name = ? ORDER BY ordinal_position`, table)
		if err != nil {
			return "", fmt.Errorf("schema for %s: %w", table, err)
		}
		defer rows.Close()
		for rows.Next() {
			var name, typ string
			if err := rows.Scan(&name, &typ); err != nil {
				return "", fmt.Errorf("schema for %s: %w", table, err)
			}
			cols = append(cols, column{name: name, typ: typ})
		}
		if err := rows.Err(); err != nil {
			return "", fmt.Errorf("schema for %s: %w", table, err)
		}
	}

	if len(cols) == 0 {
		return "", fmt.Errorf("table %q not found", table)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Table %s:\n", table)
	for _, c := range cols {
		fmt.Fprintf(&b, "  %s %s\n", c.name, c.typ)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

// checkQuery validates a candidate query without executing it: it must pass
// the read-only statement check and plan cleanly under EXPLAIN. On success
// the (unchanged) query text is returned so the caller can proceed with it.
func (t *Toolkit) checkQuery(ctx context.Context, query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", fmt.Errorf("check_query requires a 'query' argument")
	}
	if err := ensureReadOnly(query); err != nil {
		return "", err
	}

	explain := "EXPLAIN " + strings.TrimSuffix(query, ";")
	if t.driver == "sqlite" {
		explain = "EXPLAIN QUERY PLAN " + strings.TrimSuffix(query, ";")
	}

	rows, err := t.db.QueryContext(ctx, explain)
	if err != nil {
		return "", fmt.Errorf("query failed validation: %v", err)
	}
	rows.Close()

	return query, nil
}

// executeQuery runs a read-only statement and renders up to maxRows rows
// of the result as text.
func (t *Toolkit) executeQuery(ctx context.Context, query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", fmt.Errorf("execute_query requires a 'query' argument")
	}
	if err := ensureReadOnly(query); err != nil {
		return "", err
	}

	rows, err := t.db.QueryContext(ctx, query)
	if err != nil {
		return "", err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(strings.Join(cols, " | "))
	b.WriteString("\n")

	count := 0
	truncated := false
	values := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range values {
		ptrs[i] = &values[i]
	}

	for rows.Next() {
		if count >= t.maxRows {
			truncated = true
			break
		}
		if err := rows.Scan(ptrs...); err != nil {
			return "", err
		}
		cells := make([]string, len(cols))
		for i, v := range values {
			cells[i] = renderValue(v)
		}
		b.WriteString(strings.Join(cells, " | "))
		b.WriteString("\n")
		count++
	}
	if err := rows.Err(); err != nil {
		return "", err
	}

	if count == 0 {
		return "(no rows)", nil
	}

	fmt.Fprintf(&b, "(%d row(s)", count)
	if truncated {
		fmt.Fprintf(&b, ", truncated at %d", t.maxRows)
	}
	b.WriteString(")")
	return b.String(), nil
}

func renderValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(x)
	default:
		return fmt.Sprintf("%v", x)
	}
}

func splitTables(arg string) []string {
	var out []string
	for _, t := range strings.Split(arg, ",") {
		t = strings.TrimSpace(t)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}
