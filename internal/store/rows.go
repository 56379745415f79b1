package store

import (
	"fmt"
	"sort"
	"strings"
)

// Row access is deliberately narrow: only the application-owned tables,
// only known columns. Anything else is rejected before touching SQL.
var allowedColumns = map[string]map[string]bool{
	"users": {
		"account_id":          true,
		"email":               true,
		"display_name":        true,
		"role":                true,
		"organization_name":   true,
		"bio":                 true,
		"profile_picture_url": true,
	},
}

func checkColumns(table string, rows ...Row) error {
	cols, ok := allowedColumns[table]
	if !ok {
		return &Error{Code: CodeBadRequest, Message: fmt.Sprintf("table %q is not exposed", table)}
	}
	for _, r := range rows {
		for k := range r {
			if !cols[k] {
				return &Error{Code: CodeBadRequest, Message: fmt.Sprintf("column %q is not exposed on %q", k, table)}
			}
		}
	}
	return nil
}

// sortedKeys gives deterministic column order for generated SQL.
func sortedKeys(r Row) []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// buildWhere renders "k1 = $n AND k2 = $n+1" starting at placeholder
// index start, returning the clause and the ordered args.
func buildWhere(filter Row, start int) (string, []any) {
	keys := sortedKeys(filter)
	parts := make([]string, 0, len(keys))
	args := make([]any, 0, len(keys))
	for i, k := range keys {
		parts = append(parts, fmt.Sprintf("%s = $%d", k, start+i))
		args = append(args, filter[k])
	}
	return strings.Join(parts, " AND "), args
}

func buildSelectOne(table string, filter Row) (string, []any) {
	where, args := buildWhere(filter, 1)
	return fmt.Sprintf("SELECT * FROM %s WHERE %s LIMIT 1", table, where), args
}

func buildInsert(table string, record Row) (string, []any) {
	keys := sortedKeys(record)
	placeholders := make([]string, 0, len(keys))
	args := make([]any, 0, len(keys))
	for i, k := range keys {
		placeholders = append(placeholders, fmt.Sprintf("$%d", i+1))
		args = append(args, record[k])
	}
	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) RETURNING *",
		table, strings.Join(keys, ", "), strings.Join(placeholders, ", "),
	)
	return query, args
}

func buildUpdate(table string, filter, patch Row) (string, []any) {
	keys := sortedKeys(patch)
	sets := make([]string, 0, len(keys)+1)
	args := make([]any, 0, len(keys)+len(filter))
	for i, k := range keys {
		sets = append(sets, fmt.Sprintf("%s = $%d", k, i+1))
		args = append(args, patch[k])
	}
	sets = append(sets, "updated_at = NOW()")
	where, whereArgs := buildWhere(filter, len(keys)+1)
	args = append(args, whereArgs...)
	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s", table, strings.Join(sets, ", "), where)
	return query, args
}

// normalizeRow converts driver byte slices to strings so callers get a
// uniform Row shape regardless of the underlying column type.
func normalizeRow(r Row) Row {
	for k, v := range r {
		if b, ok := v.([]byte); ok {
			r[k] = string(b)
		}
	}
	return r
}
