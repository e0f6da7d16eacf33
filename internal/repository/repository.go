package repository

import "strings"

// prefixColumns qualifies every column in a comma-separated column list with
// a table alias, so shared column constants can be reused in join queries.
func prefixColumns(alias, columns string) string {
	parts := strings.Split(columns, ",")
	for i, p := range parts {
		parts[i] = alias + "." + strings.TrimSpace(p)
	}
	return strings.Join(parts, ", ")
}
