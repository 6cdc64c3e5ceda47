// Package schema holds the table naming shared by the SQL stores.
package schema

import (
	"fmt"
	"strings"
)

// TableNames holds dynamically prefixed table names
type TableNames struct {
	APILimits     string
	Subscriptions string
}

// NewTableNames creates table names with the given prefix
func NewTableNames(prefix string) *TableNames {
	return &TableNames{
		APILimits:     fmt.Sprintf("%suser_api_limit", prefix),
		Subscriptions: fmt.Sprintf("%suser_subscription", prefix),
	}
}

// DropOrder lists tables in the order they can be dropped.
func (t *TableNames) DropOrder() []string {
	return []string{t.Subscriptions, t.APILimits}
}

// Statements expands the {{prefix}} placeholder and splits a schema file
// into individual statements.
func Statements(ddl, prefix string) []string {
	expanded := strings.ReplaceAll(ddl, "{{prefix}}", prefix)
	var out []string
	for _, stmt := range strings.Split(expanded, ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			out = append(out, stmt)
		}
	}
	return out
}
