package store

import "strings"

// SplitStatements turns an embedded schema file into executable statements.
// Line comments are stripped first so a ";" inside a comment never splits a
// statement; the schemas carry no string literals containing semicolons.
func SplitStatements(schema string) []string {
	var b strings.Builder
	for _, line := range strings.Split(schema, "\n") {
		if idx := strings.Index(line, "--"); idx >= 0 {
			line = line[:idx]
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	var stmts []string
	for _, stmt := range strings.Split(b.String(), ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}
