package repository

import "strings"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a case-insensitive LIKE pattern for a substring
// match. Use it with "LOWER(col) LIKE ? ESCAPE '\'".
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(strings.TrimSpace(term))) + "%"
}

const likeClause = ` LIKE ? ESCAPE '\'`
