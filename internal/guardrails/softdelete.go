package guardrails

import (
	"regexp"
	"strings"
)

const softDeleteCondition = "is_deleted = false"

// Clauses that follow WHERE, in the order they are tried as insertion points.
var trailingClauseRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bORDER\s+BY\b`),
	regexp.MustCompile(`(?i)\bLIMIT\b`),
	regexp.MustCompile(`(?i)\bGROUP\s+BY\b`),
}

// InjectSoftDeleteFilter rewrites a SELECT so logically deleted rows are
// excluded. The rewrite is textual: it targets the first WHERE, or the first
// ORDER BY / LIMIT / GROUP BY outside quoted text, and does not understand
// subqueries or UNIONs.
func InjectSoftDeleteFilter(query string) string {
	masked, _ := maskLiterals(query)
	if loc := whereRe.FindStringIndex(masked); loc != nil {
		return query[:loc[1]] + " " + softDeleteCondition + " AND " + query[loc[1]:]
	}

	for _, re := range trailingClauseRes {
		if loc := re.FindStringIndex(masked); loc != nil {
			head := strings.TrimRightFunc(query[:loc[0]], isSpace)
			return strings.TrimSpace(head + " WHERE " + softDeleteCondition + " " + query[loc[0]:])
		}
	}

	q := strings.TrimRightFunc(query, isSpace)
	q = strings.TrimRightFunc(strings.TrimSuffix(q, ";"), isSpace)
	return q + " WHERE " + softDeleteCondition
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}
