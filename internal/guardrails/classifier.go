package guardrails

import (
	"regexp"
	"strings"
)

const (
	reasonEmptyQuery     = "empty query"
	reasonMultiStatement = "multi-statement queries not allowed"
	reasonUnsupported    = "only SELECT and UPDATE statements are allowed"
	reasonUnterminated   = "unterminated quoted string"
)

var firstKeywordRe = regexp.MustCompile(`^[A-Za-z_]+`)

// Classify decides from the first keyword whether a statement is a SELECT, an
// UPDATE, or something that is never allowed. Stacked statements and comments
// are rejected here so a later keyword check cannot be bypassed.
func Classify(query string) (StatementKind, ErrorKind, string) {
	q := strings.TrimSpace(query)
	if q == "" {
		return RejectedKind, EmptyQuery, reasonEmptyQuery
	}

	// an unclosed quote could hide the end of the statement
	masked, closed := maskLiterals(q)
	if !closed {
		return RejectedKind, MultiStatement, reasonUnterminated
	}
	if hasCommentOrStackedStatement(masked) {
		return RejectedKind, MultiStatement, reasonMultiStatement
	}

	switch strings.ToUpper(firstKeywordRe.FindString(q)) {
	case "SELECT":
		return SelectKind, NoError, ""
	case "UPDATE":
		return UpdateKind, NoError, ""
	default:
		return RejectedKind, UnsupportedStatementKind, reasonUnsupported
	}
}

// hasCommentOrStackedStatement looks at the text outside quoted literals and
// identifiers. A comment marker anywhere, or a ';' followed by more text,
// means the input is not a single plain statement.
func hasCommentOrStackedStatement(masked string) bool {
	if strings.Contains(masked, "--") || strings.Contains(masked, "/*") {
		return true
	}
	for i := strings.IndexByte(masked, ';'); i >= 0; i = strings.IndexByte(masked, ';') {
		masked = masked[i+1:]
		if strings.TrimSpace(masked) != "" {
			return true
		}
	}
	return false
}
