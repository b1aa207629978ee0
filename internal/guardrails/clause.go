package guardrails

import (
	"regexp"
	"strings"
)

const (
	reasonMissingWhere = "UPDATE requires a WHERE clause"
	reasonVacuousWhere = "UPDATE WHERE clause matches every row"
)

var (
	whereRe       = regexp.MustCompile(`(?i)\bWHERE\b`)
	orRe          = regexp.MustCompile(`(?i)\bOR\b`)
	literalEqRe   = regexp.MustCompile(`^('[^']*'|\d+(?:\.\d+)?)\s*=\s*('[^']*'|\d+(?:\.\d+)?)$`)
	trueLiteralRe = regexp.MustCompile(`(?i)^TRUE$`)
)

// HasWhereClause reports whether the WHERE keyword appears as a whole word
// outside quoted text.
func HasWhereClause(query string) bool {
	return findOutsideLiterals(whereRe, query) != nil
}

// CheckWhereClause applies the UPDATE scoping rules. A WHERE that is always
// true only fails when rejectVacuous is set.
func CheckWhereClause(query string, rejectVacuous bool) (ErrorKind, string) {
	if !HasWhereClause(query) {
		return MissingWhereClause, reasonMissingWhere
	}
	if rejectVacuous && IsVacuousWhere(query) {
		return VacuousWhereClause, reasonVacuousWhere
	}
	return NoError, ""
}

// IsVacuousWhere reports whether the predicate after the first WHERE has a
// top-level OR branch that is a tautology such as TRUE, 1=1 or 'a'='a'.
func IsVacuousWhere(query string) bool {
	masked, _ := maskLiterals(query)
	loc := whereRe.FindStringIndex(masked)
	if loc == nil {
		return false
	}

	// split on OR in the masked text so an "or" inside a literal stays put
	predicate, maskedPredicate := query[loc[1]:], masked[loc[1]:]
	start := 0
	for _, or := range orRe.FindAllStringIndex(maskedPredicate, -1) {
		if isTautology(predicate[start:or[0]]) {
			return true
		}
		start = or[1]
	}
	return isTautology(predicate[start:])
}

func isTautology(expr string) bool {
	e := strings.TrimSpace(expr)
	e = strings.TrimSpace(strings.TrimSuffix(e, ";"))
	for strings.HasPrefix(e, "(") && strings.HasSuffix(e, ")") {
		e = strings.TrimSpace(e[1 : len(e)-1])
	}

	if trueLiteralRe.MatchString(e) {
		return true
	}

	m := literalEqRe.FindStringSubmatch(e)
	return m != nil && m[1] == m[2]
}
