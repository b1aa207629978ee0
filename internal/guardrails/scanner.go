package guardrails

import "regexp"

// ForbiddenPattern pairs a whole-word keyword matcher with the message shown
// to the agent when it matches.
type ForbiddenPattern struct {
	Keyword string
	Pattern *regexp.Regexp
	Reason  string
}

func forbidden(keyword, reason string) ForbiddenPattern {
	return ForbiddenPattern{
		Keyword: keyword,
		Pattern: regexp.MustCompile(`(?i)\b` + keyword + `\b`),
		Reason:  reason,
	}
}

// DELETE is blocked outright: rows are only ever soft deleted.
var forbiddenPatterns = []ForbiddenPattern{
	forbidden("DROP", "DROP statements are not allowed"),
	forbidden("TRUNCATE", "TRUNCATE statements are not allowed"),
	forbidden("ALTER", "ALTER statements are not allowed"),
	forbidden("CREATE", "CREATE statements are not allowed"),
	forbidden("GRANT", "GRANT statements are not allowed"),
	forbidden("REVOKE", "REVOKE statements are not allowed"),
	forbidden("DELETE", "DELETE not allowed - use UPDATE SET is_deleted = true"),
	forbidden("INSERT", "INSERT not allowed - use the save_recipe tool"),
}

// ForbiddenPatterns returns a copy of the forbidden keyword list.
func ForbiddenPatterns() []ForbiddenPattern {
	patterns := make([]ForbiddenPattern, len(forbiddenPatterns))
	copy(patterns, forbiddenPatterns)
	return patterns
}

// ScanForbidden returns the first forbidden pattern found anywhere in query.
func ScanForbidden(query string) (ForbiddenPattern, bool) {
	for _, p := range forbiddenPatterns {
		if p.Pattern.MatchString(query) {
			return p, true
		}
	}
	return ForbiddenPattern{}, false
}
