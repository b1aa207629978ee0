package guardrails

// Options toggles the stricter guardrail checks.
type Options struct {
	// RejectVacuousWhere rejects UPDATEs whose WHERE is always true.
	RejectVacuousWhere bool
}

// SQLGuard validates and rewrites agent-authored SQL. It holds only immutable
// options, so one instance can be shared by all goroutines.
type SQLGuard struct {
	opts Options
}

func NewSQLGuard(opts Options) *SQLGuard {
	return &SQLGuard{opts: opts}
}

var defaultGuard = NewSQLGuard(Options{})

// ValidateSQL runs the default guard.
func ValidateSQL(query string) SQLResult {
	return defaultGuard.Validate(query)
}

// Validate classifies the statement, scans the original text for forbidden
// keywords, enforces WHERE on UPDATE and adds the soft-delete filter to
// SELECT. UPDATE text is returned unchanged. Nothing is executed.
func (g *SQLGuard) Validate(query string) SQLResult {
	kind, errKind, reason := Classify(query)
	if kind == RejectedKind {
		// an unsupported statement that is also destructive cites the keyword
		if errKind == UnsupportedStatementKind {
			if pattern, found := ScanForbidden(query); found {
				return rejected(kind, ForbiddenKeyword, pattern.Reason)
			}
		}
		return rejected(kind, errKind, reason)
	}

	if pattern, found := ScanForbidden(query); found {
		return rejected(kind, ForbiddenKeyword, pattern.Reason)
	}

	switch kind {
	case UpdateKind:
		if errKind, reason := CheckWhereClause(query, g.opts.RejectVacuousWhere); errKind != NoError {
			return rejected(kind, errKind, reason)
		}
		return accepted(kind, query)
	default:
		return accepted(kind, InjectSoftDeleteFilter(query))
	}
}
