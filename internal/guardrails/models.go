package guardrails

import "fmt"

// ValidationResult is the verdict on a chat prompt.
type ValidationResult struct {
	IsValid  bool   // true = allowed ; false = blocked
	Reason   string // Why the prompt was blocked
	Category string // "toxic", "off_topic", "pii", "prompt_injection"
	Method   string // "static" or "llm"
}

// StatementKind is the category the classifier assigns to a SQL statement.
type StatementKind int

const (
	RejectedKind StatementKind = iota
	SelectKind
	UpdateKind
)

func (k StatementKind) String() string {
	switch k {
	case SelectKind:
		return "select"
	case UpdateKind:
		return "update"
	default:
		return "rejected"
	}
}

func (k StatementKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// ErrorKind names why a statement was rejected. NoError on acceptance.
type ErrorKind int

const (
	NoError ErrorKind = iota
	EmptyQuery
	MultiStatement
	ForbiddenKeyword
	MissingWhereClause
	UnsupportedStatementKind
	VacuousWhereClause
)

func (e ErrorKind) String() string {
	switch e {
	case NoError:
		return "none"
	case EmptyQuery:
		return "empty_query"
	case MultiStatement:
		return "multi_statement"
	case ForbiddenKeyword:
		return "forbidden_keyword"
	case MissingWhereClause:
		return "missing_where_clause"
	case UnsupportedStatementKind:
		return "unsupported_statement_kind"
	case VacuousWhereClause:
		return "vacuous_where_clause"
	default:
		return fmt.Sprintf("error_kind(%d)", int(e))
	}
}

func (e ErrorKind) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// SQLResult is the outcome of validating one statement: either accepted with
// the (possibly rewritten) query to execute, or rejected with a reason.
type SQLResult struct {
	Accepted bool          `json:"ok"`
	Query    string        `json:"query,omitempty"`
	Reason   string        `json:"reason,omitempty"`
	Error    ErrorKind     `json:"error"`
	Kind     StatementKind `json:"kind"`
}

func accepted(kind StatementKind, query string) SQLResult {
	return SQLResult{Accepted: true, Query: query, Error: NoError, Kind: kind}
}

func rejected(kind StatementKind, errKind ErrorKind, reason string) SQLResult {
	return SQLResult{Accepted: false, Reason: reason, Error: errKind, Kind: kind}
}

// IsReadOnly reports whether an accepted result is a SELECT.
func (r SQLResult) IsReadOnly() bool {
	return r.Accepted && r.Kind == SelectKind
}
