package guardrails

import (
	"regexp"
	"strings"
)

// maskByte replaces quoted text in the masked copy. It is neither a word
// character nor whitespace, so keyword boundaries and trailing-text checks
// behave as if the literal were still there.
const maskByte = '#'

var dollarTagRe = regexp.MustCompile(`^\$(?:[A-Za-z_][A-Za-z0-9_]*)?\$`)

// maskLiterals returns q with every string literal, dollar-quoted string and
// quoted identifier overwritten by maskByte. Byte offsets are preserved, so
// positions found in the masked text index the original. closed is false
// when quoted text is still open at the end of q; everything from its opening
// delimiter on is masked.
func maskLiterals(q string) (masked string, closed bool) {
	b := []byte(q)
	for i := 0; i < len(b); {
		end, quoted := quotedEnd(q, i)
		if !quoted {
			i++
			continue
		}
		if end < 0 {
			fill(b[i:])
			return string(b), false
		}
		fill(b[i:end])
		i = end
	}
	return string(b), true
}

// quotedEnd reports whether quoted text starts at q[i] and, if so, the offset
// just past its closing delimiter, or -1 when it never closes.
func quotedEnd(q string, i int) (int, bool) {
	switch q[i] {
	case '\'':
		// E'...' strings accept backslash escapes
		escapes := i > 0 && (q[i-1] == 'E' || q[i-1] == 'e') && (i < 2 || !isWordByte(q[i-2]))
		return closingQuote(q, i, '\'', escapes), true
	case '"':
		return closingQuote(q, i, '"', false), true
	case '$':
		if i > 0 && isWordByte(q[i-1]) {
			// part of an identifier such as a$b
			return 0, false
		}
		tag := dollarTagRe.FindString(q[i:])
		if tag == "" {
			// $1 placeholder or a bare dollar sign
			return 0, false
		}
		body := i + len(tag)
		n := strings.Index(q[body:], tag)
		if n < 0 {
			return -1, true
		}
		return body + n + len(tag), true
	default:
		return 0, false
	}
}

func closingQuote(q string, start int, quote byte, escapes bool) int {
	for j := start + 1; j < len(q); j++ {
		switch {
		case escapes && q[j] == '\\':
			j++
		case q[j] == quote:
			if j+1 < len(q) && q[j+1] == quote {
				j++
				continue
			}
			return j + 1
		}
	}
	return -1
}

func fill(b []byte) {
	for i := range b {
		b[i] = maskByte
	}
}

func isWordByte(c byte) bool {
	return c == '_' || c == '$' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// findOutsideLiterals returns the location of the first match of re that is
// not inside quoted text, or nil.
func findOutsideLiterals(re *regexp.Regexp, query string) []int {
	masked, _ := maskLiterals(query)
	return re.FindStringIndex(masked)
}
