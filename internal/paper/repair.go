package paper

import "strings"

// RepairTruncation best-effort closes JSON that was cut off mid-generation,
// the usual failure mode when the upstream model hits its output token
// ceiling. If the text ends inside a string (odd number of unescaped quotes)
// one closing quote is appended, then any unmatched braces and brackets are
// closed in that order.
//
// This is a heuristic, not a parser: brace counts include braces inside
// string values, and a document mangled beyond simple truncation will not be
// fixed here. That is acceptable because this is only one tier of several.
func RepairTruncation(raw string) string {
	raw = strings.TrimSpace(raw)

	if countUnescapedQuotes(raw)%2 != 0 {
		raw += `"`
	}

	openBraces := strings.Count(raw, "{") - strings.Count(raw, "}")
	openBrackets := strings.Count(raw, "[") - strings.Count(raw, "]")
	if openBraces > 0 {
		raw += strings.Repeat("}", openBraces)
	}
	if openBrackets > 0 {
		raw += strings.Repeat("]", openBrackets)
	}
	return raw
}

// countUnescapedQuotes counts double quotes not immediately preceded by a
// backslash. Deliberately a single-character lookbehind, not full parity:
// quotes already escaped by an earlier sanitize pass are a non-goal here.
func countUnescapedQuotes(s string) int {
	count := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '"' && (i == 0 || s[i-1] != '\\') {
			count++
		}
	}
	return count
}
