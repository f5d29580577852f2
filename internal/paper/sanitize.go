package paper

import "strings"

// validEscapeStarters are the characters that may legally follow a backslash
// inside a JSON string.
const validEscapeStarters = `"\/bfnrtu`

// Sanitize normalizes a raw model response so that it is syntactically closer
// to valid JSON, without touching structural whitespace outside strings.
//
// It strips raw control characters, escapes literal newlines and tabs that
// appear inside string values, drops carriage returns inside strings, and
// doubles any backslash that starts an invalid escape sequence. String
// boundaries are tracked with a single left-to-right scan: a double quote
// toggles the in-string state iff the run of backslashes immediately before
// it has even length.
//
// Applying Sanitize to already-valid JSON does not change what it parses to.
func Sanitize(raw string) string {
	stripped := stripControlChars(raw)

	var b strings.Builder
	b.Grow(len(stripped))

	inString := false
	n := len(stripped)
	for i := 0; i < n; i++ {
		c := stripped[i]
		switch c {
		case '"':
			// Count consecutive backslashes preceding the quote. Even
			// (including zero) means the quote is real and toggles state.
			bs := 0
			for j := i - 1; j >= 0 && stripped[j] == '\\'; j-- {
				bs++
			}
			if bs%2 == 0 {
				inString = !inString
			}
			b.WriteByte(c)
		case '\n':
			if inString {
				b.WriteString(`\n`)
			} else {
				b.WriteByte(c)
			}
		case '\t':
			if inString {
				b.WriteString(`\t`)
			} else {
				b.WriteByte(c)
			}
		case '\r':
			if !inString {
				b.WriteByte(c)
			}
		case '\\':
			if i+1 < n && strings.IndexByte(validEscapeStarters, stripped[i+1]) >= 0 {
				b.WriteByte(c)
			} else {
				// Invalid escape start (or trailing backslash): escape the
				// backslash itself so it cannot break the parse.
				b.WriteString(`\\`)
			}
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// stripControlChars removes bytes in 0x00-0x08, 0x0B, 0x0C and 0x0E-0x1F.
// Tab, line feed and carriage return survive for the string-state pass.
func stripControlChars(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c <= 0x1f && c != '\t' && c != '\n' && c != '\r' {
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}
