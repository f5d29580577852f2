package paper

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"
)

// excerptLimit bounds how much untrusted payload an error may carry.
const excerptLimit = 500

// ParseError reports that every parse tier was exhausted for one half.
type ParseError struct {
	Label   string // caller-supplied label, e.g. "Part 1"
	Excerpt string // bounded excerpt of the sanitized text
	Err     error  // error from the last tier attempted
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s JSON parse failed: %v\nraw: %s", e.Label, e.Err, e.Excerpt)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Parse tier identifiers, in escalation order.
const (
	tierDirect = iota + 1
	tierSanitized
	tierRepaired
	tierBraceBlock
	tierBlockRepaired
)

// ParseResilient turns one raw model response into a DocumentHalf, escalating
// through increasingly invasive recovery tiers: direct parse, sanitized,
// sanitized+repaired, largest brace-delimited block, repaired block. The
// first tier that yields valid JSON wins; if all fail the result is a
// *ParseError carrying label and a bounded excerpt. Recovery never fabricates
// content — a structurally unrecoverable response still fails loudly.
func ParseResilient(raw, label string) (DocumentHalf, error) {
	half, _, err := parseTiered(raw, label)
	return half, err
}

func parseTiered(raw, label string) (DocumentHalf, int, error) {
	var half DocumentHalf

	// 1. Direct: well-behaved responses parse on the first try.
	if err := json.Unmarshal([]byte(raw), &half); err == nil {
		return half, tierDirect, nil
	}

	// 2. Sanitized escapes.
	sanitized := Sanitize(raw)
	half = DocumentHalf{}
	if err := json.Unmarshal([]byte(sanitized), &half); err == nil {
		return half, tierSanitized, nil
	}

	// 3. Truncation repair on the sanitized text.
	repaired := RepairTruncation(sanitized)
	half = DocumentHalf{}
	if err := json.Unmarshal([]byte(repaired), &half); err == nil {
		return half, tierRepaired, nil
	}

	// 4. Largest brace-delimited block, for responses wrapped in prose.
	block, ok := largestBraceBlock(repaired)
	if !ok {
		return DocumentHalf{}, 0, &ParseError{
			Label:   label,
			Excerpt: excerpt(raw, 400),
			Err:     fmt.Errorf("no JSON object found"),
		}
	}
	half = DocumentHalf{}
	if err := json.Unmarshal([]byte(block), &half); err == nil {
		return half, tierBraceBlock, nil
	}

	// 5. Last ditch: repair the extracted block.
	half = DocumentHalf{}
	err := json.Unmarshal([]byte(RepairTruncation(block)), &half)
	if err == nil {
		return half, tierBlockRepaired, nil
	}
	return DocumentHalf{}, 0, &ParseError{
		Label:   label,
		Excerpt: excerpt(sanitized, excerptLimit),
		Err:     err,
	}
}

// largestBraceBlock returns the substring from the first '{' to the last '}',
// the greedy match the prose-wrapped case needs.
func largestBraceBlock(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end < start {
		return "", false
	}
	return s[start : end+1], true
}

func excerpt(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	// Back off to a rune boundary so the cut never mangles a multi-byte rune.
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit]
}

// StripFences removes a leading ```json (or bare ```) fence and a trailing
// ``` fence that models often wrap JSON output in, despite instructions.
func StripFences(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimPrefix(raw, "json")
		raw = strings.TrimLeft(raw, " \t\r\n")
	}
	if strings.HasSuffix(raw, "```") {
		raw = strings.TrimSuffix(raw, "```")
		raw = strings.TrimRight(raw, " \t\r\n")
	}
	return raw
}
