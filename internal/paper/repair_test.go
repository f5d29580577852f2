package paper

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRepairTruncation_BalancedInputUnchanged(t *testing.T) {
	in := `{"a": [1, 2], "b": {"c": "d"}}`
	assert.Equal(t, in, RepairTruncation(in))
}

func TestRepairTruncation_ClosesOddQuote(t *testing.T) {
	out := RepairTruncation(`{"a": "cut off mid sent`)
	assert.True(t, strings.HasPrefix(out, `{"a": "cut off mid sent"`), "got %q", out)
}

func TestRepairTruncation_AppendsBracesThenBrackets(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{`{"a": 1`, `{"a": 1}`},
		{`{"a": {"b": 1`, `{"a": {"b": 1}}`},
		{`[1, 2`, `[1, 2]`},
		{`{"a": [1, {"b": 2`, `{"a": [1, {"b": 2}}]`},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, RepairTruncation(tc.in), "input: %q", tc.in)
	}
}

func TestRepairTruncation_ExcessClosersNotCompensated(t *testing.T) {
	// More closers than openers appends nothing (never negative).
	in := `{"a": 1}}`
	assert.Equal(t, in, RepairTruncation(in))
}

func TestRepairTruncation_TrimsWhitespace(t *testing.T) {
	out := RepairTruncation("  {\"a\": 1  \n")
	assert.Equal(t, `{"a": 1}`, out)
}

func TestCountUnescapedQuotes(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{``, 0},
		{`"`, 1},
		{`""`, 2},
		{`\"`, 0},
		{`"a\"b"`, 2},
		{`{"a": "b"}`, 4},
	}
	for _, tc := range cases {
		if got := countUnescapedQuotes(tc.in); got != tc.want {
			t.Fatalf("countUnescapedQuotes(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
